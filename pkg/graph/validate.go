package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding makes the graph
// unusable or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // graph cannot be used
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Errors filters findings down to error severity.
func Errors(findings []ValidationError) []ValidationError {
	var out []ValidationError
	for _, f := range findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Validate runs the structural checks on the appearance graph and returns
// every finding. The graph is never mutated.
func Validate(g *Graph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateOutput(g)...)
	errs = append(errs, validateLinks(g)...)
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateReachable(g)...)
	return errs
}

// validateOutput checks there is exactly one output node.
func validateOutput(g *Graph) []ValidationError {
	outputs := g.OfKind(NodeOutput)
	if len(outputs) == 1 {
		return nil
	}
	return []ValidationError{{
		Message:  fmt.Sprintf("graph has %d output nodes, want exactly 1", len(outputs)),
		Severity: SeverityError,
	}}
}

// validateLinks checks that links reference existing nodes and sockets, that
// socket types are compatible, and that no input is fed twice.
func validateLinks(g *Graph) []ValidationError {
	var errs []ValidationError
	fed := make(map[[2]string]bool)

	for _, l := range g.Links {
		from, to := g.Nodes[l.FromNode], g.Nodes[l.ToNode]
		if from == nil {
			errs = append(errs, ValidationError{
				NodeID:   l.ToNode,
				Message:  fmt.Sprintf("link source %s does not exist", l.FromNode.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if to == nil {
			errs = append(errs, ValidationError{
				NodeID:   l.FromNode,
				Message:  fmt.Sprintf("link target %s does not exist", l.ToNode.Short()),
				Severity: SeverityError,
			})
			continue
		}
		src, dst := from.Output(l.FromSocket), to.Input(l.ToSocket)
		if src == nil || dst == nil {
			errs = append(errs, ValidationError{
				NodeID:   to.ID,
				Message:  fmt.Sprintf("link %s.%s -> %s.%s names a missing socket", from.Name, l.FromSocket, to.Name, l.ToSocket),
				Severity: SeverityError,
			})
			continue
		}
		if (src.Type == SocketShader) != (dst.Type == SocketShader) {
			errs = append(errs, ValidationError{
				NodeID:   to.ID,
				Message:  fmt.Sprintf("cannot link %s output into %s input %q", src.Type, dst.Type, l.ToSocket),
				Severity: SeverityError,
			})
		}
		key := [2]string{string(l.ToNode), l.ToSocket}
		if fed[key] {
			errs = append(errs, ValidationError{
				NodeID:   to.ID,
				Message:  fmt.Sprintf("input %q has more than one link", l.ToSocket),
				Severity: SeverityError,
			})
		}
		fed[key] = true
	}
	return errs
}

// validateDAG checks for cycles using DFS with 3-colour marking over the
// upstream direction of links. Reaching a gray node means a cycle.
func validateDAG(g *Graph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	upstream := make(map[NodeID][]NodeID)
	for _, l := range g.Links {
		upstream[l.ToNode] = append(upstream[l.ToNode], l.FromNode)
	}

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}
		color[id] = gray
		for _, dep := range upstream[id] {
			if visit(dep) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, n := range g.Ordered() {
		if color[n.ID] == white && visit(n.ID) {
			break
		}
	}
	return errs
}

// validateNames checks the name index points at existing nodes and that no
// two nodes share a name.
func validateNames(g *Graph) []ValidationError {
	var errs []ValidationError
	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}
	seen := make(map[string]int)
	for _, n := range g.Nodes {
		if n.Name != "" {
			seen[n.Name]++
		}
	}
	for name, count := range seen {
		if count > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, count),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateReachable warns about nodes that do not feed the output.
func validateReachable(g *Graph) []ValidationError {
	outputs := g.OfKind(NodeOutput)
	if len(outputs) == 0 {
		return nil
	}

	upstream := make(map[NodeID][]NodeID)
	for _, l := range g.Links {
		upstream[l.ToNode] = append(upstream[l.ToNode], l.FromNode)
	}

	reachable := make(map[NodeID]bool)
	queue := []NodeID{}
	for _, o := range outputs {
		reachable[o.ID] = true
		queue = append(queue, o.ID)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range upstream[current] {
			if !reachable[dep] {
				reachable[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	var errs []ValidationError
	for _, n := range g.Ordered() {
		if !reachable[n.ID] {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("node %q does not contribute to the output", n.Name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
