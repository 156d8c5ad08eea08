package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned to a caller whose evaluation finished after a
// newer one had started.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

type evalResult struct {
	preset *Preset
	errors []EvalError
	err    error
}

// waitWithTimeout waits for ch for at most EvalTimeout. A result whose
// generation is no longer current is discarded. After a timeout the
// goroutine keeps running and its result is dropped into the buffered
// channel.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Preset, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()
		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.preset, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
