// Package graph defines the appearance graph types for aurora.
// The appearance graph is a DAG of typed shader nodes joined by links
// between named sockets; it describes how an aurora surface is coloured.
package graph
