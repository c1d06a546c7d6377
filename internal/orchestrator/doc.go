// Package orchestrator provides the reference build orchestrator that
// declarations are generated against.
//
// A Recorder executes the actions of a declaration without building
// anything: links are collected in order, package paths are looked up with a
// PathFinder and included declarations are fetched from the registry and
// generated recursively. The result is a Plan describing what a real build
// would have done.
package orchestrator
