// Package collector asks the operator for configuration values, one
// section at a time.
//
// A section is turned into an explicit step plan before it runs. Every
// question whose remote item already exists is preceded by a synthetic
// overwrite confirmation, and the question itself becomes conditional on
// that confirmation. Declining keeps the remote value: the answer is
// recorded as reused and never pushed again.
//
// All run state lives in a Session that is threaded through each section.
// After a section completes its answers are flushed to the local snapshot
// so an aborted run can be resumed with fewer questions.
package collector
