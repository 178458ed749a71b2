// Package speculate evaluates candidate continuations of one parse state.
//
// A sampler that proposes many next chunks (for example one per token of a
// vocabulary) hands them to Evaluator.Evaluate together with the current
// state. Each candidate is fed to its own copy of the state, in parallel, and
// classified as Rejected, Admissible (with the state to continue from) or
// Complete (with the value and leftover bytes). Mask turns the verdicts into a
// weight mask.
package speculate
