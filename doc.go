// Package chunkparse provides:
//
// - An incremental parser contract (Parser[T]) that consumes input in chunks of
// any size and reports Finished, Incomplete or an error at every boundary
// - Immutable, freely duplicable parse states for speculative evaluation of
// many candidate continuations from the same point
// - A stable error model via Issues (code, offset, expected/got bytes)
// - Drive helpers (Feed, Finish, ParseAll) and a stateful Session
//
// Design policy:
// - Keep only the contracts and the result/error model in the root package;
// concrete parsers and combinators live under dsl/.
// - Declarative type specs live under schema/, speculative fan-out under
// speculate/, and the CLI under cmd/chunkparse.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	p := dsl.Vec(dsl.Int[uint8]())
//	res, err := p.Parse(p.Start(), []byte("[1, 2"))
//	// res.Status == chunkparse.Incomplete
//	res, err = p.Parse(res.State, []byte(", 3]"))
//	// res.Value == []uint8{1, 2, 3}
//
//	fork := res.State // states are values; forks never affect each other
package chunkparse
