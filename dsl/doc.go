// Package dsl provides the concrete parsers of chunkparse.
//
// Overview
//   - Primitives: Literal/LiteralBytes, Integer (with the typed adapters Int[T]
//     and IntRange[T]), String (a StringBuilder with Min/Max/Accept/Exclude)
//     and Quoted.
//   - Combinators: Sequence, Map, Separated and Repeat.
//   - Aggregates: Vec (bracketed, ", "-separated list) and Array (same surface
//     with an exact element count).
//   - Type mapping: ParserFor[T]/MustParserFor[T]/StartFor[T], extended
//     through Parseable[T] or Register[T].
//   - Erase adapts any parser to Parser[any]; Describe projects a parser to
//     JSON Schema.
//
// Every parser is an immutable value and every state it returns is an
// immutable value, so states may be copied freely and resumed from any
// number of goroutines. Offsets in returned Issues are relative to the chunk
// passed to the call that failed.
//
// File layout (roles)
//   - literal.go: Literal and the shared state recovery helper.
//   - integer.go: Integer over chunkparse.Int and the typed adapters.
//   - string.go: String runs and Quoted.
//   - sequence.go: Sequence and Map.
//   - separated.go: Separated/Repeat and the immutable item list.
//   - aggregate.go: Vec and Array.
//   - mapping.go: the type-to-parser registry and reflection fallback.
//   - erase.go, describe.go: any-erasure and JSON Schema projection.
//
// Example
//
//	package main
//
//	import (
//	    "github.com/reoring/chunkparse"
//	    g "github.com/reoring/chunkparse/dsl"
//	)
//
//	func main() {
//	    p := g.Vec(g.Int[uint8]())
//	    res, _ := p.Parse(p.Start(), []byte("[1, 2"))
//	    a, b := res.State, res.State // two independent continuations
//	    ra, _ := p.Parse(a, []byte(", 3]")) // Finished: [1 2 3]
//	    _, err := p.Parse(b, []byte("56]")) // out_of_range: 256 > 255
//	    _, _ = ra, err
//	    _ = chunkparse.Finished
//	}
package dsl
