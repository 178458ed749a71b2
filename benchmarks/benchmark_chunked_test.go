package chunkparse_test

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/chunkparse"
	g "github.com/reoring/chunkparse/dsl"
	"github.com/reoring/chunkparse/schema"
	"github.com/reoring/chunkparse/speculate"
)

// ---- Helpers ----

// generateU32List returns "[0, 7, 14, ...]" with n elements.
func generateU32List(n int) []byte {
	var buf bytes.Buffer
	buf.Grow(n * 8)
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(strconv.Itoa(i * 7))
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func chunksOf(data []byte, size int) [][]byte {
	out := make([][]byte, 0, len(data)/size+1)
	for len(data) > size {
		out = append(out, data[:size])
		data = data[size:]
	}
	return append(out, data)
}

// ---- Micro benchmarks (small inputs) ----

func Benchmark_Vec_U8_Small_OneShot(b *testing.B) {
	p := g.Vec(g.Int[uint8]())
	data := []byte("[1, 2, 3, 250]")
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := chunkparse.ParseAll(p, data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Vec_U8_Small_Bytewise(b *testing.B) {
	p := g.Vec(g.Int[uint8]())
	chunks := chunksOf([]byte("[1, 2, 3, 250]"), 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := chunkparse.ParseAll(p, chunks...); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Compiled_Vs_Typed(b *testing.B) {
	data := []byte("[[1, 2], [3, 4], [5, 6]]")
	typed := g.Vec(g.Array(g.Int[uint16](), 2))
	ts, err := schema.ParseTypeExpr("vec<array<u16, 2>>")
	if err != nil {
		b.Fatal(err)
	}
	compiled := schema.MustBuild(ts)
	b.Run("typed", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, _, err := chunkparse.ParseAll(typed, data); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("compiled", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, _, err := chunkparse.ParseAll(compiled, data); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// ---- Macro benchmarks (large lists) ----

const hugeElems = 20000

func Benchmark_Vec_U32_Huge_ChunkSizes(b *testing.B) {
	p := g.Vec(g.Int[uint32]())
	data := generateU32List(hugeElems)
	for _, size := range []int{1, 16, 256, 4096, len(data)} {
		chunks := chunksOf(data, size)
		b.Run(fmt.Sprintf("chunk=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, _, err := chunkparse.ParseAll(p, chunks...); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Baseline: the same list decoded as JSON in one piece.
func Benchmark_Vec_U32_Huge_GoJSON(b *testing.B) {
	data := generateU32List(hugeElems)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out []uint32
		if err := json.Unmarshal(data, &out); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Speculate_Digits(b *testing.B) {
	p := g.Vec(g.Int[uint16]())
	r, err := p.Parse(nil, []byte("[1, 2, 3"))
	if err != nil {
		b.Fatal(err)
	}
	cands := make([][]byte, 0, 12)
	for d := 0; d < 10; d++ {
		cands = append(cands, []byte{byte('0' + d)})
	}
	cands = append(cands, []byte(", "), []byte("]"))
	ev := speculate.New(p, speculate.Options{})
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Evaluate(ctx, r.State, cands); err != nil {
			b.Fatal(err)
		}
	}
}
