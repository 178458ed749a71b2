package speculate

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/reoring/chunkparse"
)

// ErrNoAdmissible is returned when every candidate continuation is rejected.
var ErrNoAdmissible = errors.New("speculate: no admissible continuation")

// Status classifies one candidate.
type Status int

const (
	Rejected   Status = iota // the parser rejected the candidate
	Admissible               // valid prefix; State resumes the parse
	Complete                 // the value finished within the candidate
)

func (s Status) String() string {
	switch s {
	case Rejected:
		return "rejected"
	case Admissible:
		return "admissible"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Verdict is the outcome of feeding one candidate to a copy of the shared
// state.
type Verdict[T any] struct {
	// Candidate is the index of the candidate in the Evaluate input.
	Candidate int
	Status    Status
	// State is set for Admissible verdicts.
	State chunkparse.State
	// Value and Remaining are set for Complete verdicts.
	Value     T
	Remaining []byte
	// Err holds the rejection reason.
	Err error
}

// Options configures an Evaluator.
type Options struct {
	// MaxGoroutines bounds the fan-out; 0 means GOMAXPROCS.
	MaxGoroutines int
	// Logger receives debug summaries; nil disables logging.
	Logger *zap.Logger
}

// Evaluator feeds many candidate continuations to copies of one parse state
// in parallel. The evaluated parser and the shared state are never modified,
// so the same state may be evaluated again with other candidates.
type Evaluator[T any] struct {
	p    chunkparse.Parser[T]
	opts Options
	log  *zap.Logger
}

// New returns an Evaluator for p.
func New[T any](p chunkparse.Parser[T], opts Options) *Evaluator[T] {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator[T]{p: p, opts: opts, log: log.Named("speculate")}
}

type candidate struct {
	idx   int
	chunk []byte
}

// Evaluate returns one verdict per candidate, in candidate order. A nil state
// means the start state; an empty candidate signals end of input. When ctx is
// cancelled the remaining candidates are rejected with ctx's error and that
// error is returned.
func (e *Evaluator[T]) Evaluate(ctx context.Context, st chunkparse.State, candidates [][]byte) ([]Verdict[T], error) {
	if st == nil {
		st = e.p.Start()
	}
	in := make([]candidate, len(candidates))
	for i, c := range candidates {
		in[i] = candidate{idx: i, chunk: c}
	}
	mapper := iter.Mapper[candidate, Verdict[T]]{MaxGoroutines: e.opts.MaxGoroutines}
	out := mapper.Map(in, func(c *candidate) Verdict[T] {
		if err := ctx.Err(); err != nil {
			return Verdict[T]{Candidate: c.idx, Status: Rejected, Err: err}
		}
		return e.judge(st, c.idx, c.chunk)
	})
	if e.log.Core().Enabled(zap.DebugLevel) {
		counts := lo.CountValuesBy(out, func(v Verdict[T]) Status { return v.Status })
		e.log.Debug("evaluated candidates",
			zap.Int("candidates", len(out)),
			zap.Int("admissible", counts[Admissible]),
			zap.Int("complete", counts[Complete]),
			zap.Int("rejected", counts[Rejected]),
		)
	}
	return out, ctx.Err()
}

func (e *Evaluator[T]) judge(st chunkparse.State, idx int, chunk []byte) Verdict[T] {
	res, err := e.p.Parse(st, chunk)
	if err != nil {
		return Verdict[T]{Candidate: idx, Status: Rejected, Err: err}
	}
	if res.IsFinished() {
		return Verdict[T]{Candidate: idx, Status: Complete, Value: res.Value, Remaining: res.Remaining}
	}
	return Verdict[T]{Candidate: idx, Status: Admissible, State: res.State}
}

// Accepted returns the verdicts that were not rejected.
func Accepted[T any](vs []Verdict[T]) []Verdict[T] {
	return lo.Filter(vs, func(v Verdict[T], _ int) bool { return v.Status != Rejected })
}

// Mask zeroes the weight of every rejected candidate. weights[i] belongs to
// the candidate with index i. It returns ErrNoAdmissible when no candidate
// survives, leaving every weight zeroed.
func Mask[T any](weights []float32, vs []Verdict[T]) error {
	if len(weights) != len(vs) {
		return fmt.Errorf("speculate: %d weights for %d verdicts", len(weights), len(vs))
	}
	for _, v := range vs {
		if v.Status == Rejected {
			weights[v.Candidate] = 0
		}
	}
	if !lo.SomeBy(vs, func(v Verdict[T]) bool { return v.Status != Rejected }) {
		return ErrNoAdmissible
	}
	return nil
}
