// Package collectives implements the binomial-tree collective
// algorithms (broadcast, reduce, barrier, gather, scatter, scan) on
// top of pkg/transport's point-to-point send/recv contract. Every
// algorithm here is a disciplined, exact sequence of Send/Recv calls;
// correctness depends on every rank executing the same sequence of
// steps in lockstep (spec.md §3 invariants).
package collectives

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/collectivesmq/collectives/pkg/transport"
)

// Collectives drives a Transport through the collective algorithms.
// It holds no state of its own beyond the transport and logger.
type Collectives struct {
	t   transport.Transport
	log zerolog.Logger
}

// New wraps a Transport flavour in a Collectives.
func New(t transport.Transport, log zerolog.Logger) *Collectives {
	return &Collectives{t: t, log: log}
}

// logp returns ceil(log2(nranks)), the binomial-tree depth. Callers
// must ensure nranks is a power of two (pkg/params rejects anything
// else at construction time); a non-power-of-two world produces a
// tree that over-steps and is explicitly undefined (spec.md §9 Open
// Question 3).
func logp(nranks int) int {
	return int(math.Ceil(math.Log2(float64(nranks))))
}

// Open runs Initialize and returns a Close func guaranteed to run
// Finalize on every exit path, mirroring the Python original's
// __enter__/__exit__ scoped-lifecycle contract (spec.md §4.5). Unlike
// the original, which swallows the exception after logging it, Close
// here always propagates the Finalize error (if any) to its caller —
// a documented behavioral choice per spec.md §4.5's "an implementer
// is free to surface it instead, but must document the choice."
func Open(t transport.Transport, log zerolog.Logger) (*Collectives, func() error, error) {
	if err := t.Initialize(); err != nil {
		return nil, nil, err
	}
	c := New(t, log)
	return c, t.Finalize, nil
}

func (c *Collectives) send(ctx context.Context, peer int, data []byte) error {
	return c.t.Send(ctx, peer, data)
}

func (c *Collectives) recv(ctx context.Context) ([]byte, error) {
	return c.t.Recv(ctx)
}
