package collectives

import (
	"context"

	"github.com/collectivesmq/collectives/pkg/wire"
)

// Broadcast disseminates data from root to every rank via a binomial
// tree. Every rank must hold a value at termination; non-root ranks
// return root's value (spec.md §4.4 broadcast, §8 invariant 1).
func Broadcast[T any](ctx context.Context, c *Collectives, data T, root int) (T, error) {
	nranks := c.t.NRanks()
	if nranks == 1 {
		return data, nil
	}

	rankMe := remapDownward(c.t.Rank(), nranks, root)
	k := nranks / 2
	notRecv := true

	for i := 0; i < logp(nranks); i++ {
		twok := 2 * k
		switch {
		case rankMe%twok == 0:
			enc, err := wire.EncodeValue(data)
			if err != nil {
				return data, err
			}
			// rankMe+k is the destination's virtual tree position;
			// remapDownward is self-inverse, so applying it again
			// recovers the destination's real rank for the transport.
			dest := remapDownward(rankMe+k, nranks, root)
			if err := c.send(ctx, dest, enc); err != nil {
				return data, err
			}
		case notRecv && rankMe%twok == k:
			b, err := c.recv(ctx)
			if err != nil {
				return data, err
			}
			if err := wire.DecodeValue(b, &data); err != nil {
				return data, err
			}
			notRecv = false
		}
		k >>= 1
	}

	return data, nil
}
