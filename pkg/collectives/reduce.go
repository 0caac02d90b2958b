package collectives

import (
	"context"

	"github.com/collectivesmq/collectives/pkg/wire"
)

// Reduce folds data with fn (associative, commutativity not required)
// into a single value at root, via a binomial tree that mirrors
// reduce's mask-driven walk exactly (spec.md §4.4 reduce, §8 invariant
// 2). Only rank root's return value is meaningful.
func Reduce[T any](ctx context.Context, c *Collectives, data []T, init T, fn func(a, b T) T, root int) (T, error) {
	nranks := c.t.NRanks()
	local := init
	for _, v := range data {
		local = fn(local, v)
	}
	if nranks == 1 {
		return local, nil
	}

	rankMe := remapUpward(c.t.Rank(), nranks, root)
	notSent := true

	for mask := 1; mask < (1 << logp(nranks)); mask <<= 1 {
		if mask&rankMe == 0 {
			src := rankMe | mask
			if src < nranks && notSent {
				b, err := c.recv(ctx)
				if err != nil {
					return local, err
				}
				var received T
				if err := wire.DecodeValue(b, &received); err != nil {
					return local, err
				}
				local = fn(local, received)
			}
		} else if notSent {
			parent := rankMe &^ mask
			enc, err := wire.EncodeValue(local)
			if err != nil {
				return local, err
			}
			// parent is the destination's virtual position; translate
			// back to its real rank before handing it to the transport.
			dest := remapUpwardInverse(parent, nranks, root)
			if err := c.send(ctx, dest, enc); err != nil {
				return local, err
			}
			notSent = false
		}
	}

	return local, nil
}
