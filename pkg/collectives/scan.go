package collectives

import (
	"context"

	"github.com/collectivesmq/collectives/pkg/wire"
)

// Scan computes an inclusive fold of data across ranks at root via
// Reduce, then redistributes partial results down a binomial tree: a
// node forwards its reduced value to the first child it addresses and
// init to every subsequent one, folding whatever it receives into its
// own data element-wise (spec.md §4.4 scan). The broadcast phase uses
// its own, separately-computed downward remap; it does not reuse
// Reduce's internal upward one.
func Scan[T any](ctx context.Context, c *Collectives, data []T, init T, fn func(a, b T) T, root int) ([]T, error) {
	val, err := Reduce(ctx, c, data, init, fn, root)
	if err != nil {
		return nil, err
	}

	nranks := c.t.NRanks()
	if nranks == 1 {
		return data, nil
	}

	xmtData := [2]T{init, val}
	xmtIdx := 1

	rankMe := remapDownward(c.t.Rank(), nranks, root)
	k := nranks / 2
	notRecv := true

	for i := 0; i < logp(nranks); i++ {
		twok := 2 * k
		switch {
		case rankMe%twok == 0:
			enc, err := wire.EncodeValue(xmtData[xmtIdx])
			if err != nil {
				return nil, err
			}
			dest := remapDownward(rankMe+k, nranks, root)
			if err := c.send(ctx, dest, enc); err != nil {
				return nil, err
			}
			if xmtIdx == 1 {
				xmtIdx = 0
			}
		case notRecv && rankMe%twok == k:
			b, err := c.recv(ctx)
			if err != nil {
				return nil, err
			}
			var received T
			if err := wire.DecodeValue(b, &received); err != nil {
				return nil, err
			}
			for idx := range data {
				data[idx] = fn(received, data[idx])
			}
			notRecv = false
		}
		k >>= 1
	}

	return data, nil
}
