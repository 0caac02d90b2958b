package collectives

import (
	"context"

	"github.com/collectivesmq/collectives/pkg/wire"
)

// Gather collects every rank's data at root as a list-of-blobs tree
// aggregation (spec.md §4.4 gather). The result is valid only at
// root; other ranks get back a single-element slice holding just
// their own data, mirroring the original's unconditional ret=[data]
// seed. The returned order is tree-arrival order, not ascending rank
// order (spec.md's Ordering note) — reproduced exactly for test
// parity.
//
// spec.md describes gather's tree pattern as "same mask progression
// as reduce," which in reduce carries a not_sent guard so a node
// contributes exactly once; the distilled source's gather omits that
// guard, which would make a node with more than one set bit in its
// remapped rank resend a stale buffer to multiple parents. That isn't
// among spec.md's four flagged compatibility quirks, so this
// implementation follows the documented parity with reduce instead of
// reproducing the omission.
func Gather[T any](ctx context.Context, c *Collectives, data []T, root int) ([][]T, error) {
	nranks := c.t.NRanks()
	if nranks == 1 {
		return [][]T{data}, nil
	}

	rankMe := remapUpward(c.t.Rank(), nranks, root)

	var buffers [][]byte
	if rankMe != 0 {
		enc, err := wire.EncodeValue(data)
		if err != nil {
			return nil, err
		}
		buffers = append(buffers, enc)
	}

	notSent := true
	for mask := 1; mask < (1 << logp(nranks)); mask <<= 1 {
		if mask&rankMe == 0 {
			if (rankMe|mask) < nranks && notSent {
				b, err := c.recv(ctx)
				if err != nil {
					return nil, err
				}
				blobs, err := wire.DecodeBlobs(b)
				if err != nil {
					return nil, err
				}
				buffers = append(buffers, blobs...)
			}
		} else if notSent {
			parent := rankMe &^ mask
			enc, err := wire.EncodeBlobs(buffers)
			if err != nil {
				return nil, err
			}
			dest := remapUpwardInverse(parent, nranks, root)
			if err := c.send(ctx, dest, enc); err != nil {
				return nil, err
			}
			notSent = false
		}
	}

	result := [][]T{data}
	if rankMe == 0 {
		for _, buf := range buffers {
			var v []T
			if err := wire.DecodeValue(buf, &v); err != nil {
				return nil, err
			}
			result = append(result, v)
		}
	}
	return result, nil
}
