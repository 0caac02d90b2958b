package collectives_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collectivesmq/collectives/pkg/collectives"
)

func sumInts(a, b int) int { return a + b }

func TestReduceSumAtRoot(t *testing.T) {
	const nranks = 4
	results := runOnMesh(t, nranks, func(ctx context.Context, c *collectives.Collectives, rank int) (any, error) {
		return collectives.Reduce(ctx, c, []int{rank + 1}, 0, sumInts, 0)
	})
	// ranks 0..3 contribute 1+2+3+4 = 10, meaningful only at root.
	require.Equal(t, 10, results[0])
}

func TestReduceNonZeroRootMatchesRootZero(t *testing.T) {
	const nranks = 8
	for _, root := range []int{0, 2, 5} {
		root := root
		results := runOnMesh(t, nranks, func(ctx context.Context, c *collectives.Collectives, rank int) (any, error) {
			return collectives.Reduce(ctx, c, []int{1}, 0, sumInts, root)
		})
		require.Equal(t, nranks, results[root], "root=%d", root)
	}
}

func TestReduceSingleRank(t *testing.T) {
	results := runOnMesh(t, 1, func(ctx context.Context, c *collectives.Collectives, rank int) (any, error) {
		return collectives.Reduce(ctx, c, []int{3, 4}, 0, sumInts, 0)
	})
	require.Equal(t, 7, results[0])
}
