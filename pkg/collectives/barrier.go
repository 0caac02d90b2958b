package collectives

import "context"

// Barrier blocks until every rank has entered it: a reduce-sum
// followed by a broadcast of the (discarded) result, exactly as
// spec.md §4.4 defines it. No rank exits before every other rank has
// entered (spec.md §8 invariant 4).
func Barrier(ctx context.Context, c *Collectives) error {
	v, err := Reduce(ctx, c, []int{0}, 0, func(a, b int) int { return a + b }, 0)
	if err != nil {
		return err
	}
	_, err = Broadcast(ctx, c, v, 0)
	return err
}
