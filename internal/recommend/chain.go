package recommend

import (
	"context"
	"log/slog"
)

// Chain tries each recommender in order and returns the first success.
type Chain []Recommender

func (c Chain) Recommend(ctx context.Context, in Input) (Result, error) {
	var lastErr error = ErrNoMinutes
	for _, r := range c {
		res, err := r.Recommend(ctx, in)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		slog.Warn("recommender failed, trying next", "err", err)
		lastErr = err
	}
	return Result{}, lastErr
}
