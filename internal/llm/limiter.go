package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited paces calls to a TextGenerator.
type RateLimited struct {
	next    TextGenerator
	limiter *rate.Limiter
}

// NewRateLimited allows perMinute requests per minute with a burst of one.
// A non-positive perMinute disables pacing.
func NewRateLimited(next TextGenerator, perMinute int) *RateLimited {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, 1)}
}

// GenerateContent waits for a token, then delegates.
func (r *RateLimited) GenerateContent(ctx context.Context, prompt Prompt) (ContentResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return ContentResponse{}, err
	}
	return r.next.GenerateContent(ctx, prompt)
}
