package bootstrap

import (
	"github.com/atgs/landing/internal/domain/contact"
	"github.com/atgs/landing/internal/domain/theme"
	"github.com/atgs/landing/pantry/assets"
	"github.com/atgs/landing/pantry/ratelimit"
)

// Deps is what Prepare builds once and every request shares. None of it is
// mutated after startup except the limiter's buckets.
type Deps struct {
	Theme   theme.Theme
	Encoder contact.Encoder
	Assets  *assets.Fingerprints

	// Limiter is nil when rate limiting is off.
	Limiter *ratelimit.KeyLimiter
}
