package bookingsvc

import (
	"context"
	"time"
)

// PaymentWindow is how long a pending booking holds its slot before the
// expiry sweep cancels it.
const PaymentWindow = time.Hour

type Cleaner interface {
	ReleaseExpired(ctx context.Context) (int64, error)
}

type cleaner struct {
	r Repo
}

func NewCleaner(r Repo) Cleaner { return &cleaner{r: r} }

func (c *cleaner) ReleaseExpired(ctx context.Context) (int64, error) {
	return c.r.ReleaseExpired(ctx, time.Now().UTC().Add(-PaymentWindow))
}
