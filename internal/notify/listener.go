package notify

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// channelName is the PostgreSQL NOTIFY channel the coupons trigger fires on.
const channelName = "coupon_events"

// Listener holds a dedicated database connection on LISTEN and broadcasts
// every notification through a Hub. Connection loss triggers a reconnect
// with backoff; notifications raised while disconnected are lost.
type Listener struct {
	pool *pgxpool.Pool
	hub  *Hub
}

// NewListener creates a Listener broadcasting into hub.
func NewListener(pool *pgxpool.Pool, hub *Hub) *Listener {
	return &Listener{pool: pool, hub: hub}
}

// stableConnection is how long a LISTEN connection must hold before a later
// failure counts as a fresh outage rather than a continuation of the last one.
const (
	stableConnection = time.Minute
	maxBackoff       = 30 * time.Second
)

// Run blocks until ctx is cancelled, maintaining the LISTEN connection and
// broadcasting each notification. Intended to run in its own goroutine.
func (l *Listener) Run(ctx context.Context) {
	var backoff time.Duration
	for {
		start := time.Now()
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		backoff = nextBackoff(backoff, time.Since(start))
		log.Warn().Err(err).Dur("retry_in", backoff).Msg("notification listener disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

// nextBackoff returns the delay before the next reconnect attempt: 1s after
// the first failure or after a connection that held for stableConnection,
// otherwise double the previous delay capped at maxBackoff.
func nextBackoff(previous, connectedFor time.Duration) time.Duration {
	if previous == 0 || connectedFor >= stableConnection {
		return time.Second
	}
	next := previous * 2
	if next > maxBackoff {
		next = maxBackoff
	}
	return next
}

func (l *Listener) listen(ctx context.Context) error {
	poolConn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	// Hijack the connection: a LISTEN subscription must never go back into
	// the pool, where it would leak into ordinary checkouts.
	conn := poolConn.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return err
	}
	log.Info().Str("channel", channelName).Msg("listening for coupon changes")

	for {
		if _, err := conn.WaitForNotification(ctx); err != nil {
			return err
		}
		l.hub.Broadcast()
	}
}
