package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/kuponlucky/raffle-api/internal/metrics"
	"github.com/kuponlucky/raffle-api/internal/model"
	"github.com/kuponlucky/raffle-api/internal/notify"
)

const (
	heartbeatInterval = 15 * time.Second
	snapshotTimeout   = 10 * time.Second
)

// CouponLister provides the coupon snapshot sent on every change signal.
type CouponLister interface {
	List(ctx context.Context) ([]model.Coupon, error)
}

// EventsHandler streams coupon change events to clients over SSE. Each
// change signal from the hub triggers a full snapshot re-fetch: the stream
// never carries diffs, and signals missed while disconnected are not
// replayed (the next snapshot covers them).
type EventsHandler struct {
	appCtx  context.Context
	hub     *notify.Hub
	coupons CouponLister
}

// NewEventsHandler creates an EventsHandler. appCtx bounds all streams; when
// it is cancelled at shutdown every open stream terminates.
func NewEventsHandler(appCtx context.Context, hub *notify.Hub, coupons CouponLister) *EventsHandler {
	return &EventsHandler{appCtx: appCtx, hub: hub, coupons: coupons}
}

// Stream handles GET /api/events requests.
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	sub := h.hub.Subscribe()
	metrics.EventSubscribers.Inc()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			sub.Unsubscribe()
			metrics.EventSubscribers.Dec()
		}()

		// Initial snapshot so the client renders without waiting for a change.
		if !h.writeSnapshot(w) {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-h.appCtx.Done():
				return
			case _, ok := <-sub.C:
				if !ok {
					return
				}
				if !h.writeSnapshot(w) {
					return
				}
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				if w.Flush() != nil {
					return // client gone
				}
			}
		}
	}))
	return nil
}

// writeSnapshot fetches and writes one full coupon snapshot event.
// Returns false when the client has disconnected.
func (h *EventsHandler) writeSnapshot(w *bufio.Writer) bool {
	ctx, cancel := context.WithTimeout(h.appCtx, snapshotTimeout)
	coupons, err := h.coupons.List(ctx)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch coupon snapshot for event stream")
		fmt.Fprint(w, "event: error\ndata: {\"error\":\"failed to load coupons\"}\n\n")
		return w.Flush() == nil
	}

	data, err := json.Marshal(coupons)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode coupon snapshot")
		return true
	}

	fmt.Fprintf(w, "event: coupons\ndata: %s\n\n", data)
	return w.Flush() == nil
}
