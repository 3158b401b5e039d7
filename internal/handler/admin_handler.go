package handler

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kuponlucky/raffle-api/internal/auth"
	"github.com/kuponlucky/raffle-api/internal/metrics"
	"github.com/kuponlucky/raffle-api/internal/model"
	"github.com/kuponlucky/raffle-api/internal/service"
)

// AdminCouponService is the subset of coupon operations behind the admin gate.
type AdminCouponService interface {
	Delete(ctx context.Context, id uuid.UUID) error
	Reset(ctx context.Context) error
}

// DrawServiceInterface defines the interface for the draw engine.
type DrawServiceInterface interface {
	RunDraw(ctx context.Context, onFrame service.SpinFrameFunc) (*model.Coupon, error)
}

// TokenIssuer issues admin session tokens.
type TokenIssuer interface {
	Generate() (string, time.Time, error)
}

// AdminHandler handles login and the gated draw, delete and reset endpoints.
type AdminHandler struct {
	authenticator auth.Authenticator
	tokens        TokenIssuer
	coupons       AdminCouponService
	draw          DrawServiceInterface
	validator     *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(a auth.Authenticator, tokens TokenIssuer, coupons AdminCouponService, draw DrawServiceInterface, v *validator.Validate) *AdminHandler {
	return &AdminHandler{
		authenticator: a,
		tokens:        tokens,
		coupons:       coupons,
		draw:          draw,
		validator:     v,
	}
}

// Login handles POST /api/admin/login requests.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: username and password are required"})
	}

	if err := h.authenticator.Verify(req.Username, req.Password); err != nil {
		log.Warn().Str("username", req.Username).Msg("failed admin login attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token, expiresAt, err := h.tokens.Generate()
	if err != nil {
		log.Error().Err(err).Msg("failed to issue session token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(model.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Draw handles POST /api/admin/draw requests. The response carries the spin
// frames and the committed winner once the draw completes.
func (h *AdminHandler) Draw(c *fiber.Ctx) error {
	start := time.Now()

	var frames []model.Coupon
	winner, err := h.draw.RunDraw(c.Context(), func(state service.DrawState, coupon model.Coupon) {
		if state == service.DrawSpinning {
			frames = append(frames, coupon)
		}
	})
	if err != nil {
		if errors.Is(err, service.ErrNoActiveCoupons) {
			metrics.DrawsTotal.WithLabelValues("empty").Inc()
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no active coupons to draw"})
		}
		metrics.DrawsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("draw failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "draw failed, please try again"})
	}

	metrics.DrawsTotal.WithLabelValues("committed").Inc()
	metrics.DrawDuration.Observe(time.Since(start).Seconds())
	log.Info().
		Int64("coupon_number", winner.CouponNumber).
		Str("winner_id", winner.ID.String()).
		Msg("draw committed")

	return c.JSON(model.DrawResponse{Winner: *winner, Frames: frames})
}

// DeleteCoupon handles DELETE /api/admin/coupons/:id requests.
func (h *AdminHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coupon id"})
	}

	if err := h.coupons.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		log.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to delete coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Reset handles POST /api/admin/reset requests, clearing the dataset and
// restarting coupon numbering at 1.
func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	if err := h.coupons.Reset(c.Context()); err != nil {
		log.Error().Err(err).Msg("failed to reset coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().Msg("coupon dataset reset")
	return c.SendStatus(fiber.StatusNoContent)
}
