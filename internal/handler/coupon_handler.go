package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/kuponlucky/raffle-api/internal/metrics"
	"github.com/kuponlucky/raffle-api/internal/model"
	"github.com/kuponlucky/raffle-api/internal/service"
)

// CouponServiceInterface defines the interface for coupon business logic.
type CouponServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterCouponRequest) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Stats(ctx context.Context) (*model.StatsResponse, error)
}

// CouponHandler handles the public registration and read endpoints.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

// formatValidationError converts validator errors to field-level messages.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "Name":
				if tag == "required" || tag == "notblank" {
					return "invalid request: name is required"
				}
				if tag == "max" {
					return "invalid request: name exceeds maximum length of 255"
				}
				return "invalid request: name is invalid"
			case "Email":
				if tag == "required" || tag == "notblank" {
					return "invalid request: email is required"
				}
				if tag == "email" {
					return "invalid request: email format is invalid"
				}
				return "invalid request: email is invalid"
			case "Phone":
				if tag == "required" {
					return "invalid request: phone is required"
				}
				if tag == "phone" {
					return "invalid request: phone must be at least 10 digits, spaces, parentheses, plus or hyphens"
				}
				return "invalid request: phone is invalid"
			default:
				// Defensive: handle unknown fields with descriptive message
				if tag == "required" {
					return "invalid request: " + field + " is required"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// RegisterCoupon handles POST /api/coupons requests to register a raffle entry.
func (h *CouponHandler) RegisterCoupon(c *fiber.Ctx) error {
	var req model.RegisterCouponRequest

	// Parse JSON body
	if err := c.BodyParser(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Validate request before any store call
	if err := h.validator.Struct(req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.Register(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("email", req.Email).Msg("failed to register coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	log.Info().
		Int64("coupon_number", coupon.CouponNumber).
		Str("email", coupon.Email).
		Msg("coupon registered")

	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// ListCoupons handles GET /api/coupons requests, newest first.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(coupons)
}

// GetStats handles GET /api/stats requests.
func (h *CouponHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(stats)
}
