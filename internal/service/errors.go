package service

import "errors"

var (
	// ErrDuplicateEmail is returned when registering with an email that already holds a coupon
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrCouponNotFound is returned when a coupon cannot be found
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoActiveCoupons is returned when a draw is attempted with no active coupons
	ErrNoActiveCoupons = errors.New("no active coupons to draw")

	// ErrInvalidCredentials is returned when admin login fails
	ErrInvalidCredentials = errors.New("invalid credentials")
)
