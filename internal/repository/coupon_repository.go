package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kuponlucky/raffle-api/internal/model"
	"github.com/kuponlucky/raffle-api/internal/service"
)

const couponColumns = `id, coupon_number, name, email, phone, status, created_at, drawn_at`

// PoolInterface defines the database operations needed by the repository.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Insert registers a new coupon. The database assigns id, coupon_number,
// status and created_at. Returns service.ErrDuplicateEmail when the email
// unique constraint rejects the row.
func (r *CouponRepository) Insert(ctx context.Context, name, email, phone string) (*model.Coupon, error) {
	query := `INSERT INTO coupons (name, email, phone) VALUES ($1, $2, $3)
		RETURNING ` + couponColumns

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, name, email, phone))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, service.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert coupon: %w", err)
	}
	return coupon, nil
}

// List retrieves all coupons ordered by creation time, newest first.
func (r *CouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.CouponNumber, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.DrawnAt); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// ListActive retrieves all active coupons ordered by coupon number.
func (r *CouponRepository) ListActive(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE status = 'active' ORDER BY coupon_number`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.CouponNumber, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.DrawnAt); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// MarkDrawn transitions an active coupon to drawn, stamping drawn_at in the
// same statement so the drawn_at invariant holds atomically. The status
// guard in the WHERE clause means an already-drawn coupon can never be
// re-drawn, even when two admins race.
// Returns service.ErrCouponNotFound when no active coupon matches the id.
func (r *CouponRepository) MarkDrawn(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `UPDATE coupons SET status = 'drawn', drawn_at = now()
		WHERE id = $1 AND status = 'active'
		RETURNING ` + couponColumns

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		return nil, fmt.Errorf("mark coupon %s drawn: %w", id, err)
	}
	return coupon, nil
}

// Delete permanently removes a single coupon.
// Returns service.ErrCouponNotFound when the id does not exist.
func (r *CouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// Reset deletes every coupon and restarts the coupon number sequence at 1.
// Both steps run in one transaction: either the dataset is cleared and the
// numbering restarts, or neither happens.
func (r *CouponRepository) Reset(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	if _, err := tx.Exec(ctx, `DELETE FROM coupons`); err != nil {
		return fmt.Errorf("delete all coupons: %w", err)
	}
	if _, err := tx.Exec(ctx, `ALTER SEQUENCE coupon_number_seq RESTART WITH 1`); err != nil {
		return fmt.Errorf("restart coupon number sequence: %w", err)
	}

	return tx.Commit(ctx)
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(&c.ID, &c.CouponNumber, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.DrawnAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
