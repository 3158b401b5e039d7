package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// schema is the coupon table, its number sequence, and the change
// notification trigger. Every statement is idempotent so Migrate can run
// on every startup.
var schema = []string{
	`CREATE SEQUENCE IF NOT EXISTS coupon_number_seq START WITH 1`,
	`CREATE TABLE IF NOT EXISTS coupons (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		coupon_number BIGINT NOT NULL DEFAULT nextval('coupon_number_seq') UNIQUE,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		phone         TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'drawn')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		drawn_at      TIMESTAMPTZ,
		CHECK ((status = 'drawn') = (drawn_at IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_coupons_status ON coupons (status)`,
	`CREATE INDEX IF NOT EXISTS idx_coupons_created_at ON coupons (created_at DESC)`,
	`CREATE OR REPLACE FUNCTION notify_coupon_event() RETURNS trigger AS $$
	BEGIN
		PERFORM pg_notify('coupon_events', '');
		RETURN NULL;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS coupons_notify ON coupons`,
	`CREATE TRIGGER coupons_notify
		AFTER INSERT OR UPDATE OR DELETE ON coupons
		FOR EACH STATEMENT EXECUTE FUNCTION notify_coupon_event()`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	log.Info().Msg("database schema up to date")
	return nil
}
