package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// PgUserLocationRepository stores the last-known user location keyed by
// phone. Upsert relies on ON CONFLICT for per-key last-write-wins
// semantics; Postgres row locking serializes concurrent writers.
type PgUserLocationRepository struct {
	db     PGXQuerier
	logger *slog.Logger
}

func NewPgUserLocationRepository(db PGXQuerier, logger *slog.Logger) *PgUserLocationRepository {
	return &PgUserLocationRepository{
		db:     db,
		logger: logger.With("component", "user_location_repository_pg"),
	}
}

func (r *PgUserLocationRepository) Upsert(ctx context.Context, location *domain.UserLocation) error {
	query := `
		INSERT INTO user_locations (phone, latitude, longitude, address, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			address = EXCLUDED.address,
			last_updated = EXCLUDED.last_updated
	`
	_, err := r.db.Exec(ctx, query,
		location.Phone,
		location.Latitude,
		location.Longitude,
		location.Address,
		location.LastUpdated,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error upserting user location", "error", err, "phone", location.Phone)
		return fmt.Errorf("failed to upsert user location: %w", err)
	}

	r.logger.DebugContext(ctx, "User location upserted", "phone", location.Phone)
	return nil
}

func (r *PgUserLocationRepository) GetByPhone(ctx context.Context, phone string) (*domain.UserLocation, error) {
	query := `
		SELECT phone, latitude, longitude, address, last_updated
		FROM user_locations
		WHERE phone = $1
	`
	var loc domain.UserLocation
	err := r.db.QueryRow(ctx, query, phone).Scan(
		&loc.Phone,
		&loc.Latitude,
		&loc.Longitude,
		&loc.Address,
		&loc.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error getting user location", "error", err, "phone", phone)
		return nil, fmt.Errorf("failed to get user location: %w", err)
	}
	return &loc, nil
}
