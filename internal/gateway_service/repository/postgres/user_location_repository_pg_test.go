package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

func setupLocationTest(t *testing.T) (*PgUserLocationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewPgUserLocationRepository(mockPool, logger)
	return repo, mockPool
}

func TestPgUserLocationRepository_Upsert(t *testing.T) {
	repo, mockPool := setupLocationTest(t)
	defer mockPool.Close()

	location := &domain.UserLocation{
		Phone:       "+919876543210",
		Latitude:    20.27,
		Longitude:   85.84,
		Address:     "Bhubaneswar",
		LastUpdated: time.Now().UTC(),
	}

	t.Run("Insert", func(t *testing.T) {
		mockPool.ExpectExec(`INSERT INTO user_locations .* ON CONFLICT \(phone\) DO UPDATE`).
			WithArgs(location.Phone, location.Latitude, location.Longitude, location.Address, location.LastUpdated).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Upsert(context.Background(), location)
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("UpdateOnConflict", func(t *testing.T) {
		moved := &domain.UserLocation{
			Phone:       location.Phone,
			Latitude:    28.61,
			Longitude:   77.20,
			Address:     "New Delhi",
			LastUpdated: time.Now().UTC(),
		}

		mockPool.ExpectExec(`INSERT INTO user_locations .* ON CONFLICT \(phone\) DO UPDATE`).
			WithArgs(moved.Phone, moved.Latitude, moved.Longitude, moved.Address, moved.LastUpdated).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Upsert(context.Background(), moved)
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		mockPool.ExpectExec(`INSERT INTO user_locations`).
			WithArgs(location.Phone, location.Latitude, location.Longitude, location.Address, location.LastUpdated).
			WillReturnError(errors.New("connection refused"))

		err := repo.Upsert(context.Background(), location)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upsert user location")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgUserLocationRepository_GetByPhone(t *testing.T) {
	repo, mockPool := setupLocationTest(t)
	defer mockPool.Close()

	phone := "+919876543210"
	lastUpdated := time.Now().UTC()

	t.Run("Found", func(t *testing.T) {
		rows := mockPool.NewRows([]string{"phone", "latitude", "longitude", "address", "last_updated"}).
			AddRow(phone, 20.27, 85.84, "Bhubaneswar", lastUpdated)

		mockPool.ExpectQuery(`SELECT phone, latitude, longitude, address, last_updated`).
			WithArgs(phone).
			WillReturnRows(rows)

		loc, err := repo.GetByPhone(context.Background(), phone)
		require.NoError(t, err)
		require.NotNil(t, loc)
		assert.Equal(t, phone, loc.Phone)
		assert.Equal(t, 20.27, loc.Latitude)
		assert.Equal(t, "Bhubaneswar", loc.Address)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT phone, latitude, longitude, address, last_updated`).
			WithArgs(phone).
			WillReturnError(pgx.ErrNoRows)

		loc, err := repo.GetByPhone(context.Background(), phone)
		require.NoError(t, err)
		assert.Nil(t, loc)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT phone, latitude, longitude, address, last_updated`).
			WithArgs(phone).
			WillReturnError(errors.New("database error"))

		loc, err := repo.GetByPhone(context.Background(), phone)
		require.Error(t, err)
		assert.Nil(t, loc)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
