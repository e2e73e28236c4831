package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// PgInteractionRepository is the PostgreSQL interaction ledger. Rows are
// append-only; Postgres serializes concurrent inserts, so no additional
// locking is needed per phone.
type PgInteractionRepository struct {
	db     PGXQuerier
	logger *slog.Logger
}

func NewPgInteractionRepository(db PGXQuerier, logger *slog.Logger) *PgInteractionRepository {
	return &PgInteractionRepository{
		db:     db,
		logger: logger.With("component", "interaction_repository_pg"),
	}
}

func (r *PgInteractionRepository) Append(ctx context.Context, interaction *domain.Interaction) error {
	query := `
		INSERT INTO interactions (id, phone, message, sender, channel, message_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var metadata []byte
	if interaction.Metadata != nil {
		var err error
		metadata, err = json.Marshal(interaction.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal interaction metadata: %w", err)
		}
	}

	_, err := r.db.Exec(ctx, query,
		interaction.ID,
		interaction.Phone,
		interaction.Message,
		string(interaction.Sender),
		string(interaction.Channel),
		interaction.MessageID,
		metadata,
		interaction.Timestamp,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error inserting interaction",
			"error", err, "interaction_id", interaction.ID, "phone", interaction.Phone)
		return fmt.Errorf("failed to insert interaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Interaction appended",
		"interaction_id", interaction.ID, "sender", interaction.Sender)
	return nil
}

func (r *PgInteractionRepository) CountUserQueriesSince(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM interactions WHERE sender = 'user' AND created_at >= $1`
	var count int64
	if err := r.db.QueryRow(ctx, query, since).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "Error counting user queries", "error", err)
		return 0, fmt.Errorf("failed to count user queries: %w", err)
	}
	return count, nil
}

func (r *PgInteractionRepository) CountUniqueUsersSince(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(DISTINCT phone) FROM interactions WHERE created_at >= $1`
	var count int64
	if err := r.db.QueryRow(ctx, query, since).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "Error counting unique users", "error", err)
		return 0, fmt.Errorf("failed to count unique users: %w", err)
	}
	return count, nil
}

func (r *PgInteractionRepository) IntentBreakdownSince(ctx context.Context, since time.Time, limit int) ([]domain.IntentCount, error) {
	query := `
		SELECT metadata->>'intent' AS intent, COUNT(*) AS count
		FROM interactions
		WHERE sender = 'bot' AND metadata->>'intent' IS NOT NULL AND created_at >= $1
		GROUP BY 1
		ORDER BY 2 DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error querying intent breakdown", "error", err)
		return nil, fmt.Errorf("failed to query intent breakdown: %w", err)
	}
	defer rows.Close()

	var result []domain.IntentCount
	for rows.Next() {
		var ic domain.IntentCount
		if err := rows.Scan(&ic.Intent, &ic.Count); err != nil {
			return nil, fmt.Errorf("failed to scan intent breakdown row: %w", err)
		}
		result = append(result, ic)
	}
	return result, rows.Err()
}

func (r *PgInteractionRepository) ChannelBreakdownSince(ctx context.Context, since time.Time) ([]domain.ChannelCount, error) {
	query := `
		SELECT channel, COUNT(*) AS count
		FROM interactions
		WHERE created_at >= $1
		GROUP BY channel
		ORDER BY count DESC
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error querying channel breakdown", "error", err)
		return nil, fmt.Errorf("failed to query channel breakdown: %w", err)
	}
	defer rows.Close()

	var result []domain.ChannelCount
	for rows.Next() {
		var cc domain.ChannelCount
		var channel string
		if err := rows.Scan(&channel, &cc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan channel breakdown row: %w", err)
		}
		cc.Channel = domain.Channel(channel)
		result = append(result, cc)
	}
	return result, rows.Err()
}

func (r *PgInteractionRepository) RecentActivity(ctx context.Context, limit int) ([]domain.UserActivity, error) {
	query := `
		SELECT phone, MAX(created_at) AS last_active,
		       COUNT(*) FILTER (WHERE sender = 'user') AS query_count
		FROM interactions
		GROUP BY phone
		ORDER BY last_active DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error querying recent activity", "error", err)
		return nil, fmt.Errorf("failed to query recent activity: %w", err)
	}
	defer rows.Close()

	var result []domain.UserActivity
	for rows.Next() {
		var ua domain.UserActivity
		if err := rows.Scan(&ua.Phone, &ua.LastActive, &ua.QueryCount); err != nil {
			return nil, fmt.Errorf("failed to scan recent activity row: %w", err)
		}
		result = append(result, ua)
	}
	return result, rows.Err()
}
