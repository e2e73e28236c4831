package domain

import (
	"context"
	"time"
)

// IntentCount is one row of the intent breakdown report.
type IntentCount struct {
	Intent string `json:"intent"`
	Count  int64  `json:"count"`
}

// ChannelCount is one row of the channel breakdown report.
type ChannelCount struct {
	Channel Channel `json:"channel"`
	Count   int64   `json:"count"`
}

// UserActivity summarizes one user's recent ledger activity.
type UserActivity struct {
	Phone      string    `json:"phone"`
	LastActive time.Time `json:"last_active"`
	QueryCount int64     `json:"query_count"`
}

// InteractionRepository is the append-only interaction ledger. Append must
// be safe for concurrent use by independent in-flight pipelines; the
// reporting queries serve the analytics API only.
type InteractionRepository interface {
	Append(ctx context.Context, interaction *Interaction) error

	CountUserQueriesSince(ctx context.Context, since time.Time) (int64, error)
	CountUniqueUsersSince(ctx context.Context, since time.Time) (int64, error)
	IntentBreakdownSince(ctx context.Context, since time.Time, limit int) ([]IntentCount, error)
	ChannelBreakdownSince(ctx context.Context, since time.Time) ([]ChannelCount, error)
	RecentActivity(ctx context.Context, limit int) ([]UserActivity, error)
}

// UserLocationRepository stores the last-known location per phone number.
// Upsert must serialize writes per key; last write wins.
type UserLocationRepository interface {
	Upsert(ctx context.Context, location *UserLocation) error
	GetByPhone(ctx context.Context, phone string) (*UserLocation, error)
}
