package domain

import "time"

// UserLocation is the last-known location of a user, keyed by phone number.
// At most one row exists per phone; writes are last-write-wins upserts.
type UserLocation struct {
	Phone       string    `json:"phone"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     string    `json:"address"`
	LastUpdated time.Time `json:"last_updated"`
}
