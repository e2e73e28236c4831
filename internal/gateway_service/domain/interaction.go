package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced an interaction row.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderBot    Sender = "bot"
	SenderSystem Sender = "system"
)

// Channel is the delivery medium a message arrived on and must be replied
// through.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
)

// Interaction is one conversational turn (user, bot or system) persisted to
// the ledger. Rows are append-only; the gateway never updates or deletes them.
type Interaction struct {
	ID        uuid.UUID      `json:"id"`
	Phone     string         `json:"phone"`
	Message   string         `json:"message"`
	Sender    Sender         `json:"sender"`
	Channel   Channel        `json:"channel"`
	MessageID sql.NullString `json:"message_id,omitempty"` // Provider message id, when known
	Metadata  map[string]any `json:"metadata,omitempty"`   // e.g. intent, confidence, language
	Timestamp time.Time      `json:"timestamp"`
}

// NewInteraction creates a ledger row stamped with the current UTC time.
// messageID may be empty for turns the provider did not assign an id to.
func NewInteraction(phone, message string, sender Sender, channel Channel, messageID string, metadata map[string]any) *Interaction {
	var msgID sql.NullString
	if messageID != "" {
		msgID = sql.NullString{String: messageID, Valid: true}
	}
	return &Interaction{
		ID:        uuid.New(),
		Phone:     phone,
		Message:   message,
		Sender:    sender,
		Channel:   channel,
		MessageID: msgID,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
}
