package app

import (
	"log/slog"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// Normalizer converts raw webhook payloads into the internal InboundEvent
// variants. Normalize performs no I/O and is deterministic: the same
// payload always yields the same events in input order.
type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	return &Normalizer{logger: logger.With("component", "normalizer")}
}

// Normalize walks entry[].changes[].value and emits one event per
// recognized message or status update. Messages whose sender fails phone
// validation are dropped with an audit log and no event.
func (n *Normalizer) Normalize(payload *domain.WebhookPayload) []domain.InboundEvent {
	var events []domain.InboundEvent
	if payload == nil {
		return events
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			switch {
			case len(value.Messages) > 0:
				for _, msg := range value.Messages {
					if ev := n.normalizeMessage(msg); ev != nil {
						events = append(events, ev)
					}
				}
			case len(value.MessageDeliveries) > 0:
				for _, d := range value.MessageDeliveries {
					events = append(events, domain.DeliveryStatus{MessageIDs: d.MessageIDs, Timestamp: d.Timestamp})
				}
			case len(value.MessageReads) > 0:
				for _, rd := range value.MessageReads {
					events = append(events, domain.ReadStatus{MessageIDs: rd.MessageIDs, Timestamp: rd.Timestamp})
				}
			case len(value.TemplateStatusUpdates) > 0:
				for _, u := range value.TemplateStatusUpdates {
					events = append(events, domain.TemplateStatus{MessageID: u.ID, Status: u.Status, Timestamp: u.Timestamp})
				}
			default:
				n.logger.Info("Webhook change carried no recognized event keys", "field", change.Field)
			}
		}
	}
	return events
}

func (n *Normalizer) normalizeMessage(msg domain.WebhookMessage) domain.InboundEvent {
	if !domain.ValidatePhoneNumber(msg.From) {
		n.logger.Warn("Dropping message with invalid sender phone number",
			"from", msg.From, "message_id", msg.ID, "type", msg.Type)
		return nil
	}

	switch msg.Type {
	case "text":
		body := ""
		if msg.Text != nil {
			body = msg.Text.Body
		}
		return domain.TextMessage{From: msg.From, MessageID: msg.ID, Timestamp: msg.Timestamp, Body: body}

	case "interactive":
		return n.normalizeInteractive(msg)

	case "button":
		var payload, text string
		if msg.Button != nil {
			payload = msg.Button.Payload
			text = msg.Button.Text
		}
		return domain.LegacyButton{From: msg.From, MessageID: msg.ID, Timestamp: msg.Timestamp, Payload: payload, Text: text}

	case "location":
		if msg.Location == nil {
			return domain.Unsupported{From: msg.From, RawType: msg.Type}
		}
		return domain.Location{
			From:      msg.From,
			MessageID: msg.ID,
			Timestamp: msg.Timestamp,
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
			Address:   msg.Location.Address,
		}

	case "image":
		caption := ""
		if msg.Image != nil {
			caption = msg.Image.Caption
		}
		return domain.Image{From: msg.From, MessageID: msg.ID, Timestamp: msg.Timestamp, Caption: caption}

	case "audio":
		return domain.Audio{From: msg.From, MessageID: msg.ID, Timestamp: msg.Timestamp}

	default:
		n.logger.Info("Unsupported message type", "type", msg.Type, "from", msg.From)
		return domain.Unsupported{From: msg.From, RawType: msg.Type}
	}
}

func (n *Normalizer) normalizeInteractive(msg domain.WebhookMessage) domain.InboundEvent {
	if msg.Interactive == nil {
		return domain.Unsupported{From: msg.From, RawType: "interactive"}
	}

	switch msg.Interactive.Type {
	case "button_reply":
		if msg.Interactive.ButtonReply == nil {
			return domain.Unsupported{From: msg.From, RawType: "interactive/button_reply"}
		}
		return domain.ButtonReply{
			From:      msg.From,
			MessageID: msg.ID,
			Timestamp: msg.Timestamp,
			ButtonID:  msg.Interactive.ButtonReply.ID,
			Title:     msg.Interactive.ButtonReply.Title,
		}
	case "list_reply":
		if msg.Interactive.ListReply == nil {
			return domain.Unsupported{From: msg.From, RawType: "interactive/list_reply"}
		}
		return domain.ListReply{
			From:        msg.From,
			MessageID:   msg.ID,
			Timestamp:   msg.Timestamp,
			ListID:      msg.Interactive.ListReply.ID,
			Title:       msg.Interactive.ListReply.Title,
			Description: msg.Interactive.ListReply.Description,
		}
	default:
		n.logger.Info("Unsupported interactive type", "interactive_type", msg.Interactive.Type, "from", msg.From)
		return domain.Unsupported{From: msg.From, RawType: "interactive/" + msg.Interactive.Type}
	}
}
