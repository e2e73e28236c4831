package domain

// Wire shapes for the Meta-style webhook body: {entry: [{changes: [{value: {...}}]}]}.
// Unknown fields are ignored by encoding/json; the normalizer only looks at
// the keys it recognizes.

// WebhookPayload is the top-level webhook delivery.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry represents one business account entry.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange wraps a single change notification.
type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

// WebhookValue holds the event data. Exactly one of Messages,
// MessageDeliveries, MessageReads or TemplateStatusUpdates is expected to be
// populated; a value with none of them yields no events.
type WebhookValue struct {
	MessagingProduct      string                 `json:"messaging_product,omitempty"`
	Metadata              WebhookMetadata        `json:"metadata,omitempty"`
	Messages              []WebhookMessage       `json:"messages,omitempty"`
	MessageDeliveries     []MessageStatusBatch   `json:"message_deliveries,omitempty"`
	MessageReads          []MessageStatusBatch   `json:"message_reads,omitempty"`
	TemplateStatusUpdates []TemplateStatusUpdate `json:"message_template_status_updates,omitempty"`
}

// WebhookMetadata describes the receiving business number.
type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number,omitempty"`
	PhoneNumberID      string `json:"phone_number_id,omitempty"`
}

// WebhookMessage is one inbound message of any type; the Type field selects
// which of the optional sub-structs is meaningful.
type WebhookMessage struct {
	From        string               `json:"from"`
	ID          string               `json:"id"`
	Timestamp   int64                `json:"timestamp,string"`
	Type        string               `json:"type"`
	Text        *TextContent         `json:"text,omitempty"`
	Interactive *InteractiveContent  `json:"interactive,omitempty"`
	Button      *LegacyButtonContent `json:"button,omitempty"`
	Location    *LocationContent     `json:"location,omitempty"`
	Image       *MediaContent        `json:"image,omitempty"`
	Audio       *MediaContent        `json:"audio,omitempty"`
}

// TextContent holds a text message body.
type TextContent struct {
	Body string `json:"body"`
}

// InteractiveContent carries button_reply or list_reply selections.
type InteractiveContent struct {
	Type        string       `json:"type"`
	ButtonReply *ReplyOption `json:"button_reply,omitempty"`
	ListReply   *ReplyOption `json:"list_reply,omitempty"`
}

// ReplyOption is a selected button or list row.
type ReplyOption struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// LegacyButtonContent is the pre-interactive button shape.
type LegacyButtonContent struct {
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

// LocationContent is a shared location.
type LocationContent struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// MediaContent covers image and audio payload references.
type MediaContent struct {
	ID      string `json:"id"`
	Caption string `json:"caption,omitempty"`
}

// MessageStatusBatch is one delivery or read notification covering a batch
// of message ids.
type MessageStatusBatch struct {
	MessageIDs []string `json:"message_ids"`
	Timestamp  int64    `json:"timestamp,string"`
}

// TemplateStatusUpdate reports a template message status transition.
type TemplateStatusUpdate struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp,string"`
}
