package domain

// EventKind identifies the concrete variant of an InboundEvent.
type EventKind string

const (
	KindTextMessage    EventKind = "text_message"
	KindButtonReply    EventKind = "button_reply"
	KindListReply      EventKind = "list_reply"
	KindLegacyButton   EventKind = "legacy_button"
	KindLocation       EventKind = "location"
	KindImage          EventKind = "image"
	KindAudio          EventKind = "audio"
	KindDeliveryStatus EventKind = "delivery_status"
	KindReadStatus     EventKind = "read_status"
	KindTemplateStatus EventKind = "template_status"
	KindUnsupported    EventKind = "unsupported"
)

// InboundEvent is the normalized form of a single webhook message or status
// update. Exactly one concrete variant below implements it; the orchestrator
// switches exhaustively over those types.
type InboundEvent interface {
	Kind() EventKind
}

// SenderEvent is implemented by variants that carry a sender phone number.
// Normalization guarantees the number has passed validation before the
// event is emitted.
type SenderEvent interface {
	InboundEvent
	Sender() string
}

// TextMessage is a free-text user message, the only variant that runs the
// full language/NLP pipeline.
type TextMessage struct {
	From      string
	MessageID string
	Timestamp int64
	Body      string
}

func (TextMessage) Kind() EventKind { return KindTextMessage }
func (e TextMessage) Sender() string { return e.From }

// ButtonReply is an interactive button selection.
type ButtonReply struct {
	From      string
	MessageID string
	Timestamp int64
	ButtonID  string
	Title     string
}

func (ButtonReply) Kind() EventKind { return KindButtonReply }
func (e ButtonReply) Sender() string { return e.From }

// ListReply is an interactive list selection.
type ListReply struct {
	From        string
	MessageID   string
	Timestamp   int64
	ListID      string
	Title       string
	Description string
}

func (ListReply) Kind() EventKind { return KindListReply }
func (e ListReply) Sender() string { return e.From }

// LegacyButton is the pre-interactive button message shape some clients
// still send; Payload plays the role of the button id.
type LegacyButton struct {
	From      string
	MessageID string
	Timestamp int64
	Payload   string
	Text      string
}

func (LegacyButton) Kind() EventKind { return KindLegacyButton }
func (e LegacyButton) Sender() string { return e.From }

// Location is a shared user location.
type Location struct {
	From      string
	MessageID string
	Timestamp int64
	Latitude  float64
	Longitude float64
	Address   string
}

func (Location) Kind() EventKind { return KindLocation }
func (e Location) Sender() string { return e.From }

// Image is an inbound image; only the caption is retained.
type Image struct {
	From      string
	MessageID string
	Timestamp int64
	Caption   string
}

func (Image) Kind() EventKind { return KindImage }
func (e Image) Sender() string { return e.From }

// Audio is an inbound voice note. Speech-to-text is not performed.
type Audio struct {
	From      string
	MessageID string
	Timestamp int64
}

func (Audio) Kind() EventKind { return KindAudio }
func (e Audio) Sender() string { return e.From }

// DeliveryStatus reports provider delivery of previously sent messages.
type DeliveryStatus struct {
	MessageIDs []string
	Timestamp  int64
}

func (DeliveryStatus) Kind() EventKind { return KindDeliveryStatus }

// ReadStatus reports that previously sent messages were read.
type ReadStatus struct {
	MessageIDs []string
	Timestamp  int64
}

func (ReadStatus) Kind() EventKind { return KindReadStatus }

// TemplateStatus reports a template message status transition.
type TemplateStatus struct {
	MessageID string
	Status    string
	Timestamp int64
}

func (TemplateStatus) Kind() EventKind { return KindTemplateStatus }

// Unsupported is emitted for message types the gateway has no handling for;
// the sender still receives a capability-limited reply.
type Unsupported struct {
	From    string
	RawType string
}

func (Unsupported) Kind() EventKind { return KindUnsupported }
func (e Unsupported) Sender() string { return e.From }
