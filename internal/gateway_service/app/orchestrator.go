package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/channel"
	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/nlpengine"
	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/translator"
	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/tts"
	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// Orchestrator owns the lifecycle of a single inbound event from receipt to
// ledger write. Failures after normalization degrade to a fixed apology
// reply and an intent=error ledger row; they never propagate to the webhook
// response, which was acknowledged before processing started.
type Orchestrator struct {
	translator   translator.Translator
	classifier   nlpengine.Classifier
	synthesizer  tts.Synthesizer
	channels     map[domain.Channel]channel.Adapter
	interactions domain.InteractionRepository
	locations    domain.UserLocationRepository
	logger       *slog.Logger

	workingLang  string
	voiceEnabled bool
	maxQueryLen  int
	callTimeout  time.Duration
}

// OrchestratorConfig carries the tunables the orchestrator needs.
type OrchestratorConfig struct {
	WorkingLanguage string
	VoiceEnabled    bool
	MaxQueryLength  int
	CallTimeout     time.Duration
}

func NewOrchestrator(
	tr translator.Translator,
	cl nlpengine.Classifier,
	sy tts.Synthesizer,
	channels map[domain.Channel]channel.Adapter,
	interactions domain.InteractionRepository,
	locations domain.UserLocationRepository,
	cfg OrchestratorConfig,
	logger *slog.Logger,
) *Orchestrator {
	if cfg.WorkingLanguage == "" {
		cfg.WorkingLanguage = "en"
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	return &Orchestrator{
		translator:   tr,
		classifier:   cl,
		synthesizer:  sy,
		channels:     channels,
		interactions: interactions,
		locations:    locations,
		logger:       logger.With("component", "orchestrator"),
		workingLang:  cfg.WorkingLanguage,
		voiceEnabled: cfg.VoiceEnabled,
		maxQueryLen:  cfg.MaxQueryLength,
		callTimeout:  cfg.CallTimeout,
	}
}

// ProcessEvent runs the per-event pipeline. It never returns an error to
// the caller beyond reporting; containment happens inside.
func (o *Orchestrator) ProcessEvent(ctx context.Context, event domain.InboundEvent, ch domain.Channel) {
	kind := string(event.Kind())
	start := time.Now()
	defer func() {
		eventProcessingDurationHist.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	err := o.processEvent(ctx, event, ch)
	if err == nil {
		eventsProcessedCounter.WithLabelValues(kind, "success").Inc()
		return
	}
	eventsProcessedCounter.WithLabelValues(kind, "error").Inc()
	o.logger.ErrorContext(ctx, "Event processing failed, degrading to apology reply",
		"kind", kind, "error", err)

	if sender, ok := event.(domain.SenderEvent); ok {
		o.sendApology(ctx, sender.Sender(), ch)
	}
}

func (o *Orchestrator) processEvent(ctx context.Context, event domain.InboundEvent, ch domain.Channel) error {
	switch ev := event.(type) {
	case domain.DeliveryStatus:
		o.logger.InfoContext(ctx, "Messages delivered", "message_ids", ev.MessageIDs, "timestamp", ev.Timestamp)
		return nil
	case domain.ReadStatus:
		o.logger.InfoContext(ctx, "Messages read", "message_ids", ev.MessageIDs, "timestamp", ev.Timestamp)
		return nil
	case domain.TemplateStatus:
		o.logger.InfoContext(ctx, "Template message status update",
			"message_id", ev.MessageID, "status", ev.Status, "timestamp", ev.Timestamp)
		return nil

	case domain.Location:
		return o.handleLocation(ctx, ev, ch)

	case domain.Image:
		o.logInteraction(ctx, domain.NewInteraction(ev.From, "IMAGE: "+ev.Caption, domain.SenderUser, ch, ev.MessageID, nil))
		return o.reply(ctx, ev.From, ch, replyImage)

	case domain.Audio:
		o.logInteraction(ctx, domain.NewInteraction(ev.From, "AUDIO_MESSAGE", domain.SenderUser, ch, ev.MessageID, nil))
		text := replyAudio
		if o.voiceEnabled {
			text = replyAudioVoiceOn
		}
		return o.reply(ctx, ev.From, ch, text)

	case domain.Unsupported:
		o.logInteraction(ctx, domain.NewInteraction(ev.From, "UNSUPPORTED: "+ev.RawType, domain.SenderUser, ch, "", nil))
		return o.reply(ctx, ev.From, ch, replyUnsupported)

	case domain.ButtonReply:
		o.logInteraction(ctx, domain.NewInteraction(ev.From,
			fmt.Sprintf("BUTTON: %s - %s", ev.ButtonID, ev.Title), domain.SenderUser, ch, ev.MessageID, nil))
		return o.dispatchButton(ctx, ev.From, ch, ev.ButtonID)

	case domain.LegacyButton:
		o.logInteraction(ctx, domain.NewInteraction(ev.From,
			"BUTTON_LEGACY: "+ev.Text, domain.SenderUser, ch, ev.MessageID, nil))
		return o.dispatchButton(ctx, ev.From, ch, ev.Payload)

	case domain.ListReply:
		o.logInteraction(ctx, domain.NewInteraction(ev.From,
			fmt.Sprintf("LIST: %s - %s", ev.ListID, ev.Title), domain.SenderUser, ch, ev.MessageID, nil))
		return o.dispatchList(ctx, ev.From, ch, ev.ListID)

	case domain.TextMessage:
		return o.handleTextMessage(ctx, ev, ch)

	default:
		return fmt.Errorf("no handler for event kind %q", event.Kind())
	}
}

func (o *Orchestrator) handleLocation(ctx context.Context, ev domain.Location, ch domain.Channel) error {
	location := &domain.UserLocation{
		Phone:       ev.From,
		Latitude:    ev.Latitude,
		Longitude:   ev.Longitude,
		Address:     ev.Address,
		LastUpdated: time.Now().UTC(),
	}
	if err := o.locations.Upsert(ctx, location); err != nil {
		// Persistence failure must not block the acknowledgment reply.
		o.logger.ErrorContext(ctx, "Failed to upsert user location", "phone", ev.From, "error", err)
	}

	o.logInteraction(ctx, domain.NewInteraction(ev.From,
		fmt.Sprintf("LOCATION: %v,%v", ev.Latitude, ev.Longitude), domain.SenderUser, ch, ev.MessageID, nil))

	return o.reply(ctx, ev.From, ch, replyLocationAck)
}

// handleTextMessage runs the full language pipeline: detect, translate to
// the working language, classify, translate back, optionally synthesize
// voice, deliver, log, then dispatch any special-intent follow-up.
func (o *Orchestrator) handleTextMessage(ctx context.Context, ev domain.TextMessage, ch domain.Channel) error {
	body := domain.SanitizeText(ev.Body, o.maxQueryLen)
	if body == "" {
		o.logger.InfoContext(ctx, "Empty text message received", "from", ev.From)
		return o.reply(ctx, ev.From, ch, replyEmptyMessage)
	}

	o.logInteraction(ctx, domain.NewInteraction(ev.From, body, domain.SenderUser, ch, ev.MessageID, nil))

	detected, err := o.detectLanguage(ctx, body)
	if err != nil {
		return fmt.Errorf("language detection failed: %w", err)
	}

	workingText := body
	if detected != o.workingLang {
		workingText, err = o.translateToWorking(ctx, body)
		if err != nil {
			return fmt.Errorf("translation to working language failed: %w", err)
		}
	}

	result, err := o.classify(ctx, workingText)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}
	o.logger.InfoContext(ctx, "Message classified",
		"from", ev.From, "intent", result.Intent, "confidence", result.Confidence, "language", detected)

	finalResponse := result.Response
	if detected != o.workingLang {
		finalResponse, err = o.translateFromWorking(ctx, result.Response, detected)
		if err != nil {
			return fmt.Errorf("translation back to %s failed: %w", detected, err)
		}
	}

	voiceRef := ""
	if o.voiceEnabled && result.NeedsVoice {
		voiceRef, err = o.synthesize(ctx, finalResponse, detected)
		if err != nil {
			// Voice generation is best-effort; continue text-only.
			o.logger.ErrorContext(ctx, "Voice synthesis failed, continuing text-only", "error", err)
			voiceRef = ""
		}
	}

	if err := o.deliver(ctx, ev.From, ch, finalResponse, voiceRef); err != nil {
		return err
	}

	o.logInteraction(ctx, domain.NewInteraction(ev.From, finalResponse, domain.SenderBot, ch, "", map[string]any{
		"intent":     result.Intent,
		"confidence": result.Confidence,
		"language":   detected,
	}))

	return o.dispatchSpecialIntent(ctx, ev.From, ch, result)
}

// reply sends a canned bot message and logs the bot turn.
func (o *Orchestrator) reply(ctx context.Context, recipient string, ch domain.Channel, text string) error {
	if err := o.deliver(ctx, recipient, ch, text, ""); err != nil {
		return err
	}
	o.logInteraction(ctx, domain.NewInteraction(recipient, text, domain.SenderBot, ch, "", nil))
	return nil
}

func (o *Orchestrator) deliver(ctx context.Context, recipient string, ch domain.Channel, text, voiceRef string) error {
	adapter, ok := o.channels[ch]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrChannelNotConfigured, ch)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	result, err := adapter.Send(callCtx, recipient, text, voiceRef)
	if err != nil {
		deliveriesCounter.WithLabelValues(string(ch), "failed").Inc()
		return fmt.Errorf("delivery on %s failed: %w", ch, err)
	}

	deliveriesCounter.WithLabelValues(string(ch), "accepted").Inc()
	o.logger.DebugContext(ctx, "Reply delivered",
		"channel", ch, "recipient", recipient, "message_id", result.MessageID, "accepted", result.Accepted)
	return nil
}

// sendApology is the terminal error path: a fixed apology is delivered and
// a bot turn tagged intent=error is logged. Its own failures are only logged.
func (o *Orchestrator) sendApology(ctx context.Context, recipient string, ch domain.Channel) {
	if err := o.deliver(ctx, recipient, ch, replyApology, ""); err != nil {
		o.logger.ErrorContext(ctx, "Failed to deliver apology reply", "recipient", recipient, "error", err)
	}
	o.logInteraction(ctx, domain.NewInteraction(recipient, replyApology, domain.SenderBot, ch, "", map[string]any{
		"intent": "error",
	}))
}

// logInteraction appends a ledger row, swallowing persistence errors: a
// failed log write must not fail a user-visible reply that already went out.
func (o *Orchestrator) logInteraction(ctx context.Context, interaction *domain.Interaction) {
	if err := o.interactions.Append(ctx, interaction); err != nil {
		o.logger.ErrorContext(ctx, "Failed to append interaction to ledger",
			"phone", interaction.Phone, "sender", interaction.Sender, "error", err)
	}
}

// Bounded external calls. Each upstream is a network hop; a timeout is the
// same as any other failure at that step.

func (o *Orchestrator) detectLanguage(ctx context.Context, text string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.translator.DetectLanguage(callCtx, text)
}

func (o *Orchestrator) translateToWorking(ctx context.Context, text string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.translator.TranslateToWorking(callCtx, text)
}

func (o *Orchestrator) translateFromWorking(ctx context.Context, text, lang string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.translator.TranslateFromWorking(callCtx, text, lang)
}

func (o *Orchestrator) classify(ctx context.Context, text string) (*domain.NlpResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.classifier.Classify(callCtx, text)
}

func (o *Orchestrator) synthesize(ctx context.Context, text, lang string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.synthesizer.Synthesize(callCtx, text, lang)
}
