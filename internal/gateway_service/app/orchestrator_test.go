package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/channel"
	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// --- Mocks ---

type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) DetectLanguage(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *MockTranslator) TranslateToWorking(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *MockTranslator) TranslateFromWorking(ctx context.Context, text string, languageCode string) (string, error) {
	args := m.Called(ctx, text, languageCode)
	return args.String(0), args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (*domain.NlpResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NlpResult), args.Error(1)
}

type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string, languageCode string) (string, error) {
	args := m.Called(ctx, text, languageCode)
	return args.String(0), args.Error(1)
}

type MockChannelAdapter struct {
	mock.Mock
	AdapterName string
}

func (m *MockChannelAdapter) Send(ctx context.Context, recipient string, text string, voiceRef string) (*domain.DeliveryResult, error) {
	args := m.Called(ctx, recipient, text, voiceRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryResult), args.Error(1)
}

func (m *MockChannelAdapter) Name() string {
	return m.AdapterName
}

type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Append(ctx context.Context, interaction *domain.Interaction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func (m *MockInteractionRepository) CountUserQueriesSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionRepository) CountUniqueUsersSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionRepository) IntentBreakdownSince(ctx context.Context, since time.Time, limit int) ([]domain.IntentCount, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IntentCount), args.Error(1)
}

func (m *MockInteractionRepository) ChannelBreakdownSince(ctx context.Context, since time.Time) ([]domain.ChannelCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChannelCount), args.Error(1)
}

func (m *MockInteractionRepository) RecentActivity(ctx context.Context, limit int) ([]domain.UserActivity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserActivity), args.Error(1)
}

type MockUserLocationRepository struct {
	mock.Mock
}

func (m *MockUserLocationRepository) Upsert(ctx context.Context, location *domain.UserLocation) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockUserLocationRepository) GetByPhone(ctx context.Context, phone string) (*domain.UserLocation, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserLocation), args.Error(1)
}

// --- Test Setup ---

const testSender = "+919876543210"

type testOrchestratorComponents struct {
	orch             *Orchestrator
	mockTranslator   *MockTranslator
	mockClassifier   *MockClassifier
	mockSynthesizer  *MockSynthesizer
	mockWhatsApp     *MockChannelAdapter
	mockInteractions *MockInteractionRepository
	mockLocations    *MockUserLocationRepository
}

func setupOrchestratorTest(t *testing.T, cfg OrchestratorConfig) testOrchestratorComponents {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mockTranslator := new(MockTranslator)
	mockClassifier := new(MockClassifier)
	mockSynthesizer := new(MockSynthesizer)
	mockWhatsApp := &MockChannelAdapter{AdapterName: "whatsapp_mock"}
	mockInteractions := new(MockInteractionRepository)
	mockLocations := new(MockUserLocationRepository)

	orch := NewOrchestrator(
		mockTranslator,
		mockClassifier,
		mockSynthesizer,
		map[domain.Channel]channel.Adapter{domain.ChannelWhatsApp: mockWhatsApp},
		mockInteractions,
		mockLocations,
		cfg,
		logger,
	)

	return testOrchestratorComponents{
		orch:             orch,
		mockTranslator:   mockTranslator,
		mockClassifier:   mockClassifier,
		mockSynthesizer:  mockSynthesizer,
		mockWhatsApp:     mockWhatsApp,
		mockInteractions: mockInteractions,
		mockLocations:    mockLocations,
	}
}

func matchInteraction(sender domain.Sender, message string) interface{} {
	return mock.MatchedBy(func(i *domain.Interaction) bool {
		return i.Sender == sender && i.Message == message
	})
}

func anyInteraction(sender domain.Sender) interface{} {
	return mock.MatchedBy(func(i *domain.Interaction) bool {
		return i.Sender == sender
	})
}

func delivered() *domain.DeliveryResult {
	return &domain.DeliveryResult{MessageID: "wamid.out", Accepted: true}
}

// --- Text pipeline ---

func TestProcessEvent_TextMessage_WorkingLanguage(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})
	event := domain.TextMessage{From: testSender, MessageID: "wamid.1", Body: "what are dengue symptoms"}

	comps.mockInteractions.On("Append", mock.Anything, matchInteraction(domain.SenderUser, "what are dengue symptoms")).Return(nil).Once()
	comps.mockTranslator.On("DetectLanguage", mock.Anything, "what are dengue symptoms").Return("en", nil).Once()
	comps.mockClassifier.On("Classify", mock.Anything, "what are dengue symptoms").
		Return(&domain.NlpResult{Intent: "symptom_query", Confidence: 0.91, Response: "Dengue symptoms include fever and joint pain."}, nil).Once()
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, "Dengue symptoms include fever and joint pain.", "").
		Return(delivered(), nil).Once()
	comps.mockInteractions.On("Append", mock.Anything, mock.MatchedBy(func(i *domain.Interaction) bool {
		return i.Sender == domain.SenderBot &&
			i.Metadata["intent"] == "symptom_query" &&
			i.Metadata["language"] == "en"
	})).Return(nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	comps.mockTranslator.AssertNotCalled(t, "TranslateToWorking", mock.Anything, mock.Anything)
	comps.mockTranslator.AssertNotCalled(t, "TranslateFromWorking", mock.Anything, mock.Anything, mock.Anything)
	comps.mockSynthesizer.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything, mock.Anything)
	comps.mockTranslator.AssertExpectations(t)
	comps.mockClassifier.AssertExpectations(t)
	comps.mockWhatsApp.AssertExpectations(t)
	comps.mockInteractions.AssertExpectations(t)
}

func TestProcessEvent_TextMessage_TranslatedRoundTrip(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})
	event := domain.TextMessage{From: testSender, MessageID: "wamid.2", Body: "मुझे बुखार है"}

	comps.mockInteractions.On("Append", mock.Anything, anyInteraction(domain.SenderUser)).Return(nil).Once()
	comps.mockTranslator.On("DetectLanguage", mock.Anything, "मुझे बुखार है").Return("hi", nil).Once()
	comps.mockTranslator.On("TranslateToWorking", mock.Anything, "मुझे बुखार है").Return("I have a fever", nil).Once()
	comps.mockClassifier.On("Classify", mock.Anything, "I have a fever").
		Return(&domain.NlpResult{Intent: "symptom_check", Confidence: 0.88, Response: "Please rest and stay hydrated."}, nil).Once()
	comps.mockTranslator.On("TranslateFromWorking", mock.Anything, "Please rest and stay hydrated.", "hi").
		Return("कृपया आराम करें", nil).Once()
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, "कृपया आराम करें", "").Return(delivered(), nil).Once()
	comps.mockInteractions.On("Append", mock.Anything, mock.MatchedBy(func(i *domain.Interaction) bool {
		return i.Sender == domain.SenderBot && i.Message == "कृपया आराम करें" && i.Metadata["language"] == "hi"
	})).Return(nil).Once()

	// symptom_check is a special intent: a follow-up prompt goes out after
	// the primary reply.
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, replySymptomPrompt, "").Return(delivered(), nil).Once()
	comps.mockInteractions.On("Append", mock.Anything, matchInteraction(domain.SenderBot, replySymptomPrompt)).Return(nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	comps.mockTranslator.AssertExpectations(t)
	comps.mockClassifier.AssertExpectations(t)
	comps.mockWhatsApp.AssertExpectations(t)
	comps.mockInteractions.AssertExpectations(t)
}

func TestProcessEvent_TextMessage_VoiceSynthesis(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en", VoiceEnabled: true})
	event := domain.TextMessage{From: testSender, MessageID: "wamid.3", Body: "prevention tips please"}

	comps.mockInteractions.On("Append", mock.Anything, anyInteraction(domain.SenderUser)).Return(nil).Once()
	comps.mockTranslator.On("DetectLanguage", mock.Anything, mock.Anything).Return("en", nil).Once()
	comps.mockClassifier.On("Classify", mock.Anything, "prevention tips please").
		Return(&domain.NlpResult{Intent: "prevention_tips", Confidence: 0.8, Response: "Wash hands regularly.", NeedsVoice: true}, nil).Once()
	comps.mockSynthesizer.On("Synthesize", mock.Anything, "Wash hands regularly.", "en").
		Return("https://cdn.example.org/tts/abc.mp3", nil).Once()
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, "Wash hands regularly.", "https://cdn.example.org/tts/abc.mp3").
		Return(delivered(), nil).Once()
	comps.mockInteractions.On("Append", mock.Anything, anyInteraction(domain.SenderBot)).Return(nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	comps.mockSynthesizer.AssertExpectations(t)
	comps.mockWhatsApp.AssertExpectations(t)
}

func TestProcessEvent_TextMessage_VoiceFailureIsNonFatal(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en", VoiceEnabled: true})
	event := domain.TextMessage{From: testSender, MessageID: "wamid.4", Body: "prevention tips please"}

	comps.mockInteractions.On("Append", mock.Anything, anyInteraction(domain.SenderUser)).Return(nil).Once()
	comps.mockTranslator.On("DetectLanguage", mock.Anything, mock.Anything).Return("en", nil).Once()
	comps.mockClassifier.On("Classify", mock.Anything, mock.Anything).
		Return(&domain.NlpResult{Intent: "prevention_tips", Confidence: 0.8, Response: "Wash hands regularly.", NeedsVoice: true}, nil).Once()
	comps.mockSynthesizer.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("tts backend down")).Once()
	// Delivery proceeds text-only with an empty voice reference.
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, "Wash hands regularly.", "").Return(delivered(), nil).Once()
	comps.mockInteractions.On("Append", mock.Anything, anyInteraction(domain.SenderBot)).Return(nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	comps.mockWhatsApp.AssertExpectations(t)
	comps.mockInteractions.AssertExpectations(t)
}

func TestProcessEvent_TextMessage_EmptyBody(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})
	event := domain.TextMessage{From: testSender, MessageID: "wamid.5", Body: "   \x00\a  "}

	comps.mockWhatsApp.On("Send", mock.Anything, testSender, replyEmptyMessage, "").Return(delivered(), nil).Once()
	comps.mockInteractions.On("Append", mock.Anything, matchInteraction(domain.SenderBot, replyEmptyMessage)).Return(nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	comps.mockTranslator.AssertNotCalled(t, "DetectLanguage", mock.Anything, mock.Anything)
	comps.mockClassifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	comps.mockWhatsApp.AssertExpectations(t)
}

func TestProcessEvent_ClassifierFailureSendsApology(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})
	event := domain.TextMessage{From: testSender, MessageID: "wamid.6", Body: "what is malaria"}

	comps.mockInteractions.On("Append", mock.Anything, anyInteraction(domain.SenderUser)).Return(nil).Once()
	comps.mockTranslator.On("DetectLanguage", mock.Anything, mock.Anything).Return("en", nil).Once()
	comps.mockClassifier.On("Classify", mock.Anything, mock.Anything).
		Return(nil, errors.New("nlp engine unreachable")).Once()

	comps.mockWhatsApp.On("Send", mock.Anything, testSender, replyApology, "").Return(delivered(), nil).Once()
	comps.mockInteractions.On("Append", mock.Anything, mock.MatchedBy(func(i *domain.Interaction) bool {
		return i.Sender == domain.SenderBot && i.Message == replyApology && i.Metadata["intent"] == "error"
	})).Return(nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	comps.mockWhatsApp.AssertExpectations(t)
	comps.mockInteractions.AssertExpectations(t)
}

func TestProcessEvent_DeliveryFailureStillLogsApologyRow(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})
	event := domain.TextMessage{From: testSender, MessageID: "wamid.7", Body: "hello"}

	comps.mockInteractions.On("Append", mock.Anything, anyInteraction(domain.SenderUser)).Return(nil).Once()
	comps.mockTranslator.On("DetectLanguage", mock.Anything, mock.Anything).Return("en", nil).Once()
	comps.mockClassifier.On("Classify", mock.Anything, mock.Anything).
		Return(&domain.NlpResult{Intent: "general_query", Confidence: 0.3, Response: "Hello!"}, nil).Once()
	// Primary delivery fails, then the apology delivery fails too; the
	// intent=error ledger row is still written.
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, "Hello!", "").
		Return(nil, errors.New("provider 503")).Once()
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, replyApology, "").
		Return(nil, errors.New("provider 503")).Once()
	comps.mockInteractions.On("Append", mock.Anything, mock.MatchedBy(func(i *domain.Interaction) bool {
		return i.Sender == domain.SenderBot && i.Metadata["intent"] == "error"
	})).Return(nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	comps.mockWhatsApp.AssertExpectations(t)
	comps.mockInteractions.AssertExpectations(t)
}

func TestProcessEvent_PersistenceErrorIsSwallowed(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})
	event := domain.TextMessage{From: testSender, MessageID: "wamid.8", Body: "hello"}

	comps.mockInteractions.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))
	comps.mockTranslator.On("DetectLanguage", mock.Anything, mock.Anything).Return("en", nil).Once()
	comps.mockClassifier.On("Classify", mock.Anything, mock.Anything).
		Return(&domain.NlpResult{Intent: "general_query", Confidence: 0.3, Response: "Hello!"}, nil).Once()
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, "Hello!", "").Return(delivered(), nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	// No apology: a ledger write failure never fails the turn.
	comps.mockWhatsApp.AssertNumberOfCalls(t, "Send", 1)
}

// --- Non-text events ---

func TestProcessEvent_StatusEventsProduceNoReplies(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})

	events := []domain.InboundEvent{
		domain.DeliveryStatus{MessageIDs: []string{"wamid.a"}, Timestamp: 1700000001},
		domain.ReadStatus{MessageIDs: []string{"wamid.a"}, Timestamp: 1700000002},
		domain.TemplateStatus{MessageID: "wamid.t", Status: "delivered", Timestamp: 1700000003},
	}
	for _, event := range events {
		comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)
	}

	comps.mockWhatsApp.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	comps.mockInteractions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestProcessEvent_Location(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})
	event := domain.Location{From: testSender, MessageID: "wamid.loc", Latitude: 20.27, Longitude: 85.84, Address: "Bhubaneswar"}

	comps.mockLocations.On("Upsert", mock.Anything, mock.MatchedBy(func(l *domain.UserLocation) bool {
		return l.Phone == testSender && l.Latitude == 20.27 && l.Longitude == 85.84 && l.Address == "Bhubaneswar"
	})).Return(nil).Once()
	comps.mockInteractions.On("Append", mock.Anything, matchInteraction(domain.SenderUser, "LOCATION: 20.27,85.84")).Return(nil).Once()
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, replyLocationAck, "").Return(delivered(), nil).Once()
	comps.mockInteractions.On("Append", mock.Anything, matchInteraction(domain.SenderBot, replyLocationAck)).Return(nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	comps.mockLocations.AssertExpectations(t)
	comps.mockWhatsApp.AssertExpectations(t)
	comps.mockInteractions.AssertExpectations(t)
}

func TestProcessEvent_Location_UpsertFailureStillAcknowledges(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})
	event := domain.Location{From: testSender, MessageID: "wamid.loc", Latitude: 20.27, Longitude: 85.84}

	comps.mockLocations.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	comps.mockInteractions.On("Append", mock.Anything, mock.Anything).Return(nil)
	comps.mockWhatsApp.On("Send", mock.Anything, testSender, replyLocationAck, "").Return(delivered(), nil).Once()

	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelWhatsApp)

	comps.mockWhatsApp.AssertExpectations(t)
}

func TestProcessEvent_ImageAudioUnsupported(t *testing.T) {
	tests := []struct {
		name          string
		event         domain.InboundEvent
		voiceEnabled  bool
		expectedReply string
		expectedTurn  string
	}{
		{
			name:          "image",
			event:         domain.Image{From: testSender, MessageID: "wamid.img", Caption: "rash"},
			expectedReply: replyImage,
			expectedTurn:  "IMAGE: rash",
		},
		{
			name:          "audio voice off",
			event:         domain.Audio{From: testSender, MessageID: "wamid.aud"},
			expectedReply: replyAudio,
			expectedTurn:  "AUDIO_MESSAGE",
		},
		{
			name:          "audio voice on",
			event:         domain.Audio{From: testSender, MessageID: "wamid.aud"},
			voiceEnabled:  true,
			expectedReply: replyAudioVoiceOn,
			expectedTurn:  "AUDIO_MESSAGE",
		},
		{
			name:          "unsupported",
			event:         domain.Unsupported{From: testSender, RawType: "sticker"},
			expectedReply: replyUnsupported,
			expectedTurn:  "UNSUPPORTED: sticker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en", VoiceEnabled: tt.voiceEnabled})

			comps.mockInteractions.On("Append", mock.Anything, matchInteraction(domain.SenderUser, tt.expectedTurn)).Return(nil).Once()
			comps.mockWhatsApp.On("Send", mock.Anything, testSender, tt.expectedReply, "").Return(delivered(), nil).Once()
			comps.mockInteractions.On("Append", mock.Anything, matchInteraction(domain.SenderBot, tt.expectedReply)).Return(nil).Once()

			comps.orch.ProcessEvent(context.Background(), tt.event, domain.ChannelWhatsApp)

			comps.mockWhatsApp.AssertExpectations(t)
			comps.mockInteractions.AssertExpectations(t)
		})
	}
}

func TestProcessEvent_ChannelNotConfigured(t *testing.T) {
	comps := setupOrchestratorTest(t, OrchestratorConfig{WorkingLanguage: "en"})
	event := domain.Unsupported{From: testSender, RawType: "sticker"}

	comps.mockInteractions.On("Append", mock.Anything, mock.Anything).Return(nil)

	// SMS is not in the adapter map; delivery and the apology both fail,
	// but processing must not panic and the error row is still written.
	comps.orch.ProcessEvent(context.Background(), event, domain.ChannelSMS)

	comps.mockWhatsApp.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
