package assistantService

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"LundyVoice/internal/api/assistant"
	assistantRepository "LundyVoice/internal/api/assistant/repository"
	"LundyVoice/internal/entity"
	assistantPkg "LundyVoice/pkg/assistant"
	"LundyVoice/pkg/knowledge"
	"LundyVoice/pkg/s3"
	"LundyVoice/pkg/smtp"
	"LundyVoice/pkg/utils"
	"LundyVoice/pkg/voice"
)

type IAssistantService interface {
	ProcessCommand(ctx context.Context, req assistant.CommandRequest) (*assistant.CommandResponse, error)
	ProcessVoice(ctx context.Context, req assistant.VoiceRequest) (*assistant.CommandResponse, error)
	Synthesize(ctx context.Context, req assistant.SpeechRequest) ([]byte, error)

	ConfirmBooking(ctx context.Context, req assistant.ConfirmBookingRequest) (*assistant.BookingResponse, error)
	CancelBooking(ctx context.Context, req assistant.CancelBookingRequest) (*assistant.CommandResponse, error)
	GetLatestBooking(ctx context.Context, sessionID string) (*entity.DemoBooking, error)
	ListBookings(ctx context.Context, page, limit int) (*assistant.BookingListResponse, error)
	GetHistory(ctx context.Context, sessionID string, page, limit int) (*assistant.HistoryResponse, error)

	UpdatePageContent(ctx context.Context, req assistant.PageContentRequest) (*assistant.PageContentResponse, error)

	ComplianceReport(ctx context.Context) *assistant.ComplianceReportResponse
	ArchiveComplianceReport(ctx context.Context) (*assistant.ComplianceArchiveResponse, error)

	GetOnboarding(ctx context.Context, clientID string) (*assistant.OnboardingResponse, error)
	SetOnboarding(ctx context.Context, clientID string, seen bool) (*assistant.OnboardingResponse, error)
}

type assistantService struct {
	log         *logrus.Logger
	repo        assistantRepository.Repository
	sessions    assistantRepository.SessionStore
	dispatcher  *assistantPkg.Dispatcher
	pages       *knowledge.Store
	utils       utils.IUtils
	locks       *sessionLocks
	transcriber voice.Transcriber
	synthesizer voice.Synthesizer
	mailer      smtp.ItfSmtp
	archive     s3.ItfS3
	compliance  []assistantPkg.ComplianceItem
	config      *Config
	now         func() time.Time
}

type Config struct {
	MaxAudioSize   int64
	AllowedFormats []string
}

func DefaultConfig() *Config {
	return &Config{
		MaxAudioSize:   10 * 1024 * 1024,
		AllowedFormats: []string{".webm", ".wav", ".mp3", ".m4a", ".ogg", ".mp4", ".mpeg", ".mpga"},
	}
}

type Option func(*assistantService)

// WithTranscriber enables the uploaded-audio endpoint.
func WithTranscriber(t voice.Transcriber) Option {
	return func(s *assistantService) { s.transcriber = t }
}

// WithSynthesizer enables speech output. Text is rewritten with
// voice.Pronounce before synthesis.
func WithSynthesizer(syn voice.Synthesizer) Option {
	return func(s *assistantService) {
		if syn != nil {
			s.synthesizer = voice.WithPronunciation(syn)
		}
	}
}

func WithMailer(m smtp.ItfSmtp) Option {
	return func(s *assistantService) { s.mailer = m }
}

func WithArchive(a s3.ItfS3) Option {
	return func(s *assistantService) { s.archive = a }
}

func WithComplianceItems(items []assistantPkg.ComplianceItem) Option {
	return func(s *assistantService) {
		if len(items) > 0 {
			s.compliance = items
		}
	}
}

func WithConfig(cfg *Config) Option {
	return func(s *assistantService) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *assistantService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewAssistantService(
	log *logrus.Logger,
	repo assistantRepository.Repository,
	sessions assistantRepository.SessionStore,
	dispatcher *assistantPkg.Dispatcher,
	pages *knowledge.Store,
	utils utils.IUtils,
	opts ...Option,
) IAssistantService {
	s := &assistantService{
		log:        log,
		repo:       repo,
		sessions:   sessions,
		dispatcher: dispatcher,
		pages:      pages,
		utils:      utils,
		locks:      newSessionLocks(),
		compliance: assistantPkg.DefaultComplianceItems(),
		config:     DefaultConfig(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
