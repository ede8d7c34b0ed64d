package summary

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"meetnotes/internal/logging"
	"meetnotes/internal/services"
	"meetnotes/internal/services/gemini"
)

// Generator produces summary text for a prompt. Implemented by
// gemini.Client; stubbed in tests.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Service coordinates summary generation: input validation, the upstream
// call, id minting, and the single store insertion per success.
type Service struct {
	generator Generator
	store     *Store
	logger    *slog.Logger
}

// NewService constructs a Service. A nil logger is replaced with a no-op one.
func NewService(generator Generator, store *Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		generator: generator,
		store:     store,
		logger:    logger.With(logging.String("component", "summary-service")),
	}
}

// Generate validates the inputs, invokes the upstream model, and on success
// stores a new record and returns its id alongside the summary text. Every
// error path leaves the store untouched.
func (s *Service) Generate(ctx context.Context, transcript, instruction string) (string, string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", "", services.Wrap(services.ErrValidation, "Transcript cannot be empty", nil)
	}
	if strings.TrimSpace(instruction) == "" {
		return "", "", services.Wrap(services.ErrValidation, "Custom prompt cannot be empty", nil)
	}

	prompt := gemini.BuildPrompt(transcript, instruction)
	text, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn("summary generation failed", logging.Error(err))
		return "", "", err
	}

	id := uuid.NewString()
	s.store.Insert(Record{
		ID:           id,
		Transcript:   transcript,
		CustomPrompt: instruction,
		Summary:      text,
	})
	s.logger.Info("summary generated",
		logging.String("summary_id", id),
		logging.Int("transcript_chars", len(transcript)),
		logging.Int("summary_chars", len(text)))
	return id, text, nil
}

// Get returns the stored record for id.
func (s *Service) Get(id string) (Record, error) {
	return s.store.Get(id)
}

// Update replaces the summary text of an existing record.
func (s *Service) Update(id, text string) error {
	if strings.TrimSpace(id) == "" {
		return services.Wrap(services.ErrValidation, "Summary ID is required", nil)
	}
	if err := s.store.UpdateSummary(id, text); err != nil {
		return err
	}
	s.logger.Info("summary updated", logging.String("summary_id", id))
	return nil
}
