// Package review orchestrates one code submission from validation through
// generation, normalization, and persistence.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/revuhq/revu/internal/ai"
	"github.com/revuhq/revu/internal/language"
	"github.com/revuhq/revu/internal/models"
	"github.com/revuhq/revu/internal/store"
)

// Service drives the review pipeline. Each call is an independent,
// sequential pipeline: validate, classify, one model call, normalize, one
// store write. A persisted review therefore always holds a complete output.
type Service struct {
	store store.Store
	gen   ai.Generator
	log   *slog.Logger
}

// NewService wires the orchestrator. The generator is injected so tests
// can substitute a double with no environment coupling.
func NewService(s store.Store, g ai.Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, gen: g, log: logger}
}

// Analyze validates the submission, generates a review, and persists it.
// Validation failures return before any model call is made.
func (s *Service) Analyze(ctx context.Context, userID, code, lang string) (*models.Review, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}
	if lang == "" {
		return nil, fmt.Errorf("%w: language is required", ErrValidation)
	}

	output, err := s.gen.Generate(ctx, code, lang)
	if err != nil {
		s.log.Error("review generation failed", "language", lang, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	r := &models.Review{
		UserID:   userID,
		Code:     code,
		Language: lang,
		Output:   output,
	}
	if err := s.store.CreateReview(ctx, r); err != nil {
		return nil, fmt.Errorf("persist review: %w", err)
	}

	s.log.Info("review created", "review_id", r.ID, "language", lang)
	return r, nil
}

// AnalyzeUpload decodes an uploaded file as UTF-8 text and analyzes it.
// The language is taken from explicitLang when given, otherwise inferred
// from the file name.
func (s *Service) AnalyzeUpload(ctx context.Context, userID string, data []byte, filename, explicitLang string) (*models.Review, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: file is not valid UTF-8 text", ErrValidation)
	}
	code := string(data)
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: uploaded file is empty", ErrValidation)
	}

	return s.Analyze(ctx, userID, code, language.Detect(filename, explicitLang))
}

// History lists the caller's reviews, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]*models.ReviewSummary, error) {
	return s.store.ListReviews(ctx, userID)
}

// Get returns one of the caller's reviews by id.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Review, error) {
	r, err := s.store.GetReview(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Delete irreversibly removes one of the caller's reviews.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.store.DeleteReview(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.log.Info("review deleted", "review_id", id)
	return nil
}
