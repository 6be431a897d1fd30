// Package studio orchestrates the two creative workflows: the ad
// director (analyze a product image, synthesize a master prompt) and
// the story studio (expand an idea into a storyboard with per-entity
// image regeneration).
package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"studio-space/internal/director"
	"studio-space/internal/gemini"
	"studio-space/internal/history"
	"studio-space/internal/normalize"
	"studio-space/internal/storyboard"
	"studio-space/internal/ws"
)

// AI is the slice of the Gemini client the service needs.
type AI interface {
	Complete(ctx context.Context, instructions string, images []gemini.ImageInput, opts gemini.CompleteOptions) (string, error)
	GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error)
}

// History records finished results. Nil disables recording.
type History interface {
	Append(item history.Item) (history.Item, error)
}

// Notifier pushes entity updates to the UI. Nil disables pushing.
type Notifier interface {
	BroadcastEvent(evt ws.Event)
}

// ErrUnknownEntity is returned when a regeneration targets a character
// or scene id that is not part of the current storyboard.
var ErrUnknownEntity = errors.New("unknown storyboard entity")

type Options struct {
	AI                AI
	History           History
	Notifier          Notifier
	Logger            *slog.Logger
	MaxParallelImages int
}

type entityKey struct {
	kind string
	id   int
}

// Service holds the single active project: the latest analysis, the
// latest ad result and the latest storyboard. All mutable state is
// behind one mutex; generation counters arbitrate overlapping
// regenerations per entity.
type Service struct {
	ai          AI
	history     History
	notifier    Notifier
	logger      *slog.Logger
	maxParallel int

	mu          sync.Mutex
	analysis    *director.ImageAnalysis
	result      *director.Result
	board       *storyboard.Board
	generations map[entityKey]uint64
}

func New(opts Options) (*Service, error) {
	if opts.AI == nil {
		return nil, errors.New("ai client is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	maxParallel := opts.MaxParallelImages
	if maxParallel <= 0 {
		maxParallel = 3
	}

	return &Service{
		ai:          opts.AI,
		history:     opts.History,
		notifier:    opts.Notifier,
		logger:      logger,
		maxParallel: maxParallel,
		generations: map[entityKey]uint64{},
	}, nil
}

// AnalyzeImage inspects a product photo and stores the structured
// analysis for the next generation call.
func (s *Service) AnalyzeImage(ctx context.Context, image gemini.ImageInput) (director.ImageAnalysis, error) {
	raw, err := s.ai.Complete(ctx, director.BuildAnalysisPrompt(), []gemini.ImageInput{image}, gemini.CompleteOptions{
		Structured:  true,
		Temperature: 0.4,
	})
	if err != nil {
		return director.ImageAnalysis{}, fmt.Errorf("analyze image: %w", err)
	}

	obj, err := normalize.Parse(raw)
	if err != nil {
		return director.ImageAnalysis{}, fmt.Errorf("analyze image: %w", err)
	}

	analysis := director.ParseAnalysis(obj)

	s.mu.Lock()
	s.analysis = &analysis
	s.mu.Unlock()

	return analysis, nil
}

// GenerateAd synthesizes the master prompt for the given brief. When the
// brief carries no analysis the last stored one is used. The optional
// image is only used for the history thumbnail.
func (s *Service) GenerateAd(ctx context.Context, req director.Request, image *gemini.ImageInput) (director.Result, error) {
	if req.Analysis == nil {
		s.mu.Lock()
		req.Analysis = s.analysis
		s.mu.Unlock()
	}

	raw, err := s.ai.Complete(ctx, director.BuildPrompt(req), nil, gemini.CompleteOptions{
		Structured:  true,
		Temperature: 0.8,
	})
	if err != nil {
		return director.Result{}, fmt.Errorf("generate ad: %w", err)
	}

	obj, err := normalize.Parse(raw)
	if err != nil {
		return director.Result{}, fmt.Errorf("generate ad: %w", err)
	}

	result, err := director.ParseResult(obj)
	if err != nil {
		return director.Result{}, fmt.Errorf("generate ad: %w", err)
	}

	s.mu.Lock()
	s.result = &result
	s.mu.Unlock()

	s.recordAd(req, result, image)
	return result, nil
}

// EnhanceConcept rewrites a rough concept into a vivid one-paragraph
// brief. An empty model reply falls back to the original concept.
func (s *Service) EnhanceConcept(ctx context.Context, concept string) (string, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return "", errors.New("concept is empty")
	}

	raw, err := s.ai.Complete(ctx, director.BuildEnhancePrompt(concept), nil, gemini.CompleteOptions{
		Temperature: 0.9,
	})
	if err != nil {
		return "", fmt.Errorf("enhance concept: %w", err)
	}

	enhanced := strings.TrimSpace(raw)
	if enhanced == "" {
		return concept, nil
	}
	return enhanced, nil
}

// Analysis returns the last stored image analysis, if any.
func (s *Service) Analysis() *director.ImageAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.analysis == nil {
		return nil
	}
	copied := *s.analysis
	return &copied
}

// Result returns the last generated ad result, if any.
func (s *Service) Result() *director.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return nil
	}
	copied := *s.result
	return &copied
}

func (s *Service) recordAd(req director.Request, result director.Result, image *gemini.ImageInput) {
	if s.history == nil {
		return
	}

	item := history.Item{
		Model:   req.Model,
		AdTypes: req.AdTypes,
		Result: history.Result{
			FinalPrompt: result.FinalPrompt,
			RichData:    result.RichData,
			Idea:        result.Idea,
		},
	}
	if image != nil && image.DataBase64 != "" {
		thumb, err := history.Thumbnail(image.DataBase64)
		if err != nil {
			s.logger.Warn("history thumbnail", "error", err)
		} else {
			item.ImageThumbnail = thumb
		}
	}

	if _, err := s.history.Append(item); err != nil {
		s.logger.Error("append history", "error", err)
	}
}

func (s *Service) notify(evt ws.Event) {
	if s.notifier != nil {
		s.notifier.BroadcastEvent(evt)
	}
}
