package studio

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"studio-space/internal/gemini"
	"studio-space/internal/history"
	"studio-space/internal/normalize"
	"studio-space/internal/storyboard"
)

// ExpandStoryboard turns a story idea into a full board in one model
// call, stores it as the active board and kicks off character portrait
// generation in the background.
func (s *Service) ExpandStoryboard(ctx context.Context, idea string, cfg storyboard.Config, language string) (storyboard.Board, error) {
	cfg = cfg.Normalize()

	raw, err := s.ai.Complete(ctx, storyboard.BuildPrompt(idea, cfg, language), nil, gemini.CompleteOptions{
		Structured:  true,
		Temperature: 0.9,
	})
	if err != nil {
		return storyboard.Board{}, fmt.Errorf("expand storyboard: %w", err)
	}

	obj, err := normalize.Parse(raw)
	if err != nil {
		return storyboard.Board{}, fmt.Errorf("expand storyboard: %w", err)
	}

	board, err := storyboard.Parse(obj, cfg)
	if err != nil {
		return storyboard.Board{}, fmt.Errorf("expand storyboard: %w", err)
	}

	// The fan-out below mutates the stored board under s.mu; the caller
	// gets its own copy so serializing the response never races with it.
	stored := cloneBoard(board)
	s.mu.Lock()
	s.board = &stored
	s.generations = map[entityKey]uint64{}
	s.mu.Unlock()

	s.recordBoard(idea, board)
	s.generateCharacterImages(context.WithoutCancel(ctx), board)

	return board, nil
}

func cloneBoard(b storyboard.Board) storyboard.Board {
	b.Characters = append([]storyboard.Character(nil), b.Characters...)
	b.Scenes = append([]storyboard.Scene(nil), b.Scenes...)
	return b
}

// Board returns a snapshot of the active storyboard, if any.
func (s *Service) Board() *storyboard.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return nil
	}
	copied := cloneBoard(*s.board)
	return &copied
}

// generateCharacterImages fans out initial portrait generation for every
// character on the fresh board. Failures are logged and reported over
// the notifier; they never cancel sibling generations.
func (s *Service) generateCharacterImages(ctx context.Context, board storyboard.Board) {
	if len(board.Characters) == 0 {
		return
	}

	go func() {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(s.maxParallel)

		for _, ch := range board.Characters {
			id := ch.ID
			g.Go(func() error {
				if err := s.RegenerateCharacter(ctx, id, nil); err != nil {
					s.logger.Warn("character image", "character_id", id, "error", err)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (s *Service) recordBoard(idea string, board storyboard.Board) {
	if s.history == nil {
		return
	}

	cfg := board.Config
	item := history.Item{
		Result: history.Result{
			Idea:                  idea,
			FullScript:            board.FullScript,
			BackgroundMusicPrompt: board.BackgroundMusicPrompt,
			Characters:            board.Characters,
			Scenes:                board.Scenes,
			Config:                &cfg,
		},
	}
	if _, err := s.history.Append(item); err != nil {
		s.logger.Error("append history", "error", err)
	}
}
