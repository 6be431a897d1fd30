package studio

import (
	"context"
	"fmt"

	"studio-space/internal/director"
	"studio-space/internal/storyboard"
	"studio-space/internal/ws"
)

const (
	KindCharacter = "character"
	KindScene     = "scene"
)

// Regenerate dispatches a keyed image regeneration by entity kind. A
// non-nil ratio is applied to the entity before generating.
func (s *Service) Regenerate(ctx context.Context, kind string, id int, ratio *director.AspectRatio) error {
	switch kind {
	case KindCharacter:
		return s.RegenerateCharacter(ctx, id, ratio)
	case KindScene:
		return s.RegenerateScene(ctx, id, ratio)
	default:
		return fmt.Errorf("%w: kind %q", ErrUnknownEntity, kind)
	}
}

// RegenerateCharacter regenerates one character portrait. Each call
// claims the entity's generation counter; when an older call finishes
// after a newer one started, its outcome is discarded entirely.
func (s *Service) RegenerateCharacter(ctx context.Context, id int, ratio *director.AspectRatio) error {
	key := entityKey{kind: KindCharacter, id: id}

	s.mu.Lock()
	idx := s.characterIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: character %d", ErrUnknownEntity, id)
	}
	ch := &s.board.Characters[idx]
	if ratio != nil {
		ch.AspectRatio = *ratio
	}
	gen := s.generations[key] + 1
	s.generations[key] = gen
	ch.IsGeneratingImage = true
	prompt := storyboard.BuildImagePrompt(ch.VisualPrompt, s.board.Config.Style)
	ratioValue := director.RatioString(ch.AspectRatio)
	s.mu.Unlock()

	s.notify(ws.Event{Type: "entity", Kind: KindCharacter, ID: id, Busy: true})

	url, err := s.ai.GenerateImage(ctx, prompt, ratioValue)
	return s.finishCharacter(key, gen, id, url, err)
}

// RegenerateScene regenerates one scene frame.
func (s *Service) RegenerateScene(ctx context.Context, id int, ratio *director.AspectRatio) error {
	key := entityKey{kind: KindScene, id: id}

	s.mu.Lock()
	idx := s.sceneIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: scene %d", ErrUnknownEntity, id)
	}
	sc := &s.board.Scenes[idx]
	if ratio != nil {
		sc.AspectRatio = *ratio
	}
	gen := s.generations[key] + 1
	s.generations[key] = gen
	sc.IsGeneratingImage = true
	prompt := storyboard.BuildImagePrompt(sc.VisualPrompt, s.board.Config.Style)
	ratioValue := director.RatioString(sc.AspectRatio)
	s.mu.Unlock()

	s.notify(ws.Event{Type: "entity", Kind: KindScene, ID: id, Busy: true})

	url, err := s.ai.GenerateImage(ctx, prompt, ratioValue)
	return s.finishScene(key, gen, id, url, err)
}

func (s *Service) finishCharacter(key entityKey, gen uint64, id int, url string, genErr error) error {
	s.mu.Lock()
	if s.generations[key] != gen {
		s.mu.Unlock()
		s.logger.Debug("stale character generation discarded", "character_id", id)
		return nil
	}
	idx := s.characterIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	ch := &s.board.Characters[idx]
	ch.IsGeneratingImage = false
	if genErr == nil {
		ch.ImageURL = url
	}
	s.mu.Unlock()

	if genErr != nil {
		s.notify(ws.Event{Type: "entity", Kind: KindCharacter, ID: id, Err: genErr.Error()})
		return fmt.Errorf("regenerate character %d: %w", id, genErr)
	}
	s.notify(ws.Event{Type: "entity", Kind: KindCharacter, ID: id, ImageURL: url})
	return nil
}

func (s *Service) finishScene(key entityKey, gen uint64, id int, url string, genErr error) error {
	s.mu.Lock()
	if s.generations[key] != gen {
		s.mu.Unlock()
		s.logger.Debug("stale scene generation discarded", "scene_id", id)
		return nil
	}
	idx := s.sceneIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	sc := &s.board.Scenes[idx]
	sc.IsGeneratingImage = false
	if genErr == nil {
		sc.ImageURL = url
	}
	s.mu.Unlock()

	if genErr != nil {
		s.notify(ws.Event{Type: "entity", Kind: KindScene, ID: id, Err: genErr.Error()})
		return fmt.Errorf("regenerate scene %d: %w", id, genErr)
	}
	s.notify(ws.Event{Type: "entity", Kind: KindScene, ID: id, ImageURL: url})
	return nil
}

// HasEntity reports whether the active storyboard contains the entity.
func (s *Service) HasEntity(kind string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindCharacter:
		return s.characterIndexLocked(id) >= 0
	case KindScene:
		return s.sceneIndexLocked(id) >= 0
	default:
		return false
	}
}

// characterIndexLocked assumes s.mu is held.
func (s *Service) characterIndexLocked(id int) int {
	if s.board == nil {
		return -1
	}
	for i := range s.board.Characters {
		if s.board.Characters[i].ID == id {
			return i
		}
	}
	return -1
}

// sceneIndexLocked assumes s.mu is held.
func (s *Service) sceneIndexLocked(id int) int {
	if s.board == nil {
		return -1
	}
	for i := range s.board.Scenes {
		if s.board.Scenes[i].ID == id {
			return i
		}
	}
	return -1
}
