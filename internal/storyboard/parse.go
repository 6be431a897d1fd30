package storyboard

import (
	"errors"
	"fmt"

	"studio-space/internal/director"
	"studio-space/internal/normalize"
)

// ErrIncomplete means the response parsed but does not contain the
// required scene list. Scenes are all-or-nothing; a partial storyboard
// is never accepted. An empty cast is fine.
var ErrIncomplete = errors.New("storyboard response is incomplete")

// Parse maps a normalized expansion response onto a hydrated Board.
// Every entity comes out with the mutable UI fields seeded: not busy, no
// image yet, landscape ratio, the configured per-scene duration, and a
// stable sequential id when the model omitted one.
func Parse(obj normalize.Object, cfg Config) (Board, error) {
	cfg = cfg.Normalize()

	rawScenes := obj.Objects("scenes")
	if len(rawScenes) == 0 {
		return Board{}, fmt.Errorf("%w: no scenes", ErrIncomplete)
	}
	if len(rawScenes) != cfg.SceneCount {
		return Board{}, fmt.Errorf("%w: want %d scenes, got %d", ErrIncomplete, cfg.SceneCount, len(rawScenes))
	}

	scenes := make([]Scene, 0, len(rawScenes))
	for i, raw := range rawScenes {
		scenes = append(scenes, Scene{
			ID:           entityID(raw, i),
			Title:        raw.StrOr(fmt.Sprintf("Scene %d", i+1), "title", "name"),
			VisualPrompt: raw.Str("visualPrompt", "visual_prompt", "imagePrompt", "image_prompt"),
			VideoPrompt:  raw.Str("videoPrompt", "video_prompt", "motionPrompt", "motion_prompt"),
			Script:       raw.Str("script", "voiceover", "dialogue"),
			Duration:     cfg.SceneDuration,
			AspectRatio:  director.RatioLandscape,
		})
	}

	rawChars := obj.Objects("characters", "cast")
	characters := make([]Character, 0, len(rawChars))
	for i, raw := range rawChars {
		characters = append(characters, Character{
			ID:           entityID(raw, i),
			Name:         raw.StrOr(fmt.Sprintf("Character %d", i+1), "name"),
			Description:  raw.Str("description", "personality"),
			VisualPrompt: raw.Str("visualPrompt", "visual_prompt", "appearance"),
			AspectRatio:  director.RatioLandscape,
		})
	}

	return Board{
		FullScript:            obj.Str("fullScript", "full_script", "script"),
		BackgroundMusicPrompt: obj.Str("backgroundMusicPrompt", "background_music_prompt", "musicPrompt", "music"),
		Characters:            characters,
		Scenes:                scenes,
		Config:                cfg,
	}, nil
}

func entityID(raw normalize.Object, index int) int {
	if id := raw.Int(0, "id"); id > 0 {
		return id
	}
	return index + 1
}
