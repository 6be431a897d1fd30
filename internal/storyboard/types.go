// Package storyboard expands a one-line film idea into a full production
// bundle: cast, script, music prompt, and an ordered scene list whose
// prompts are self-contained enough to drive image and video generation
// independently.
package storyboard

import "studio-space/internal/director"

// Character is an addressable cast member. ID is stable for the lifetime
// of its storyboard; the image fields mutate independently per character.
type Character struct {
	ID                int                  `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	VisualPrompt      string               `json:"visualPrompt"`
	ImageURL          string               `json:"imageUrl,omitempty"`
	IsGeneratingImage bool                 `json:"isGeneratingImage"`
	AspectRatio       director.AspectRatio `json:"aspectRatio"`
}

// Scene is one beat of the story. IDs are 1-based and carry narrative
// order; nothing may reorder them.
type Scene struct {
	ID                int                  `json:"id"`
	Title             string               `json:"title"`
	VisualPrompt      string               `json:"visualPrompt"`
	VideoPrompt       string               `json:"videoPrompt,omitempty"`
	Script            string               `json:"script,omitempty"`
	ImageURL          string               `json:"imageUrl,omitempty"`
	IsGeneratingImage bool                 `json:"isGeneratingImage"`
	Duration          int                  `json:"duration"`
	AspectRatio       director.AspectRatio `json:"aspectRatio"`
}

// MotionPrompt returns the video prompt, falling back to the visual
// prompt when the model omitted one.
func (s Scene) MotionPrompt() string {
	if s.VideoPrompt != "" {
		return s.VideoPrompt
	}
	return s.VisualPrompt
}

// Config is the user-editable studio setup. Changes apply to the next
// expansion only, never retroactively.
type Config struct {
	Style                string `json:"style"`
	SceneCount           int    `json:"sceneCount"`
	SceneDuration        int    `json:"sceneDuration"`
	CharacterDescription string `json:"characterDescription,omitempty"`
}

// Normalize clamps the config to its legal domain.
func (c Config) Normalize() Config {
	if c.Style == "" {
		c.Style = StudioStyles()[0]
	}
	if c.SceneCount < 3 {
		c.SceneCount = 3
	}
	if c.SceneCount > 10 {
		c.SceneCount = 10
	}
	if !validSceneDuration(c.SceneDuration) {
		c.SceneDuration = 5
	}
	return c
}

// Board is the result of one expansion call.
type Board struct {
	FullScript            string      `json:"fullScript"`
	BackgroundMusicPrompt string      `json:"backgroundMusicPrompt"`
	Characters            []Character `json:"characters"`
	Scenes                []Scene     `json:"scenes"`
	Config                Config      `json:"config"`
}

func StudioStyles() []string {
	return []string{
		"Hollywood Cinematic",
		"Disney Animation",
		"Pixar 3D Style",
		"Anime Studio Ghibli",
		"Dark Noir Film",
		"Cyberpunk 2077",
		"Vintage 1950s",
		"Claymation",
		"Hyper-Realistic",
		"Watercolor Painting",
	}
}

func SceneDurations() []int {
	return []int{5, 8, 10}
}

func validSceneDuration(d int) bool {
	for _, v := range SceneDurations() {
		if d == v {
			return true
		}
	}
	return false
}
