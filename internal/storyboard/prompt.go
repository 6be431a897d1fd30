package storyboard

import (
	"fmt"
	"strings"
)

// BuildPrompt composes the single expansion instruction. One call must
// yield the whole bundle; there is no follow-up round.
func BuildPrompt(idea string, cfg Config, language string) string {
	cfg = cfg.Normalize()

	var b strings.Builder
	b.Grow(2048)

	b.WriteString("You are a Lead Narrative Designer and Cinematographer.\n\n")

	b.WriteString("# INPUT\n")
	b.WriteString(fmt.Sprintf("- Idea: %q\n", idea))
	b.WriteString("- Style: " + cfg.Style + "\n")
	b.WriteString(fmt.Sprintf("- Scene Count: %d\n", cfg.SceneCount))
	b.WriteString(fmt.Sprintf("- Scene Duration: %ds\n", cfg.SceneDuration))
	if language == "" {
		language = "en"
	}
	b.WriteString("- Language: " + language + "\n")
	if desc := strings.TrimSpace(cfg.CharacterDescription); desc != "" {
		b.WriteString("- Main Character (must appear): " + desc + "\n")
	}

	b.WriteString(`
# TASK
1. **Characters**: Create consistent characters with names and detailed visual descriptions (hair, clothes, face).
2. **Script**: Write a full Voiceover Script for the entire video (Narrator or Dialogue).
3. **Audio**: Describe the perfect background music (BGM) to match the mood.
`)
	b.WriteString(fmt.Sprintf("4. **Scenes**: Break the script into exactly %d visual scenes.\n", cfg.SceneCount))

	b.WriteString(`
# SCENE RULES
- **Visual Prompt**: For Image Generation. MUST include the physical description of the character inline (e.g., "John, a rugged man with a scar...") so every prompt is self-contained. Describe the setting and action.
- **Video Prompt**: For Video Generation. Must include camera movement, lighting, and "High fidelity lip sync" instructions if there is dialogue. Re-embed character descriptions here too; prompts are never allowed to reference characters by name alone.

# OUTPUT JSON FORMAT
{
  "characters": [
    { "id": 1, "name": "Name", "description": "Personality...", "visualPrompt": "Physical appearance details..." }
  ],
  "fullScript": "The complete voiceover text...",
  "backgroundMusicPrompt": "Detailed audio prompt for the music...",
  "scenes": [
    {
      "id": 1,
      "title": "Scene Title",
      "visualPrompt": "Image gen prompt (including character visual details)...",
      "videoPrompt": "Video gen prompt (Motion + Camera + 'Lip sync: [Dialogue]')..."
    }
  ]
}`)

	return b.String()
}

// BuildImagePrompt wraps an entity's visual prompt with the studio style
// and render requirements for one image-generation call.
func BuildImagePrompt(visualPrompt, style string) string {
	var b strings.Builder
	b.WriteString("Create a high-quality, photorealistic image.\n")
	if style != "" {
		b.WriteString("Style: " + style + ".\n")
	}
	b.WriteString("Subject: " + visualPrompt + ".\n")
	b.WriteString("REQUIREMENTS: No text overlay, no watermarks, cinematic lighting, 8k resolution.")
	return b.String()
}
