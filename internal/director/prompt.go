package director

import (
	"fmt"
	"strings"
)

// Slider threshold: above it the brief switches to the intense vocabulary
// bucket, at or below it stays grounded. Two buckets only.
const sliderHigh = 70

const directorSystemPrompt = `You are a World-Class AI Creative Director and Film Strategist.
Your goal: Create the perfect video generation prompt for models like Sora, Veo, and Runway.

# OUTPUT RULES
1. **Format**: Return ONLY valid JSON.
2. **Detail**: The 'finalPrompt' must be massive (500+ words). Describe physics, textures, lenses, and lighting in excruciating detail.
3. **Logic**:
   - If UGC: Ban cinematic terms. Demand imperfection.
   - If Cinematic: Demand high-end production value.
   - If Hybrid: Blend them intelligently (e.g., "Starts with UGC hook, transitions to Cinematic reveal").
4. **Structure**: Every video must have a timeline [00:00] -> [END].
5. **Closing**: ALWAYS end with a 2-second closing scene (Logo/Fade).`

// Directives emitted by the slider buckets. Exported indirectly through
// the composed brief; tests assert on these exact fragments.
const (
	creativityHighDirective = "Push into surreal, abstract, unexpected imagery; bend physics and scale for impact."
	creativityLowDirective  = "Stay literal and grounded; depict the product in believable real-world situations."
	realismHighDirective    = "Demand photorealistic rendering: 8K, physically accurate materials, true-to-life optics."
	realismLowDirective     = "Stylized or painterly treatment is welcome; prioritize mood over physical accuracy."
	technicalHighDirective  = "Use explicit technical vocabulary: lens focal lengths, aperture values, shutter angles, rig names."
	technicalLowDirective   = "Describe mood and feeling only; avoid camera-technical jargon."
)

// BuildPrompt composes the single instruction document for one ad-prompt
// generation call: system rules, project brief, concatenated archetype
// DNA, slider directives, and the output contract.
func BuildPrompt(req Request) string {
	dna := combineDNA(req.AdTypes)

	var b strings.Builder
	b.Grow(4096)

	b.WriteString(directorSystemPrompt)
	b.WriteString("\n\n# PROJECT BRIEF\n")

	if req.Language == "ar" {
		b.WriteString("- **Language**: Arabic (Return rationale in Arabic, Prompt in English)\n")
	} else {
		b.WriteString("- **Language**: English\n")
	}

	if req.Analysis != nil {
		b.WriteString("- **Input**: " + req.Analysis.ProductDescription + "\n")
		if req.Analysis.Category != "" {
			b.WriteString("- **Category**: " + req.Analysis.Category + "\n")
		}
		if len(req.Analysis.Colors) > 0 {
			b.WriteString("- **Brand Colors**: " + strings.Join(req.Analysis.Colors, ", ") + "\n")
		}
		if req.Analysis.SuggestedScene != "" {
			b.WriteString("- **Suggested Scene**: " + req.Analysis.SuggestedScene + "\n")
		}
	}

	b.WriteString("- **Target Model**: " + string(req.Model) + "\n")
	if hint := modelHint(req.Model); hint != "" {
		b.WriteString("- **Model Dialect**: " + hint + "\n")
	}
	b.WriteString("- **Aspect Ratio**: " + string(req.AspectRatio) + "\n")
	b.WriteString(fmt.Sprintf("- **Duration**: %ds\n", req.Duration))
	b.WriteString("- **Ad Types**: " + joinAdTypes(req.AdTypes) + "\n")
	b.WriteString(fmt.Sprintf("- **Hybrid Mode**: %t\n", req.HybridMode))
	if len(req.Styles) > 0 {
		b.WriteString("- **Visual Style**: " + joinStyles(req.Styles) + "\n")
		for _, s := range req.Styles {
			if hint := styleHint(s); hint != "" {
				b.WriteString("  - " + hint + "\n")
			}
		}
	}
	if req.BrandMessage != "" {
		b.WriteString("- **Brand Context**: " + req.BrandMessage + "\n")
	}
	if req.Voiceover != "" {
		b.WriteString("- **Voiceover**: " + req.Voiceover + "\n")
	}
	b.WriteString(fmt.Sprintf("- **Technical Specs**: Camera [%s], Lighting [%s].\n",
		strings.Join(req.Camera, ", "), req.Lighting))

	b.WriteString("- **Creative DNA**:\n")
	b.WriteString("  - Visuals: " + dna.Visuals + "\n")
	b.WriteString("  - Camera Movement: " + dna.Camera + "\n")
	b.WriteString("  - Lighting Mood: " + dna.Lighting + "\n")

	b.WriteString("\n# PRECISION CONTROLS\n")
	b.WriteString("- " + sliderDirective(req.Sliders.Creativity, creativityHighDirective, creativityLowDirective) + "\n")
	b.WriteString("- " + sliderDirective(req.Sliders.Realism, realismHighDirective, realismLowDirective) + "\n")
	b.WriteString("- " + sliderDirective(req.Sliders.Technical, technicalHighDirective, technicalLowDirective) + "\n")

	b.WriteString(`
# OUTPUT JSON STRUCTURE
{
  "finalPrompt": "THE_FULL_DETAILED_PROMPT_HERE",
  "richData": {
    "strategy": "Why this works...",
    "visual_hooks": ["Hook 1", "Hook 2"],
    "audio_direction": "Sound design notes..."
  },
  "idea": "Short summary of the concept"
}`)

	return b.String()
}

// BuildAnalysisPrompt is the instruction block sent alongside an uploaded
// asset image.
func BuildAnalysisPrompt() string {
	return `Analyze this image for a high-budget video ad.
Extract:
1. Product Description (Physical details).
2. Category.
3. Brand Colors (Hex/Names).
4. 3 Best Camera Angles for this specific item.
5. A compatible scenic background description.
Return JSON with fields: productDescription, category, colors, suggestedAngles, suggestedScene.`
}

// BuildEnhancePrompt wraps a raw story concept for the screenwriter pass.
func BuildEnhancePrompt(concept string) string {
	return fmt.Sprintf(`Act as a Hollywood Screenwriter. Take this raw film concept and enhance it to be more cinematic, intriguing, and visually descriptive, but keep it concise (under 100 words).

RAW CONCEPT: %q

ENHANCED CONCEPT:`, concept)
}

// combineDNA concatenates fragments across all selected archetypes.
// Hybrid selections stack; they never replace one another.
func combineDNA(types []AdType) creativeDNA {
	var out creativeDNA
	for _, t := range types {
		dna := adTypeDNA(t)
		out.Visuals = joinFragment(out.Visuals, dna.Visuals)
		out.Camera = joinFragment(out.Camera, dna.Camera)
		out.Lighting = joinFragment(out.Lighting, dna.Lighting)
	}
	return out
}

func sliderDirective(value int, high, low string) string {
	if value > sliderHigh {
		return high
	}
	return low
}

func joinFragment(acc, next string) string {
	if acc == "" {
		return next
	}
	if next == "" {
		return acc
	}
	return acc + " " + next
}

func joinAdTypes(types []AdType) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}

func joinStyles(styles []Style) string {
	parts := make([]string, 0, len(styles))
	for _, s := range styles {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}
