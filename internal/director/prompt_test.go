package director

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRequest() Request {
	return Request{
		AdTypes:     []AdType{AdTypeCinematic},
		Model:       ModelVeo3,
		AspectRatio: RatioLandscape,
		Duration:    8,
		Sliders:     Sliders{Creativity: 50, Realism: 50, Technical: 50},
	}
}

func TestBuildPromptSliderBuckets(t *testing.T) {
	t.Run("creativity above threshold goes surreal", func(t *testing.T) {
		req := baseRequest()
		req.Sliders.Creativity = 85
		prompt := BuildPrompt(req)
		assert.Contains(t, prompt, creativityHighDirective)
		assert.NotContains(t, prompt, creativityLowDirective)
	})

	t.Run("creativity at threshold stays literal", func(t *testing.T) {
		req := baseRequest()
		req.Sliders.Creativity = 70
		prompt := BuildPrompt(req)
		assert.Contains(t, prompt, creativityLowDirective)
		assert.NotContains(t, prompt, creativityHighDirective)
	})

	t.Run("realism buckets", func(t *testing.T) {
		req := baseRequest()
		req.Sliders.Realism = 90
		assert.Contains(t, BuildPrompt(req), realismHighDirective)

		req.Sliders.Realism = 40
		assert.Contains(t, BuildPrompt(req), realismLowDirective)
	})

	t.Run("technical buckets", func(t *testing.T) {
		req := baseRequest()
		req.Sliders.Technical = 71
		assert.Contains(t, BuildPrompt(req), technicalHighDirective)

		req.Sliders.Technical = 0
		assert.Contains(t, BuildPrompt(req), technicalLowDirective)
	})
}

func TestBuildPromptHybridDNA(t *testing.T) {
	req := baseRequest()
	req.AdTypes = []AdType{AdTypeUGC, AdTypeCinematic}
	req.HybridMode = true

	prompt := BuildPrompt(req)

	ugc := adTypeDefinitions[AdTypeUGC]
	cin := adTypeDefinitions[AdTypeCinematic]
	assert.Contains(t, prompt, ugc.Visuals)
	assert.Contains(t, prompt, cin.Visuals)
	assert.Contains(t, prompt, ugc.Camera)
	assert.Contains(t, prompt, cin.Camera)

	// UGC fragments come first because selection order is preserved.
	assert.Less(t, strings.Index(prompt, ugc.Visuals), strings.Index(prompt, cin.Visuals))
	assert.Contains(t, prompt, "Hybrid Mode**: true")
}

func TestBuildPromptAnalysisAndHints(t *testing.T) {
	req := baseRequest()
	req.Analysis = &ImageAnalysis{
		ProductDescription: "Matte black chronograph watch",
		Category:           "Accessories",
		Colors:             []string{"#111111", "Gold"},
		SuggestedScene:     "Obsidian pedestal in fog",
	}
	req.Styles = []Style{StyleNeonCyberpunk}

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, "Matte black chronograph watch")
	assert.Contains(t, prompt, "#111111, Gold")
	assert.Contains(t, prompt, "Obsidian pedestal in fog")
	assert.Contains(t, prompt, modelHints[ModelVeo3])
	assert.Contains(t, prompt, styleHints[StyleNeonCyberpunk])
}

func TestBuildPromptLanguage(t *testing.T) {
	req := baseRequest()
	req.Language = "ar"
	assert.Contains(t, BuildPrompt(req), "Arabic (Return rationale in Arabic, Prompt in English)")

	req.Language = ""
	assert.Contains(t, BuildPrompt(req), "**Language**: English")
}

func TestRuleTablesCoverCatalogs(t *testing.T) {
	for _, adType := range AdTypes() {
		dna := adTypeDNA(adType)
		assert.NotEmpty(t, dna.Visuals, "archetype %q has no visual DNA", adType)
		assert.NotEmpty(t, dna.Camera, "archetype %q has no camera DNA", adType)
		assert.NotEmpty(t, dna.Lighting, "archetype %q has no lighting DNA", adType)
	}
	for _, model := range Models() {
		assert.NotEmpty(t, modelHint(model), "model %q has no dialect hint", model)
	}
	for _, style := range Styles() {
		assert.NotEmpty(t, styleHint(style), "style %q has no hint", style)
	}
}

func TestAdTypeDNAUnknownDegradesToEmpty(t *testing.T) {
	dna := adTypeDNA(AdType("Retired Archetype"))
	assert.Equal(t, creativeDNA{}, dna)

	// An unknown archetype in a hybrid must not poison the known ones.
	combined := combineDNA([]AdType{AdType("Retired Archetype"), AdTypeLuxury})
	assert.Equal(t, adTypeDefinitions[AdTypeLuxury], combined)
}

func TestRatioString(t *testing.T) {
	assert.Equal(t, "9:16", RatioString(RatioVertical))
	assert.Equal(t, "16:9", RatioString(RatioLandscape))
	assert.Equal(t, "1:1", RatioString(RatioSquare))
	assert.Equal(t, "4:5", RatioString(RatioPortrait))
	assert.Equal(t, "21:9", RatioString(RatioUltrawide))
	assert.Equal(t, "16:9", RatioString(RatioCustom))
	assert.Equal(t, "16:9", RatioString(AspectRatio("3:7")))
	assert.Equal(t, "16:9", RatioString(""))
}

func TestBuildEnhancePrompt(t *testing.T) {
	prompt := BuildEnhancePrompt("a dog finds a portal")
	require.Contains(t, prompt, `"a dog finds a portal"`)
	assert.Contains(t, prompt, "Hollywood Screenwriter")
}
