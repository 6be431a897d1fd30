package director

import (
	"errors"

	"studio-space/internal/normalize"
)

// ErrNoPrompt means the model answered with parseable JSON that still
// lacks the primary deliverable. Never papered over with a default.
var ErrNoPrompt = errors.New("response carries no final prompt")

// ParseResult maps a normalized response onto the result shape. The
// deliverable field is strict; everything else is lenient.
func ParseResult(obj normalize.Object) (Result, error) {
	finalPrompt := obj.Str("finalPrompt", "final_full_generation_prompt", "final_prompt", "prompt")
	if finalPrompt == "" {
		return Result{}, ErrNoPrompt
	}

	return Result{
		FinalPrompt: finalPrompt,
		RichData:    obj.Obj("richData", "rich_data"),
		Idea:        obj.Str("idea", "concept", "summary"),
	}, nil
}

// ParseAnalysis maps a normalized analysis response. All fields are
// auxiliary here, so each one carries its own default.
func ParseAnalysis(obj normalize.Object) ImageAnalysis {
	return ImageAnalysis{
		ProductDescription: obj.StrOr("Product", "productDescription", "product_description", "description"),
		Category:           obj.StrOr("General", "category"),
		Colors:             obj.Strings("colors", "brandColors", "brand_colors"),
		SuggestedAngles:    obj.Strings("suggestedAngles", "suggested_angles", "angles"),
		SuggestedScene:     obj.StrOr("Studio setting", "suggestedScene", "suggested_scene", "scene"),
	}
}
