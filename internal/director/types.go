package director

// ImageAnalysis is the structured read of an uploaded product asset.
// Produced once per upload; a new upload replaces it wholesale.
type ImageAnalysis struct {
	ProductDescription string   `json:"productDescription"`
	Category           string   `json:"category"`
	Colors             []string `json:"colors"`
	SuggestedAngles    []string `json:"suggestedAngles"`
	SuggestedScene     string   `json:"suggestedScene,omitempty"`
}

// Sliders are the three precision controls, each in [0,100]. The prompt
// treats each as a two-bucket switch around 70, not an interpolation.
type Sliders struct {
	Creativity int `json:"creativity"`
	Realism    int `json:"realism"`
	Technical  int `json:"technical"`
}

// Request is one ad-prompt generation order. Built fresh per call and
// never mutated afterwards.
type Request struct {
	Analysis     *ImageAnalysis `json:"analysis"`
	AdTypes      []AdType       `json:"adTypes"`
	HybridMode   bool           `json:"hybridMode"`
	Styles       []Style        `json:"styles"`
	Model        Model          `json:"model"`
	AspectRatio  AspectRatio    `json:"aspectRatio"`
	Duration     int            `json:"duration"`
	Sliders      Sliders        `json:"sliders"`
	Camera       []string       `json:"camera"`
	Lighting     string         `json:"lighting"`
	BrandMessage string         `json:"brandMessage"`
	Voiceover    string         `json:"voiceover"`
	Language     string         `json:"language"`
}

// Result is the deliverable of one successful generation.
type Result struct {
	FinalPrompt string         `json:"finalPrompt"`
	RichData    map[string]any `json:"richData,omitempty"`
	Idea        string         `json:"idea,omitempty"`
}
