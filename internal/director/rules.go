package director

// AdType is a campaign archetype. Each one maps to a fragment of creative
// DNA (visual texture, camera grammar, lighting convention) that gets
// embedded into the director brief.
type AdType string

const (
	AdTypeUGC             AdType = "UGC Style"
	AdTypeCinematic       AdType = "Cinematic Ad"
	AdTypeProductShowcase AdType = "Product Showcase"
	AdTypeLifestyle       AdType = "Lifestyle"
	AdTypeAnimation3D     AdType = "3D Animation"
	AdTypeLuxury          AdType = "Luxury"
	AdTypeMinimal         AdType = "Minimalist"
	AdTypeTestimonial     AdType = "Testimonial"
	AdTypeSocialShort     AdType = "Social Media Short"
)

// Model is a downstream generation target. The brief carries per-model
// vocabulary hints so the produced prompt speaks the target's dialect.
type Model string

const (
	ModelSora2       Model = "OpenAI Sora 2"
	ModelVeo3        Model = "Google Veo 3.1"
	ModelMidjourney  Model = "Midjourney V6"
	ModelRunway      Model = "Runway Gen-3"
	ModelLuma        Model = "Luma Dream Machine"
	ModelStableVideo Model = "Stable Video Diffusion"
	ModelFlux        Model = "Flux.1"
	ModelDalle3      Model = "DALL-E 3"
)

// Style is a visual treatment layered on top of the archetype.
type Style string

const (
	StyleModern        Style = "Modern"
	StyleFuturistic    Style = "Futuristic"
	StyleVintage       Style = "Vintage"
	StyleRealistic     Style = "Photorealistic"
	StyleAnime         Style = "Anime"
	StyleNeonCyberpunk Style = "Neon Cyberpunk"
	StyleHighFashion   Style = "High Fashion"
	StylePlayful       Style = "Playful & Colorful"
)

// AspectRatio values are the UI-facing labels; RatioString maps them to
// the wire format the image API expects.
type AspectRatio string

const (
	RatioVertical  AspectRatio = "9:16"
	RatioLandscape AspectRatio = "16:9"
	RatioSquare    AspectRatio = "1:1"
	RatioPortrait  AspectRatio = "4:5"
	RatioUltrawide AspectRatio = "21:9"
	RatioCustom    AspectRatio = "Custom"
)

// RatioString is the single enum-to-wire mapping. Anything unrecognized
// (including Custom) degrades to landscape rather than erroring.
func RatioString(r AspectRatio) string {
	switch r {
	case RatioVertical:
		return "9:16"
	case RatioLandscape:
		return "16:9"
	case RatioSquare:
		return "1:1"
	case RatioPortrait:
		return "4:5"
	case RatioUltrawide:
		return "21:9"
	default:
		return "16:9"
	}
}

type creativeDNA struct {
	Visuals  string
	Camera   string
	Lighting string
}

var adTypeDefinitions = map[AdType]creativeDNA{
	AdTypeUGC: {
		Visuals:  "Shot on iPhone 15 Pro Max. Vertical 9:16. 4K 60fps. Authentic, raw, unpolished, digital noise, 'social media' look. NOT CINEMATIC.",
		Camera:   "Handheld selfie mode, POV, snap zooms, slight shake, authentic framing.",
		Lighting: "Natural window light, ring light, uneven shadows, real-world mix.",
	},
	AdTypeCinematic: {
		Visuals:  "Shot on Arri Alexa LF. Anamorphic lens. Film grain. Teal & Orange grade. High dynamic range. Shallow depth of field.",
		Camera:   "Gimbal smooth, dolly push-in, parallax slide, steadycam, rack focus.",
		Lighting: "Volumetric fog, rembrandt lighting, moody contrast.",
	},
	AdTypeProductShowcase: {
		Visuals:  "8K Macro photography. Infinite background. Liquid simulation. Extremely sharp textures. Flawless rendering.",
		Camera:   "Slow orbit, probe lens macro, smooth pan, fixed focal length.",
		Lighting: "Studio softbox, three-point lighting, caustic reflections, high-key.",
	},
	AdTypeLifestyle: {
		Visuals:  "High-end commercial. Golden hour. Happy people. Natural saturation. Aspirational vibe.",
		Camera:   "Medium shots, stabilized handheld, following subject, eye level.",
		Lighting: "Sunlight, lens flares, soft fill, warm tones.",
	},
	AdTypeAnimation3D: {
		Visuals:  "Octane Render. Unreal Engine 5. Subsurface scattering. Physics simulation. Particle effects.",
		Camera:   "Impossible angles, fly-through, speed ramps, looping motion.",
		Lighting: "Global illumination, neon emission, studio HDRI.",
	},
	AdTypeLuxury: {
		Visuals:  "Vogue editorial. Velvet/Gold/Marble textures. Deep blacks. Slow motion (120fps).",
		Camera:   "Slow pans, static symmetry, low angle, macro texture.",
		Lighting: "Low key, silhouette, glinting reflections, chiaroscuro.",
	},
	AdTypeMinimal: {
		Visuals:  "Bauhaus design. Negative space. Pastel colors. Geometric. Flat lay.",
		Camera:   "Top-down bird's eye, static tripod, slow zoom out.",
		Lighting: "Flat even lighting, soft shadows, ambient occlusion.",
	},
	AdTypeTestimonial: {
		Visuals:  "Interview setting. Head and shoulders. Blurred office background. Broadcast quality.",
		Camera:   "Static tripod, rule of thirds, eye contact.",
		Lighting: "Key light, separation light, professional setup.",
	},
	AdTypeSocialShort: {
		Visuals:  "Fast paced. Split screens. Bold overlays. High saturation. Meme aesthetic.",
		Camera:   "Whip pans, crash zooms, chaotic energy.",
		Lighting: "Bright pop, colorful LED, high contrast.",
	},
}

var modelHints = map[Model]string{
	ModelSora2:       "Sora responds to long physics-aware scene descriptions: specify materials, weight, momentum, and how objects interact. Timeline markers and continuous camera paths work well.",
	ModelVeo3:        "Veo follows explicit cinematography vocabulary: name the lens, the camera move, and the lighting setup. Supports native audio cues; call out diegetic sound and dialogue timing.",
	ModelMidjourney:  "Midjourney wants comma-separated visual keywords plus parameter flags (--ar, --style raw). Front-load the subject; keep the prompt under 350 words.",
	ModelRunway:      "Runway Gen-3 favors short, motion-first prompts: lead with the camera movement, then the subject, then the aesthetic. Avoid nested clauses.",
	ModelLuma:        "Luma Dream Machine rewards simple subject-action-setting phrasing with one clearly described camera move per shot.",
	ModelStableVideo: "Stable Video Diffusion animates a strong still-image description; describe the key frame in detail and the motion sparingly.",
	ModelFlux:        "Flux.1 excels at typography-free photorealism; spell out lighting direction, color palette, and texture detail.",
	ModelDalle3:      "DALL-E 3 follows full natural-language sentences; state composition and style explicitly rather than using keyword lists.",
}

var styleHints = map[Style]string{
	StyleModern:        "Clean contemporary look, restrained palette, current-season art direction.",
	StyleFuturistic:    "Sleek sci-fi surfaces, holographic accents, cool color temperature.",
	StyleVintage:       "Film stock emulation, faded grade, period-correct props and wardrobe.",
	StyleRealistic:     "Photoreal rendering, physically plausible materials and optics.",
	StyleAnime:         "Cel-shaded animation language, expressive motion lines, bold keyframes.",
	StyleNeonCyberpunk: "Neon-soaked night city, rain reflections, high-contrast magenta/cyan.",
	StyleHighFashion:   "Editorial posing, dramatic styling, gallery-grade art direction.",
	StylePlayful:       "Saturated pops of color, bouncy motion, toy-like charm.",
}

// adTypeDNA resolves an archetype's creative DNA. Unknown archetypes
// degrade to empty fragments so a stale selection never fails a request.
func adTypeDNA(t AdType) creativeDNA {
	if dna, ok := adTypeDefinitions[t]; ok {
		return dna
	}
	return creativeDNA{}
}

func modelHint(m Model) string {
	return modelHints[m]
}

func styleHint(s Style) string {
	return styleHints[s]
}
