package director

// Catalog of the discrete choices exposed by the configuration panels.
// Order matters: these slices drive the UI directly.

func AdTypes() []AdType {
	return []AdType{
		AdTypeUGC,
		AdTypeCinematic,
		AdTypeProductShowcase,
		AdTypeLifestyle,
		AdTypeAnimation3D,
		AdTypeLuxury,
		AdTypeMinimal,
		AdTypeTestimonial,
		AdTypeSocialShort,
	}
}

func Models() []Model {
	return []Model{
		ModelSora2,
		ModelVeo3,
		ModelMidjourney,
		ModelRunway,
		ModelLuma,
		ModelStableVideo,
		ModelFlux,
		ModelDalle3,
	}
}

func Styles() []Style {
	return []Style{
		StyleModern,
		StyleFuturistic,
		StyleVintage,
		StyleRealistic,
		StyleAnime,
		StyleNeonCyberpunk,
		StyleHighFashion,
		StylePlayful,
	}
}

func AspectRatios() []AspectRatio {
	return []AspectRatio{
		RatioVertical,
		RatioLandscape,
		RatioSquare,
		RatioPortrait,
		RatioUltrawide,
		RatioCustom,
	}
}

func VideoDurations() []int {
	return []int{5, 8, 10, 12, 15, 20, 30, 60}
}

func CameraMovements() []string {
	return []string{
		"Cinematic Push-In",
		"Slow Pull-Back",
		"Dynamic Orbit",
		"FPV Drone Fly-Through",
		"Low Angle Tracking",
		"Handheld Chaos (UGC)",
		"Top-Down Bird's Eye",
		"Crash Zoom",
		"Parallax Slider",
		"Whip Pan Transition",
	}
}

func LightingMoods() []string {
	return []string{
		"Soft Studio",
		"Natural Daylight",
		"Dramatic Contrast",
		"Neon Cyberpunk",
		"Golden Hour",
		"Dark & Moody",
		"Bright High-Key",
		"Volumetric Fog",
	}
}
