package model

type Theme struct {
	Background        string  `json:"background"`
	BackgroundImage   string  `json:"backgroundImage,omitempty"`
	BackgroundHTML    string  `json:"backgroundHtml,omitempty"`
	GlowColor         string  `json:"glowColor"`
	PanelTransparency float64 `json:"panelTransparency"`
	InterfaceFont     string  `json:"interfaceFont"`
	ThemeBrightness   float64 `json:"themeBrightness"`
	AccentColor       string  `json:"accentColor"`
}

func DefaultTheme() Theme {
	return Theme{
		Background:        "linear-gradient(to bottom right, #09090b, #18181b)",
		GlowColor:         "#3b82f6",
		PanelTransparency: 0.8,
		InterfaceFont:     "Inter",
		ThemeBrightness:   0,
		AccentColor:       "#3b82f6",
	}
}

type CustomFont struct {
	Name string `json:"name"`
	// Data is a data: URL of the font file.
	Data string `json:"data"`
}

// Link is a user quick-link, mirrored to the remote link registry.
type Link struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type AppState struct {
	Theme       Theme        `json:"theme"`
	GridEnabled bool         `json:"gridEnabled"`
	SnapToGrid  bool         `json:"snapToGrid"`
	CustomFonts []CustomFont `json:"customFonts"`
	CustomLinks []Link       `json:"customLinks"`
	Language    Language     `json:"language"`
}

func DefaultAppState(lang Language) AppState {
	return AppState{
		Theme:       DefaultTheme(),
		GridEnabled: true,
		SnapToGrid:  true,
		CustomFonts: []CustomFont{},
		CustomLinks: []Link{},
		Language:    lang,
	}
}

func (s AppState) Clone() AppState {
	fonts := make([]CustomFont, len(s.CustomFonts))
	copy(fonts, s.CustomFonts)
	links := make([]Link, len(s.CustomLinks))
	copy(links, s.CustomLinks)
	s.CustomFonts = fonts
	s.CustomLinks = links
	return s
}
