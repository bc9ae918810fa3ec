package cli

import (
	"encoding/base64"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"spatial-notepad/internal/model"

	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Application preferences (theme, grid, language, fonts, links)",
	}
	cmd.AddCommand(newPrefsShowCmd(app))
	cmd.AddCommand(newPrefsToggleCmd(app, "grid", "Show or hide the canvas grid", func(st model.AppState) bool { return st.GridEnabled }, func(s *session) bool { return s.prefs.ToggleGrid() }))
	cmd.AddCommand(newPrefsToggleCmd(app, "snap", "Enable or disable snapping to the grid", func(st model.AppState) bool { return st.SnapToGrid }, func(s *session) bool { return s.prefs.ToggleSnap() }))
	cmd.AddCommand(newPrefsLangCmd(app))
	cmd.AddCommand(newPrefsThemeCmd(app))
	cmd.AddCommand(newPrefsBackgroundCmd(app))
	cmd.AddCommand(newPrefsFontCmd(app))
	cmd.AddCommand(newPrefsLinksCmd(app))
	return cmd
}

func newPrefsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				return s.prefs.State(), nil
			})
		},
	}
}

// newPrefsToggleCmd builds `prefs <name> [on|off]`. Without an argument the
// setting is flipped.
func newPrefsToggleCmd(app *App, name, short string, get func(model.AppState) bool, toggle func(*session) bool) *cobra.Command {
	return &cobra.Command{
		Use:       name + " [on|off]",
		Short:     short,
		Args:      cobra.RangeArgs(0, 1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var want *bool
			if len(args) == 1 {
				v, err := parseOnOff(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				want = &v
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				on := get(s.prefs.State())
				if want == nil || *want != on {
					on = toggle(s)
				}
				return map[string]any{name: on}, nil
			})
		},
	}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, errUsage("expected on|off, got %q", s)
	}
}

func newPrefsLangCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "lang [en|ru]",
		Short:     "Set or toggle the language of generated labels",
		Args:      cobra.RangeArgs(0, 1),
		ValidArgs: []string{string(model.LanguageEN), string(model.LanguageRU)},
		RunE: func(cmd *cobra.Command, args []string) error {
			var lang model.Language
			if len(args) == 1 {
				l, err := model.ParseLanguage(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				lang = l
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				if lang == "" {
					lang = s.prefs.ToggleLanguage()
				} else {
					s.prefs.SetLanguage(lang)
				}
				return map[string]any{"language": lang}, nil
			})
		},
	}
}

func newPrefsThemeCmd(app *App) *cobra.Command {
	var background, glow, accent, font string
	var transparency, brightness float64
	var reset bool

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Change theme colors and fonts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if transparency < 0 || transparency > 1 {
				return writeErr(cmd, errUsage("--panel-transparency must be within 0..1"))
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				t := s.prefs.State().Theme
				if reset {
					t = model.DefaultTheme()
				}
				if f.Changed("background") {
					t.Background = background
				}
				if f.Changed("glow") {
					t.GlowColor = glow
				}
				if f.Changed("accent") {
					t.AccentColor = accent
				}
				if f.Changed("font") {
					t.InterfaceFont = font
				}
				if f.Changed("panel-transparency") {
					t.PanelTransparency = transparency
				}
				if f.Changed("brightness") {
					t.ThemeBrightness = brightness
				}
				s.prefs.SetTheme(t)
				return t, nil
			})
		},
	}

	cmd.Flags().StringVar(&background, "background", "", "CSS background")
	cmd.Flags().StringVar(&glow, "glow", "", "Glow color")
	cmd.Flags().StringVar(&accent, "accent", "", "Accent color")
	cmd.Flags().StringVar(&font, "font", "", "Interface font family")
	cmd.Flags().Float64Var(&transparency, "panel-transparency", 0, "Panel transparency (0..1)")
	cmd.Flags().Float64Var(&brightness, "brightness", 0, "Theme brightness")
	cmd.Flags().BoolVar(&reset, "reset", false, "Start from the default theme")
	return cmd
}

func newPrefsBackgroundCmd(app *App) *cobra.Command {
	var image, html string

	cmd := &cobra.Command{
		Use:   "background",
		Short: "Set a background image or an HTML background (one replaces the other)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			imageSet := cmd.Flags().Changed("image")
			htmlSet := cmd.Flags().Changed("html")
			switch {
			case imageSet && htmlSet:
				return writeErr(cmd, errUsage("provide exactly one of --image or --html"))
			case !imageSet && !htmlSet:
				return writeErr(cmd, errUsage("missing --image or --html"))
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				if imageSet {
					s.prefs.SetBackgroundImage(image)
				} else {
					s.prefs.SetBackgroundHTML(html)
				}
				return s.prefs.State().Theme, nil
			})
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "Image URL (empty clears)")
	cmd.Flags().StringVar(&html, "html", "", "HTML snippet (empty clears)")
	return cmd
}

func newPrefsFontCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "font",
		Short: "Custom font commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <file>",
		Short: "Embed a font file as a data URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := fontDataURL(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			f := model.CustomFont{Name: strings.TrimSpace(args[0]), Data: url}
			if f.Name == "" {
				return writeErr(cmd, errUsage("font name is empty"))
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				s.prefs.AddCustomFont(f)
				return map[string]any{"name": f.Name, "bytes": len(f.Data)}, nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List custom font names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				names := make([]string, 0)
				for _, f := range s.prefs.State().CustomFonts {
					names = append(names, f.Name)
				}
				return names, nil
			})
		},
	})
	return cmd
}

func fontDataURL(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	typ := mime.TypeByExtension(filepath.Ext(path))
	if typ == "" {
		typ = http.DetectContentType(b)
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

func newPrefsLinksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Quick-link commands (mirrored to the link registry)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List quick-links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				return s.prefs.State().CustomLinks, nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add a quick-link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" || strings.TrimSpace(args[1]) == "" {
				return writeErr(cmd, errUsage("name and url must not be empty"))
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				return s.prefs.AddCustomLink(cmd.Context(), args[0], args[1]), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <link-id>",
		Aliases: []string{"delete"},
		Short:   "Remove a quick-link",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				if !s.prefs.DeleteCustomLink(cmd.Context(), args[0]) {
					return nil, errNotFound("link", args[0])
				}
				return map[string]any{"id": args[0], "deleted": true}, nil
			})
		},
	})
	return cmd
}
