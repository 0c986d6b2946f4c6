package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tejashwikalptaru/etherealwaves/internal/app"
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/keybind"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

func settingsCommand(factory Factory) *cli.Command {
	return &cli.Command{
		Name:   "settings",
		Usage:  "Show and change preferences",
		Action: withApp(factory, showSettings),
		Commands: []*cli.Command{
			{
				Name:      "theme",
				Usage:     "Set the theme",
				ArgsUsage: "dark|light|system",
				Action: withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
					if err := needArgs(cmd, 1, "dark|light|system"); err != nil {
						return err
					}
					_, _, settings := a.Services()
					return settings.SetTheme(domain.AppTheme(strings.ToLower(cmd.Args().First())))
				}),
			},
			{
				Name:      "locale",
				Usage:     "Override the desktop language; no argument clears the override",
				ArgsUsage: "[tag]",
				Action: withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
					_, _, settings := a.Services()
					return settings.SetLocale(cmd.Args().First())
				}),
			},
			{
				Name:      "wrap",
				Usage:     "Wrap long list entries; no argument toggles",
				ArgsUsage: "[on|off]",
				Action: withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
					_, _, settings := a.Services()
					wrap := !settings.Settings().ListTextWrap
					switch cmd.Args().First() {
					case "":
					case "on":
						wrap = true
					case "off":
						wrap = false
					default:
						return domain.NewValidationError("wrap", cmd.Args().First(), "must be on or off")
					}
					if err := settings.SetListTextWrap(wrap); err != nil {
						return err
					}
					fmt.Fprintln(stdout(cmd), yesNo(translator(cmd, a), wrap))
					return nil
				}),
			},
			{
				Name:      "zoom",
				Usage:     "Change the list view size",
				ArgsUsage: "in|out",
				Action: withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
					_, _, settings := a.Services()
					var (
						level float64
						err   error
					)
					switch cmd.Args().First() {
					case "in":
						level, err = settings.ZoomIn()
					case "out":
						level, err = settings.ZoomOut()
					default:
						return domain.NewValidationError("zoom", cmd.Args().First(), "must be in or out")
					}
					if err != nil {
						return err
					}
					fmt.Fprintf(stdout(cmd), "%.2f\n", level)
					return nil
				}),
			},
		},
	}
}

func showSettings(ctx context.Context, cmd *cli.Command, a *app.Application) error {
	_, _, settings := a.Services()
	tr := translator(cmd, a)
	s, state := settings.Settings(), settings.State()

	theme := map[domain.AppTheme]string{
		domain.ThemeDark:   "dark",
		domain.ThemeLight:  "light",
		domain.ThemeSystem: "match-desktop",
	}[s.AppTheme]

	w := newTable(stdout(cmd))
	fmt.Fprintf(w, "%s\t%s\n", tr.T("theme", nil), tr.T(theme, nil))
	fmt.Fprintf(w, "locale\t%s\n", a.Catalog().Match(a.Languages()...))
	fmt.Fprintf(w, "sort\t%s %s\n", state.SortBy, state.SortDirection)
	fmt.Fprintf(w, "zoom\t%.2f\n", state.ZoomLevel)
	fmt.Fprintf(w, "%s\t%s\n", tr.T("wrap-text", nil), yesNo(tr, s.ListTextWrap))
	for i, p := range s.LibraryPaths {
		label := ""
		if i == 0 {
			label = tr.T("library-locations", nil)
		}
		fmt.Fprintf(w, "%s\t%s\n", label, p)
	}
	return w.Flush()
}

func yesNo(tr ports.Translator, v bool) string {
	if v {
		return tr.T("yes", nil)
	}
	return tr.T("no", nil)
}

func keysCommand(factory Factory) *cli.Command {
	return &cli.Command{
		Name:      "keys",
		Usage:     "Print the keyboard and pointer bindings, or look one up",
		ArgsUsage: "[shortcut]",
		Action: withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
			tr := translator(cmd, a)

			if cmd.Args().Present() {
				shortcut, err := keybind.Parse(cmd.Args().First())
				if err != nil {
					return err
				}
				action, ok := a.Keys().Lookup(&shortcut)
				if !ok {
					return fmt.Errorf("keys: %s is not bound", keybind.Format(&shortcut))
				}
				fmt.Fprintln(stdout(cmd), tr.T(action.MessageKey(), nil))
				return nil
			}

			w := newTable(stdout(cmd))
			for _, e := range a.Keys().Entries(tr) {
				fmt.Fprintf(w, "%s\t%s\n", e.Trigger, e.Label)
			}
			return w.Flush()
		}),
	}
}
