// Package cli is the ethereal-waves command line. It drives the library,
// playlist and settings services and exposes the message catalog for
// translators.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tejashwikalptaru/etherealwaves/internal/app"
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/i18n"
)

// Name is the binary name.
const Name = "ethereal-waves"

// Factory builds the application for commands that need it. The command
// shuts it down when done.
type Factory func() (*app.Application, error)

// AppAction is an action that runs against a loaded application.
type AppAction func(ctx context.Context, cmd *cli.Command, a *app.Application) error

// New returns the root command.
func New(factory Factory) *cli.Command {
	return &cli.Command{
		Name:    Name,
		Usage:   "Music library and playlist manager",
		Version: app.GetVersionInfo().DisplayVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Usage:   "Language for output, e.g. nl or fr-BE. Defaults to the desktop language",
			},
		},
		Commands: []*cli.Command{
			messagesCommand(),
			libraryCommand(factory),
			playlistCommand(factory),
			settingsCommand(factory),
			keysCommand(factory),
			versionCommand(factory),
		},
	}
}

// withApp builds the application, runs action and shuts the application down.
func withApp(factory Factory, action AppAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		a, err := factory()
		if err != nil {
			return err
		}
		defer a.Shutdown()
		return action(ctx, cmd, a)
	}
}

// translator renders output in the --lang language when set, otherwise in
// the application's negotiated language.
func translator(cmd *cli.Command, a *app.Application) *i18n.Localizer {
	if lang := cmd.Root().String("lang"); lang != "" {
		return a.Catalog().Localizer(lang)
	}
	return a.Translator()
}

// requestedLanguages is --lang when set, the desktop languages otherwise.
func requestedLanguages(cmd *cli.Command) []string {
	if lang := cmd.Root().String("lang"); lang != "" {
		return []string{lang}
	}
	return i18n.RequestedLanguages()
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// needArgs fails unless cmd got at least n arguments.
func needArgs(cmd *cli.Command, n int, usage string) error {
	if cmd.Args().Len() < n {
		return fmt.Errorf("%s: missing arguments, usage: %s %s", cmd.Name, cmd.Name, usage)
	}
	return nil
}

// parsePlaylistID accepts a numeric ID or "library".
func parsePlaylistID(s string) (uint32, error) {
	if strings.EqualFold(s, "library") {
		return domain.LibraryPlaylistID, nil
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, domain.NewValidationError("id", s, "playlist id must be a number or \"library\"")
	}
	return uint32(id), nil
}

func formatPlaylistID(id uint32) string {
	if id == domain.LibraryPlaylistID {
		return "library"
	}
	return strconv.FormatUint(uint64(id), 10)
}

func versionCommand(factory Factory) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version and build information",
		Action: withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
			for _, line := range app.GetVersionInfo().Describe(translator(cmd, a)) {
				fmt.Fprintln(stdout(cmd), line)
			}
			return nil
		}),
	}
}
