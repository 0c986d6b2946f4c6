package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tejashwikalptaru/etherealwaves/internal/app"
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

var sortFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "sort",
		Usage: "Order by artist, album or title",
	},
	&cli.BoolFlag{
		Name:  "desc",
		Usage: "Reverse the order",
	},
}

// sortOrder reads --sort and --desc, falling back to the saved order.
func sortOrder(cmd *cli.Command, saved domain.State) (domain.SortBy, domain.SortDirection, error) {
	by, dir := saved.SortBy, saved.SortDirection
	if s := cmd.String("sort"); s != "" {
		parsed, err := domain.ParseSortBy(s)
		if err != nil {
			return "", "", err
		}
		by, dir = parsed, domain.Ascending
	}
	if cmd.Bool("desc") {
		dir = domain.Descending
	}
	return by, dir, nil
}

func libraryCommand(factory Factory) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Scan and browse the music library",
		Commands: []*cli.Command{
			{
				Name:   "update",
				Usage:  "Rescan every library location",
				Action: withApp(factory, updateLibrary),
			},
			{
				Name:   "list",
				Usage:  "List indexed tracks",
				Flags:  sortFlags,
				Action: withApp(factory, listLibrary),
			},
			{
				Name:  "paths",
				Usage: "Manage library locations",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List library locations",
						Action: withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
							_, _, settings := a.Services()
							for _, p := range settings.LibraryPaths() {
								fmt.Fprintln(stdout(cmd), p)
							}
							return nil
						}),
					},
					{
						Name:      "add",
						Usage:     "Add a directory to scan",
						ArgsUsage: "<dir>",
						Action: withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
							if err := needArgs(cmd, 1, "<dir>"); err != nil {
								return err
							}
							_, _, settings := a.Services()
							return settings.AddLibraryPath(cmd.Args().First())
						}),
					},
					{
						Name:      "remove",
						Aliases:   []string{"rm"},
						Usage:     "Stop scanning a directory",
						ArgsUsage: "<dir>",
						Action: withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
							if err := needArgs(cmd, 1, "<dir>"); err != nil {
								return err
							}
							_, _, settings := a.Services()
							return settings.RemoveLibraryPath(cmd.Args().First())
						}),
					},
				},
			},
		},
	}
}

func updateLibrary(ctx context.Context, cmd *cli.Command, a *app.Application) error {
	library, _, settings := a.Services()
	tr := translator(cmd, a)

	paths := settings.LibraryPaths()
	if len(paths) == 0 {
		fmt.Fprintln(stdout(cmd), tr.T("add-music", nil))
		return nil
	}

	bus := a.EventBus()
	sub := bus.Subscribe(domain.EventScanProgress, func(e domain.Event) {
		p := e.(domain.ScanProgressEvent).Progress
		fmt.Fprintln(stderr(cmd), tr.T("scan-progress", map[string]any{
			"scanned": p.FilesScanned,
			"total":   p.TotalFiles,
		}))
	})
	defer bus.Unsubscribe(sub)

	fmt.Fprintln(stderr(cmd), tr.T("updating-library", nil))
	summary, err := library.Update(ctx, paths)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(stderr(cmd), tr.T("scan-cancelled", nil))
		}
		return err
	}

	fmt.Fprintln(stdout(cmd), tr.T("scan-complete", map[string]any{
		"count":   summary.TracksFound,
		"elapsed": summary.Elapsed.Round(time.Millisecond).String(),
	}))
	return nil
}

func listLibrary(ctx context.Context, cmd *cli.Command, a *app.Application) error {
	library, _, settings := a.Services()
	by, dir, err := sortOrder(cmd, settings.State())
	if err != nil {
		return err
	}
	return printTracks(stdout(cmd), translator(cmd, a), library.Tracks(by, dir), false)
}

// printTracks writes a track table, optionally numbered from 1.
func printTracks(out io.Writer, tr ports.Translator, tracks []domain.Track, numbered bool) error {
	w := newTable(out)
	header := fmt.Sprintf("%s\t%s\t%s\t%s", tr.T("title", nil), tr.T("artist", nil), tr.T("album", nil), tr.T("path", nil))
	if numbered {
		header = "#\t" + header
	}
	fmt.Fprintln(w, header)

	for i, t := range tracks {
		artist, album := t.Artist, t.Album
		if artist == "" {
			artist = tr.T("unknown-artist", nil)
		}
		if album == "" {
			album = tr.T("unknown-album", nil)
		}
		row := fmt.Sprintf("%s\t%s\t%s\t%s", t.DisplayTitle(tr.T("unknown-title", nil)), artist, album, t.Path)
		if numbered {
			row = fmt.Sprintf("%d\t%s", i+1, row)
		}
		fmt.Fprintln(w, row)
	}
	return w.Flush()
}
