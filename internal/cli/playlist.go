package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tejashwikalptaru/etherealwaves/internal/app"
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
)

func playlistCommand(factory Factory) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Create, edit and order playlists",
		Commands: []*cli.Command{
			{
				Name:      "new",
				Usage:     "Create an empty playlist",
				ArgsUsage: "[name]",
				Action:    withApp(factory, newPlaylist),
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List playlists in navigation order",
				Action:  withApp(factory, listPlaylists),
			},
			{
				Name:      "show",
				Usage:     "List the tracks of a playlist",
				ArgsUsage: "<id>",
				Action:    withApp(factory, showPlaylist),
			},
			{
				Name:      "rename",
				Usage:     "Rename a playlist",
				ArgsUsage: "<id> <name>",
				Action: withPlaylist(factory, 2, "<id> <name>", func(cmd *cli.Command, a *app.Application, id uint32) error {
					_, playlists, _ := a.Services()
					return playlists.Rename(id, strings.Join(cmd.Args().Tail(), " "))
				}),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a playlist",
				ArgsUsage: "<id>",
				Action: withPlaylist(factory, 1, "<id>", func(cmd *cli.Command, a *app.Application, id uint32) error {
					_, playlists, _ := a.Services()
					return playlists.Delete(id)
				}),
			},
			{
				Name:      "add",
				Usage:     "Append library tracks to a playlist",
				ArgsUsage: "<id> <file...>",
				Action: withPlaylist(factory, 2, "<id> <file...>", func(cmd *cli.Command, a *app.Application, id uint32) error {
					paths := make([]string, 0, cmd.Args().Len()-1)
					for _, p := range cmd.Args().Tail() {
						abs, err := filepath.Abs(p)
						if err != nil {
							return err
						}
						paths = append(paths, abs)
					}
					_, playlists, _ := a.Services()
					return playlists.AddTracks(id, paths...)
				}),
			},
			{
				Name:      "remove",
				Usage:     "Remove the track at a position shown by show",
				ArgsUsage: "<id> <position>",
				Action: withPlaylist(factory, 2, "<id> <position>", func(cmd *cli.Command, a *app.Application, id uint32) error {
					pos, err := strconv.Atoi(cmd.Args().Get(1))
					if err != nil {
						return domain.NewValidationError("position", cmd.Args().Get(1), "must be a number")
					}
					_, playlists, _ := a.Services()
					return playlists.RemoveTrack(id, pos-1)
				}),
			},
			{
				Name:      "sort",
				Usage:     "Sort the tracks of a playlist; for the library this sets the view order",
				ArgsUsage: "<id>",
				Flags:     sortFlags,
				Action: withPlaylist(factory, 1, "<id>", func(cmd *cli.Command, a *app.Application, id uint32) error {
					_, playlists, settings := a.Services()
					by, dir, err := sortOrder(cmd, settings.State())
					if err != nil {
						return err
					}
					return playlists.Sort(id, by, dir)
				}),
			},
			{
				Name:      "move",
				Usage:     "Move a playlist up or down the navigation list",
				ArgsUsage: "<id> up|down [steps]",
				Action:    withPlaylist(factory, 2, "<id> up|down [steps]", movePlaylist),
			},
		},
	}
}

// withPlaylist parses the playlist ID in the first argument.
func withPlaylist(factory Factory, nargs int, usage string, action func(*cli.Command, *app.Application, uint32) error) cli.ActionFunc {
	return withApp(factory, func(ctx context.Context, cmd *cli.Command, a *app.Application) error {
		if err := needArgs(cmd, nargs, usage); err != nil {
			return err
		}
		id, err := parsePlaylistID(cmd.Args().First())
		if err != nil {
			return err
		}
		return action(cmd, a, id)
	})
}

func newPlaylist(ctx context.Context, cmd *cli.Command, a *app.Application) error {
	_, playlists, _ := a.Services()
	p, err := playlists.Create(strings.Join(cmd.Args().Slice(), " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout(cmd), translator(cmd, a).T("playlist-created", map[string]any{"name": p.Name}))
	fmt.Fprintln(stdout(cmd), formatPlaylistID(p.ID))
	return nil
}

func listPlaylists(ctx context.Context, cmd *cli.Command, a *app.Application) error {
	_, playlists, _ := a.Services()
	tr := translator(cmd, a)

	w := newTable(stdout(cmd))
	for _, p := range playlists.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", formatPlaylistID(p.ID), p.Name, tr.T("track-count", map[string]any{"count": p.Len()}))
	}
	return w.Flush()
}

func showPlaylist(ctx context.Context, cmd *cli.Command, a *app.Application) error {
	if err := needArgs(cmd, 1, "<id>"); err != nil {
		return err
	}
	id, err := parsePlaylistID(cmd.Args().First())
	if err != nil {
		return err
	}
	_, playlists, _ := a.Services()
	p, err := playlists.Get(id)
	if err != nil {
		return err
	}
	return printTracks(stdout(cmd), translator(cmd, a), p.Tracks, true)
}

func movePlaylist(cmd *cli.Command, a *app.Application, id uint32) error {
	steps := 1
	if s := cmd.Args().Get(2); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return domain.NewValidationError("steps", s, "must be a positive number")
		}
		steps = n
	}

	switch strings.ToLower(cmd.Args().Get(1)) {
	case "up":
		steps = -steps
	case "down":
	default:
		return domain.NewValidationError("direction", cmd.Args().Get(1), "must be up or down")
	}

	_, playlists, _ := a.Services()
	return playlists.Move(id, steps)
}
