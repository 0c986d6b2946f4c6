package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"

	"github.com/tejashwikalptaru/etherealwaves/internal/i18n"
)

var dirFlag = &cli.StringFlag{
	Name:  "dir",
	Usage: "Load message files from `DIR` instead of the built-in locales",
}

// loadCatalog returns the embedded catalog, or the one in --dir.
func loadCatalog(cmd *cli.Command) (*i18n.Catalog, error) {
	if dir := cmd.String("dir"); dir != "" {
		return i18n.LoadDir(dir, language.English)
	}
	return i18n.DefaultCatalog()
}

func messagesCommand() *cli.Command {
	return &cli.Command{
		Name:    "messages",
		Aliases: []string{"msg"},
		Usage:   "Inspect the localized message tables",
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "Render one message",
				ArgsUsage: "<key> [name=value...]",
				Flags:     []cli.Flag{dirFlag},
				Action:    renderMessage,
			},
			{
				Name:   "list",
				Usage:  "List the messages of a locale in file order",
				Flags:  []cli.Flag{dirFlag},
				Action: listMessages,
			},
			{
				Name:   "check",
				Usage:  "Report keys and placeholders that differ between locales",
				Flags:  []cli.Flag{dirFlag},
				Action: checkMessages,
			},
			{
				Name:   "locales",
				Usage:  "List the loaded locales, default first",
				Flags:  []cli.Flag{dirFlag},
				Action: listLocales,
			},
		},
	}
}

func renderMessage(ctx context.Context, cmd *cli.Command) error {
	if err := needArgs(cmd, 1, "<key> [name=value...]"); err != nil {
		return err
	}
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	args := make(map[string]any)
	for _, pair := range cmd.Args().Tail() {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return fmt.Errorf("render: argument %q is not name=value", pair)
		}
		args[name] = value
	}

	out, err := catalog.Render(cmd.Args().First(), args, requestedLanguages(cmd)...)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout(cmd), out)
	return nil
}

func listMessages(ctx context.Context, cmd *cli.Command) error {
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	tag := catalog.Match(requestedLanguages(cmd)...)
	locale, _ := catalog.Locale(tag)
	w := stdout(cmd)
	for _, key := range locale.Keys() {
		msg, _ := locale.Lookup(key)
		fmt.Fprintf(w, "%s = %s\n", key, msg.Template)
	}
	return nil
}

func checkMessages(ctx context.Context, cmd *cli.Command) error {
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	issues := catalog.Check()
	for _, issue := range issues {
		fmt.Fprintln(stdout(cmd), issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("check: %d issue(s) in %d locale(s)", len(issues), len(catalog.Tags()))
	}
	fmt.Fprintf(stdout(cmd), "%d locales consistent\n", len(catalog.Tags()))
	return nil
}

func listLocales(ctx context.Context, cmd *cli.Command) error {
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	w := newTable(stdout(cmd))
	for _, tag := range catalog.Tags() {
		locale, _ := catalog.Locale(tag)
		fmt.Fprintf(w, "%s\t%d\n", tag, locale.Len())
	}
	return w.Flush()
}
