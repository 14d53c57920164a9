package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/five82/storefront/internal/app"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "storefront",
		Usage: "browse a product catalog in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config file (.toml, .yaml)", Value: ""},
			&cli.StringFlag{Name: "prefs", Usage: "preferences file", Value: ""},
			&cli.StringFlag{Name: "api-base", Usage: "products API base URL"},
			&cli.IntFlag{Name: "limit", Usage: "number of products to fetch"},
			&cli.StringFlag{Name: "locale", Usage: "collation locale for title sorting"},
		},
		Action: func(c *cli.Context) error {
			return app.Run(c.Context, options(c))
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "print the catalog as a table",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "match title or description"},
					&cli.StringFlag{Name: "sort", Value: "title-ascending", Usage: "title-ascending, price-ascending or price-descending"},
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Value: "all", Usage: "exact category or all"},
				},
				Action: func(c *cli.Context) error {
					return app.List(c.Context, options(c), app.ListQuery{
						Search:   c.String("search"),
						Sort:     c.String("sort"),
						Category: c.String("category"),
					})
				},
			},
			{
				Name:      "show",
				Usage:     "print one or more products",
				ArgsUsage: "ID...",
				Action: func(c *cli.Context) error {
					return app.Show(c.Context, options(c), c.Args().Slice())
				},
			},
			{
				Name:  "demo-api",
				Usage: "serve the built-in fixture catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address"},
				},
				Action: func(c *cli.Context) error {
					return app.ServeDemo(c.Context, options(c), c.String("addr"))
				},
			},
			{
				Name:  "logs",
				Usage: "print recent log entries",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "lines", Aliases: []string{"n"}, Value: 50, Usage: "number of entries"},
				},
				Action: func(c *cli.Context) error {
					return app.Logs(options(c), c.Int("lines"))
				},
			},
		},
	}
}

// options collects the global flags. Subcommand contexts see the parent's
// flags through Lineage.
func options(c *cli.Context) app.Options {
	return app.Options{
		ConfigPath: lookupString(c, "config"),
		PrefsPath:  lookupString(c, "prefs"),
		APIBase:    lookupString(c, "api-base"),
		Limit:      lookupInt(c, "limit"),
		Locale:     lookupString(c, "locale"),
	}
}

func lookupString(c *cli.Context, name string) string {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx.String(name)
		}
	}
	return ""
}

func lookupInt(c *cli.Context, name string) int {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx.Int(name)
		}
	}
	return 0
}
