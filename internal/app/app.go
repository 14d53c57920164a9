package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/config"
	"github.com/five82/storefront/internal/demoapi"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/logtail"
	"github.com/five82/storefront/internal/prefs"
	"github.com/five82/storefront/internal/query"
	"github.com/five82/storefront/internal/ui"
)

// Options configure a storefront command. Non-zero fields override the
// config file and environment.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/storefront/prefs.toml
	APIBase    string
	Limit      int
	Locale     string

	// Stdout receives the output of the headless commands.
	Stdout io.Writer
}

// ListQuery holds the list command's controls.
type ListQuery struct {
	Search   string
	Sort     string
	Category string
}

const showConcurrency = 4

type runtime struct {
	cfg    config.Config
	log    *logging.Logger
	client *catalog.Client
	out    io.Writer
}

func setup(opts Options) (*runtime, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "init logging")
	}

	client, err := catalog.NewClient(cfg.APIBase,
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithLogger(log),
	)
	if err != nil {
		_ = log.Close()
		return nil, errors.Wrap(err, "init api client")
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &runtime{cfg: cfg, log: log, client: client, out: out}, nil
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, errors.Wrap(err, "load config")
	}
	if v := strings.TrimSpace(opts.APIBase); v != "" {
		cfg.APIBase = v
	}
	if opts.Limit > 0 {
		cfg.PageLimit = opts.Limit
	}
	if v := strings.TrimSpace(opts.Locale); v != "" {
		cfg.Locale = v
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, errors.Wrap(err, "load config")
	}
	return cfg, nil
}

// Run boots the storefront TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.log.Close()

	userPrefs := prefs.Load(opts.PrefsPath, rt.log)
	rt.log.WithFields(logrus.Fields{
		"api_base": rt.client.BaseURL(),
		"limit":    rt.cfg.PageLimit,
		"theme":    userPrefs.Theme,
	}).Info("storefront starting")

	return ui.Run(ui.Options{
		Context:   ctx,
		Fetcher:   rt.client,
		Limit:     rt.cfg.PageLimit,
		Locale:    rt.cfg.LanguageTag(),
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    rt.log,
	})
}

// List fetches the catalog once and prints the visible subset for q.
func List(ctx context.Context, opts Options, q ListQuery) error {
	sortKey, ok := query.ParseSortKey(q.Sort)
	if !ok {
		return errors.Errorf("unknown sort %q (want one of %s)", q.Sort, strings.Join(sortKeyNames(), ", "))
	}

	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.log.Close()

	items, err := rt.client.FetchCatalog(ctx, rt.cfg.PageLimit)
	if err != nil {
		return errors.Wrap(err, "fetch catalog")
	}

	category := strings.TrimSpace(q.Category)
	if category == "" {
		category = query.AllCategories
	}
	visible := query.VisibleIn(rt.cfg.LanguageTag(), items, query.Query{
		Search:   q.Search,
		Sort:     sortKey,
		Category: category,
	})

	_, err = fmt.Fprintln(rt.out, renderTable(visible, len(items)))
	return err
}

// Show fetches the given product ids concurrently and prints them in
// argument order.
func Show(ctx context.Context, opts Options, ids []string) error {
	if len(ids) == 0 {
		return errors.New("at least one product id is required")
	}
	for _, id := range ids {
		if _, err := catalog.ParseID(id); err != nil {
			return err
		}
	}

	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.log.Close()

	items := make([]catalog.Item, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(showConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			item, err := rt.client.FetchItem(gctx, id)
			if err != nil {
				return errors.Wrapf(err, "product %s", id)
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	blocks := make([]string, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, renderItem(item))
	}
	_, err = fmt.Fprintln(rt.out, strings.Join(blocks, "\n\n"))
	return err
}

// ServeDemo runs the fixture API on addr until ctx is cancelled.
func ServeDemo(ctx context.Context, opts Options, addr string) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.log.Close()

	fmt.Fprintf(rt.out, "demo api listening on %s (logs: %s)\n", addr, rt.cfg.LogFile)
	return demoapi.Serve(ctx, addr, rt.log)
}

// Logs prints the last lines entries of the storefront log file.
func Logs(opts Options, lines int) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	entries, err := logtail.Tail(cfg.LogFile, lines)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err = fmt.Fprintf(out, "no log entries in %s\n", cfg.LogFile)
		return err
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintln(out, renderLogEntry(entry)); err != nil {
			return err
		}
	}
	return nil
}

func sortKeyNames() []string {
	keys := query.SortKeys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, string(k))
	}
	return names
}
