package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matheuskafuri/newsticker/internal/config"
	"github.com/matheuskafuri/newsticker/internal/news"
	"github.com/matheuskafuri/newsticker/internal/source"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flagFetchAll  bool
	flagFetchJSON bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [service]",
	Short: "Resolve headlines once and print them",
	Long: `Run one resolve cycle (endpoint, fallback files, cache) and print the result.

Without arguments the configured default service is used. --all resolves every
service concurrently.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		defer setupLogging()()

		services := []news.Service{cfg.Service()}
		switch {
		case flagFetchAll:
			services = news.Services()
		case len(args) == 1:
			svc, err := news.ParseService(args[0])
			if err != nil {
				return err
			}
			services = []news.Service{svc}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.RequestTimeoutDuration()+fetchSlack)
		defer cancel()

		src, closeCache, err := openSource(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeCache()

		outs := resolveAll(ctx, src, services)

		if flagFetchJSON {
			return writeJSON(os.Stdout, outs)
		}
		p := newPrinter(os.Stdout)
		for i, out := range outs {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			p.outcome(out)
		}
		return nil
	},
}

// fetchSlack covers the fallback and cache stages after a slow endpoint.
const fetchSlack = 10 * time.Second

type resolver interface {
	Resolve(ctx context.Context, svc news.Service) source.Outcome
}

// resolveAll resolves services concurrently, keeping results in input order.
// Services that could not start before ctx ended come back Empty.
func resolveAll(ctx context.Context, r resolver, services []news.Service) []source.Outcome {
	outs := make([]source.Outcome, len(services))
	var g errgroup.Group
	g.SetLimit(3)
	for i, svc := range services {
		g.Go(func() error {
			if ctx.Err() != nil {
				outs[i] = source.Outcome{Kind: source.Empty, Service: svc, Offline: true, ResolvedAt: time.Now()}
				return nil
			}
			outs[i] = r.Resolve(ctx, svc)
			return nil
		})
	}
	_ = g.Wait()
	return outs
}

func init() {
	fetchCmd.Flags().BoolVar(&flagFetchAll, "all", false, "resolve every service")
	fetchCmd.Flags().BoolVar(&flagFetchJSON, "json", false, "print JSON instead of text")
}
