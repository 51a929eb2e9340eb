package cmd

import (
	"fmt"

	"github.com/matheuskafuri/newsticker/internal/config"
	"github.com/matheuskafuri/newsticker/internal/logger"
	"github.com/matheuskafuri/newsticker/internal/news"
	"github.com/matheuskafuri/newsticker/internal/source"
	"github.com/matheuskafuri/newsticker/internal/tui"
	"github.com/spf13/cobra"
)

func runTicker(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	defer setupLogging()()

	svc := cfg.Service()
	if flagService != "" {
		svc, err = news.ParseService(flagService)
		if err != nil {
			return err
		}
	}

	src, closeCache, err := openSource(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	return tui.Run(tui.RunOpts{
		State:           source.NewState(svc, source.EmptyPolicy(cfg.EmptyPolicy)),
		Resolver:        src,
		RefreshInterval: cfg.RefreshDuration(),
		FrameInterval:   cfg.FrameDuration(),
		Logger:          logger.Component("tui"),
	})
}
