package cmd

import (
	"fmt"
	"time"

	"github.com/matheuskafuri/newsticker/internal/cache"
	"github.com/matheuskafuri/newsticker/internal/config"
	"github.com/spf13/cobra"
)

var flagPruneOlderThan string

// openSQLite opens the on-disk cache for maintenance commands.
func openSQLite() (*cache.SQLite, string, *config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, "", nil, fmt.Errorf("loading config: %w", err)
	}
	if b := cfg.Cache.Backend; b != "" && b != "sqlite" {
		return nil, "", nil, fmt.Errorf("cache maintenance needs the sqlite backend (configured: %s)", b)
	}
	dbPath := cfg.CachePath()
	db, err := cache.Open(dbPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("opening cache: %w", err)
	}
	return db, dbPath, cfg, nil
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired entries from the local cache",
	Long: `Delete cached headline lists written longer ago than the cache TTL and
reclaim disk space.

Uses cache_ttl from config (default: 1h) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, cfg, err := openSQLite()
		if err != nil {
			return err
		}
		defer db.Close()

		olderThan := cfg.CacheTTLDuration()
		if flagPruneOlderThan != "" {
			d, err := parseSince(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			olderThan = d
		}

		deleted, err := db.Prune(olderThan)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d cache entries older than %s.\n", deleted, formatDuration(olderThan))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, dbPath, _, err := openSQLite()
		if err != nil {
			return err
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Entries: %d\n", count)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override the cache TTL (e.g., 2h, 7d)")
}

func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if h := int(d.Hours()); h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
