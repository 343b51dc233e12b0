// ABOUTME: Root Cobra command for insight CLI.
// ABOUTME: Wires config, entry store, memory cache, and Charm remote per run.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/insight/internal/cache"
	"github.com/harperreed/insight/internal/charm"
	"github.com/harperreed/insight/internal/config"
	"github.com/harperreed/insight/internal/engine"
	"github.com/harperreed/insight/internal/memory"
	"github.com/harperreed/insight/internal/storage"
)

var (
	cfg         *config.Config
	entryStore  storage.EntryStore
	memCache    *cache.Badger
	remoteStore *charm.Remote
	memStore    *memory.Store
	eng         *engine.Engine
	logger      *log.Logger

	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "insight",
	Short: "Health insight engine: composite scoring and longitudinal memory",
	Long: `Insight turns a noisy, gap-filled stream of daily health metrics into a
composite 0-100 score with a tier, and keeps a bounded longitudinal
memory of each subject's patterns for personalizing future analyses.

QUICK START:

  $ insight add sleep_hours 7.4           # Log today's sleep
  $ insight add hrv 52                    # Log heart-rate variability
  $ insight import entries.json           # Bulk-load a daily series
  $ insight score                         # Composite score and tier
  $ insight analyze narrative.json        # Fold an analysis into memory
  $ insight memory show                   # Inspect the memory snapshot

METRICS:

  sleep_hours, deep_sleep_hours, rem_sleep_hours, resting_hr, hrv,
  steps, active_calories, vo2max, readiness, strain

  A value of zero means "no reading", never a true zero. Samples outside
  each metric's plausible range are discarded before any statistics.

PERSISTENCE:

  Memory writes always land in the local cache first. With a linked
  Charm account the document is also pushed to Charm Cloud best-effort;
  without one, everything runs cache-only.

MCP INTEGRATION:

  Run 'insight mcp' to start the Model Context Protocol server for use
  with Claude Desktop or other MCP-compatible AI assistants.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}

		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "insight"})

		entryStore, err = cfg.OpenStorage()
		if err != nil {
			return err
		}

		memCache, err = cache.Open(cfg.CacheDir())
		if err != nil {
			return fmt.Errorf("open memory cache: %w", err)
		}

		// Unauthenticated or remote-disabled runs stay cache-only.
		var remote memory.Remote
		subject := "local"
		if cfg.RemoteEnabled() {
			r, err := charm.Dial()
			if err != nil {
				logger.Debug("charm unavailable, running cache-only", "err", err)
			} else {
				remoteStore = r
				remote = r
				if id, err := r.SubjectID(); err == nil {
					subject = id
				}
			}
		}

		memStore = memory.NewStore(memCache, remote, logger)
		eng = engine.New(entryStore, memStore, engine.Options{
			Subject:     subject,
			DisplayName: cfg.DisplayName,
			DataSource:  cfg.GetDataSource(),
		})
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if memStore != nil {
			memStore.Flush()
		}
		if remoteStore != nil {
			_ = remoteStore.Close()
		}
		if memCache != nil {
			_ = memCache.Close()
		}
		if entryStore != nil {
			return entryStore.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "override data directory")
}
