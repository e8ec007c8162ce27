// Package mcp wires a rule system onto an MCP stdio server so an AI warden
// can run the table.
package mcp

import (
	"context"
	"flag"
	"fmt"

	"github.com/louisbranch/airlock/internal/mcp"
	"github.com/louisbranch/airlock/internal/platform/config"
	"github.com/louisbranch/airlock/internal/storage"
	"github.com/louisbranch/airlock/internal/storage/sqlite"
	"github.com/louisbranch/airlock/internal/systems"
	"github.com/louisbranch/airlock/internal/telemetry"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath      string `env:"AIRLOCK_DB"`
	System      string `env:"AIRLOCK_SYSTEM"       envDefault:"mothership"`
	Seed        int64  `env:"AIRLOCK_SEED"`
	GameName    string `env:"AIRLOCK_GAME_NAME"`
	CampaignDir string `env:"AIRLOCK_CAMPAIGN_DIR"`
	Campaign    string `env:"AIRLOCK_CAMPAIGN"`
}

// ParseConfig parses environment defaults and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite database (empty disables save/load)")
	fs.StringVar(&cfg.System, "system", cfg.System, "rule system to run")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed (0 picks a random seed)")
	fs.StringVar(&cfg.GameName, "name", cfg.GameName, "display name for the game")
	fs.StringVar(&cfg.CampaignDir, "campaigns", cfg.CampaignDir, "directory of campaign module documents")
	fs.StringVar(&cfg.Campaign, "campaign", cfg.Campaign, "campaign module to activate")
	if err := config.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the MCP server on stdio until the context ends.
func Run(ctx context.Context, cfg Config) error {
	system, err := systems.New(cfg.System, systems.Options{
		GameName:    cfg.GameName,
		Seed:        cfg.Seed,
		CampaignDir: cfg.CampaignDir,
		Campaign:    cfg.Campaign,
	})
	if err != nil {
		return err
	}

	var store *sqlite.Store
	var emitter *telemetry.Emitter
	if cfg.DBPath != "" {
		store, err = sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()
		emitter = telemetry.NewEmitter(store)
	}

	session, err := mcp.NewSession(system, gameStore(store), emitter)
	if err != nil {
		return err
	}
	server, err := mcp.NewServer(session)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// gameStore converts a possibly-nil concrete store into a possibly-nil
// interface value.
func gameStore(store *sqlite.Store) storage.GameStore {
	if store == nil {
		return nil
	}
	return store
}
