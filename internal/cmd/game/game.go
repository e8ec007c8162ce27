// Package game implements the one-shot game CLI: each invocation loads a
// saved game from the store, applies a single engine operation and persists
// the result.
package game

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/louisbranch/airlock/internal/campaign"
	"github.com/louisbranch/airlock/internal/engine"
	"github.com/louisbranch/airlock/internal/platform/config"
	"github.com/louisbranch/airlock/internal/storage"
	"github.com/louisbranch/airlock/internal/storage/sqlite"
	"github.com/louisbranch/airlock/internal/systems"
	"github.com/louisbranch/airlock/internal/telemetry"
)

// Config holds game command configuration.
type Config struct {
	DBPath      string `env:"AIRLOCK_DB"           envDefault:"airlock.db"`
	System      string `env:"AIRLOCK_SYSTEM"       envDefault:"mothership"`
	Seed        int64  `env:"AIRLOCK_SEED"`
	CampaignDir string `env:"AIRLOCK_CAMPAIGN_DIR"`
	Campaign    string `env:"AIRLOCK_CAMPAIGN"`

	// Args holds the verb and its arguments after global flags.
	Args []string
}

// ParseConfig parses environment defaults and global flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite database")
	fs.StringVar(&cfg.System, "system", cfg.System, "rule system for new games")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed for new games (0 picks a random seed)")
	fs.StringVar(&cfg.CampaignDir, "campaigns", cfg.CampaignDir, "directory of campaign module documents")
	fs.StringVar(&cfg.Campaign, "campaign", cfg.Campaign, "campaign module to activate")
	if err := config.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()
	return cfg, nil
}

// Run executes one game verb.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if len(cfg.Args) == 0 {
		return usageError()
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	app := &app{cfg: cfg, store: store, telemetry: telemetry.NewEmitter(store), out: out}

	verb, rest := cfg.Args[0], cfg.Args[1:]
	switch verb {
	case "new":
		return app.newGame(ctx, rest)
	case "list":
		return app.listGames(ctx)
	case "delete":
		return app.deleteGame(ctx, rest)
	case "character":
		return app.createCharacter(ctx, rest)
	case "action":
		return app.action(ctx, rest)
	case "state":
		return app.state(ctx, rest)
	case "actions":
		return app.availableActions(ctx, rest)
	case "campaign":
		return app.campaign(ctx, rest)
	default:
		return usageError()
	}
}

func usageError() error {
	return fmt.Errorf("usage: game [flags] <new|list|delete|character|action|state|actions|campaign> [args]")
}

// app bundles the open store with config for verb handlers.
type app struct {
	cfg       Config
	store     *sqlite.Store
	telemetry *telemetry.Emitter
	out       io.Writer
}

func (a *app) newGame(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	name := fs.String("name", "", "display name for the game")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts, err := a.systemOptions(ctx, *name, a.cfg.Seed)
	if err != nil {
		return err
	}
	system, err := systems.New(a.cfg.System, opts)
	if err != nil {
		return err
	}
	record := storage.GameRecord{
		ID:     uuid.NewString(),
		Name:   *name,
		System: system.Name(),
	}
	if record.Snapshot, err = system.SaveState(); err != nil {
		return fmt.Errorf("serialize game: %w", err)
	}
	if err := a.store.PutGame(ctx, record); err != nil {
		return fmt.Errorf("persist game: %w", err)
	}
	fmt.Fprintln(a.out, record.ID)
	return nil
}

func (a *app) listGames(ctx context.Context) error {
	records, err := a.store.ListGames(ctx)
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	for _, record := range records {
		name := record.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n",
			record.ID, record.System, name, record.UpdatedAt.UTC().Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) deleteGame(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: game delete <id>")
	}
	if err := a.store.DeleteGame(ctx, args[0]); err != nil {
		return fmt.Errorf("delete game %s: %w", args[0], err)
	}
	return nil
}

func (a *app) createCharacter(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("character", flag.ContinueOnError)
	gameID := fs.String("game", "", "game id")
	name := fs.String("name", "", "character name")
	class := fs.String("class", "", "character class (teamster, scientist, android, marine)")
	controller := fs.String("controller", "", "who plays the character (user or warden)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("character name is required")
	}

	record, system, err := a.loadGame(ctx, *gameID)
	if err != nil {
		return err
	}
	opts := map[string]any{}
	if *class != "" {
		opts["class"] = *class
	}
	if *controller != "" {
		opts["controller"] = *controller
	}
	sheet, err := system.CreateCharacter(*name, opts)
	if err != nil {
		return err
	}
	if err := a.saveGame(ctx, record, system); err != nil {
		return err
	}
	return printJSON(a.out, sheet)
}

func (a *app) action(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("action", flag.ContinueOnError)
	gameID := fs.String("game", "", "game id")
	actionType := fs.String("type", "", "action type")
	character := fs.String("character", "", "acting character")
	params := paramFlags{}
	fs.Var(&params, "p", "action parameter as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *actionType == "" {
		return fmt.Errorf("action type is required")
	}

	record, system, err := a.loadGame(ctx, *gameID)
	if err != nil {
		return err
	}
	result := system.ProcessAction(engine.Action{
		Type:      *actionType,
		Character: *character,
		Params:    params.values,
	})
	_ = a.telemetry.EmitAction(ctx, record.ID, *character, *actionType, result.Success)
	if result.StateChanged {
		if err := a.saveGame(ctx, record, system); err != nil {
			return err
		}
	}
	return printJSON(a.out, result)
}

func (a *app) state(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	gameID := fs.String("game", "", "game id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, system, err := a.loadGame(ctx, *gameID)
	if err != nil {
		return err
	}
	return printJSON(a.out, system.State())
}

func (a *app) availableActions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("actions", flag.ContinueOnError)
	gameID := fs.String("game", "", "game id")
	character := fs.String("character", "", "character name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, system, err := a.loadGame(ctx, *gameID)
	if err != nil {
		return err
	}
	for _, action := range system.AvailableActions(*character) {
		fmt.Fprintln(a.out, action)
	}
	return nil
}

func (a *app) campaign(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: game campaign <import|list> [args]")
	}
	switch args[0] {
	case "import":
		return a.importCampaign(ctx, args[1:])
	case "list":
		return a.listCampaigns(ctx)
	default:
		return fmt.Errorf("usage: game campaign <import|list> [args]")
	}
}

// importCampaign validates a module document and stores it by name, so every
// later invocation can use its content without the source file.
func (a *app) importCampaign(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: game campaign import <file>")
	}
	document, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read campaign module %s: %w", args[0], err)
	}
	module, err := campaign.NewIndex().Load(document)
	if err != nil {
		return fmt.Errorf("load campaign module %s: %w", args[0], err)
	}
	record := storage.CampaignRecord{Name: module.Name, Document: document}
	if err := a.store.PutCampaign(ctx, record); err != nil {
		return fmt.Errorf("persist campaign %s: %w", module.Name, err)
	}
	fmt.Fprintln(a.out, module.Name)
	return nil
}

func (a *app) listCampaigns(ctx context.Context) error {
	records, err := a.store.ListCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("list campaigns: %w", err)
	}
	for _, record := range records {
		fmt.Fprintln(a.out, record.Name)
	}
	return nil
}

// systemOptions assembles construction options. Imported campaigns from the
// store back the index unless a campaign directory is set explicitly.
func (a *app) systemOptions(ctx context.Context, gameName string, seed int64) (systems.Options, error) {
	opts := systems.Options{
		GameName:    gameName,
		Seed:        seed,
		CampaignDir: a.cfg.CampaignDir,
		Campaign:    a.cfg.Campaign,
	}
	if opts.CampaignDir != "" {
		return opts, nil
	}
	records, err := a.store.ListCampaigns(ctx)
	if err != nil {
		return systems.Options{}, fmt.Errorf("list campaigns: %w", err)
	}
	if len(records) == 0 {
		return opts, nil
	}
	index := campaign.NewIndex()
	for _, record := range records {
		if _, err := index.Load(record.Document); err != nil {
			return systems.Options{}, fmt.Errorf("load stored campaign %s: %w", record.Name, err)
		}
	}
	opts.Index = index
	return opts, nil
}

// loadGame fetches a record and restores it into a fresh system instance.
func (a *app) loadGame(ctx context.Context, id string) (storage.GameRecord, engine.System, error) {
	if strings.TrimSpace(id) == "" {
		return storage.GameRecord{}, nil, fmt.Errorf("game id is required (-game)")
	}
	record, err := a.store.GetGame(ctx, id)
	if err != nil {
		return storage.GameRecord{}, nil, fmt.Errorf("fetch game %s: %w", id, err)
	}
	opts, err := a.systemOptions(ctx, record.Name, 0)
	if err != nil {
		return storage.GameRecord{}, nil, err
	}
	system, err := systems.New(record.System, opts)
	if err != nil {
		return storage.GameRecord{}, nil, err
	}
	if err := system.LoadState(record.Snapshot); err != nil {
		return storage.GameRecord{}, nil, fmt.Errorf("restore game %s: %w", id, err)
	}
	return record, system, nil
}

func (a *app) saveGame(ctx context.Context, record storage.GameRecord, system engine.System) error {
	blob, err := system.SaveState()
	if err != nil {
		return fmt.Errorf("serialize game: %w", err)
	}
	record.Snapshot = blob
	if err := a.store.PutGame(ctx, record); err != nil {
		return fmt.Errorf("persist game %s: %w", record.ID, err)
	}
	return nil
}

func printJSON(out io.Writer, v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(blob))
	return err
}

// paramFlags collects repeated -p key=value flags into an action parameter
// map. Values that parse as JSON, integers or booleans keep their type;
// everything else stays a string.
type paramFlags struct {
	values map[string]any
}

func (p *paramFlags) String() string {
	if p == nil || len(p.values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.values))
	for key, value := range p.values {
		parts = append(parts, fmt.Sprintf("%s=%v", key, value))
	}
	return strings.Join(parts, ",")
}

func (p *paramFlags) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return fmt.Errorf("parameter %q is not key=value", raw)
	}
	if p.values == nil {
		p.values = map[string]any{}
	}
	p.values[key] = parseParamValue(value)
	return nil
}

func parseParamValue(raw string) any {
	if len(raw) > 0 && (raw[0] == '[' || raw[0] == '{') {
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return parsed
		}
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
