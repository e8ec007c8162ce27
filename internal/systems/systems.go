// Package systems builds rule system instances by name for command entry
// points.
package systems

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/airlock/internal/campaign"
	"github.com/louisbranch/airlock/internal/engine"
	"github.com/louisbranch/airlock/internal/systems/freeform"
	"github.com/louisbranch/airlock/internal/systems/mothership"
)

// Options configures rule system construction.
type Options struct {
	// GameName labels the game in its log and snapshots.
	GameName string
	// Seed drives all dice; zero picks a random seed.
	Seed int64
	// CampaignDir holds campaign module documents (JSON or YAML) to load.
	CampaignDir string
	// Index supplies already-loaded campaign modules; it takes precedence
	// over CampaignDir.
	Index *campaign.Index
	// Campaign names the module to activate; required when more than one
	// module is loaded.
	Campaign string
}

// Registry builds the registry of every known rule system, each factory
// closing over the shared options.
func Registry(opts Options) *engine.Registry {
	registry := engine.NewRegistry()
	registry.Register(mothership.SystemName, func() (engine.System, error) {
		return newMothership(opts)
	})
	registry.Register(freeform.SystemName, func() (engine.System, error) {
		return freeform.New(opts.Seed)
	})
	return registry
}

// New constructs the named rule system. An empty name defaults to mothership.
func New(name string, opts Options) (engine.System, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = mothership.SystemName
	}
	return Registry(opts).New(name)
}

func newMothership(opts Options) (engine.System, error) {
	system, err := mothership.New(mothership.Config{Name: opts.GameName, Seed: opts.Seed})
	if err != nil {
		return nil, err
	}
	index, names := opts.Index, []string(nil)
	if index != nil {
		names = index.Names()
	} else if opts.CampaignDir != "" {
		if index, names, err = loadCampaigns(opts.CampaignDir); err != nil {
			return nil, err
		}
	}
	if index != nil {
		system.AttachCampaigns(index)
		if active := activeCampaign(opts.Campaign, names); active != "" {
			if err := system.SetCampaign(active); err != nil {
				return nil, err
			}
		}
	}
	return system, nil
}

// loadCampaigns loads every module document in dir into a fresh index and
// returns the module names in load order.
func loadCampaigns(dir string) (*campaign.Index, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read campaign dir %s: %w", dir, err)
	}
	index := campaign.NewIndex()
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isModuleFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		document, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read campaign module %s: %w", path, err)
		}
		module, err := index.Load(document)
		if err != nil {
			return nil, nil, fmt.Errorf("load campaign module %s: %w", path, err)
		}
		names = append(names, module.Name)
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no campaign modules found in %s", dir)
	}
	return index, names, nil
}

// activeCampaign picks the module to activate: the requested name, or the
// only loaded module when none was requested.
func activeCampaign(requested string, names []string) string {
	if requested != "" {
		return requested
	}
	if len(names) == 1 {
		return names[0]
	}
	return ""
}

func isModuleFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
