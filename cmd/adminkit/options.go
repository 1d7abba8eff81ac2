package main

import (
	"github.com/vango-dev/adminkit/internal/config"
	"github.com/vango-dev/adminkit/internal/demo/inventory"
	aerrors "github.com/vango-dev/adminkit/internal/errors"
	"github.com/vango-dev/adminkit/pkg/drawer"
	"github.com/vango-dev/adminkit/pkg/module"
)

type globalOptions struct {
	configPath string
	noDemo     bool
}

// loadConfig reads the file named by --config, or searches from the
// working directory. A missing file is not an error unless it was named
// explicitly.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	cfg, err := config.LoadFromWorkingDir()
	if aerrors.HasCode(err, "E121") {
		return config.New(), nil
	}
	return cfg, err
}

// registries builds the module and drawer tables.
func (o *globalOptions) registries() (*module.Registry, *drawer.Registry, error) {
	mods := module.NewRegistry()
	drawers := drawer.NewRegistry()
	if !o.noDemo {
		if err := inventory.Register(mods, drawers, inventory.SampleCatalog()); err != nil {
			return nil, nil, err
		}
	}
	return mods, drawers, nil
}
