package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-dae/internal/assets"
	"github.com/Faultbox/midgard-dae/internal/config"
	"github.com/Faultbox/midgard-dae/internal/host"
	"github.com/Faultbox/midgard-dae/internal/logger"
	"github.com/Faultbox/midgard-dae/pkg/formats"
)

var errUnsupported = errors.New("unsupported file type")

// setup loads the config and initializes logging from the shared flags.
func setup(o *config.Overrides) (*config.Config, error) {
	cfg, err := config.Load("", o)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

// loadScene reads a model or world file. The returned release function
// closes the archives opened for world models.
func loadScene(path string, cfg *config.Config) (host.Scene, func(), error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	log := logger.Named("scene")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".rsm", ".rsm2":
		rsm, err := formats.ParseRSMFile(path)
		if err != nil {
			return nil, nil, err
		}
		root, err := host.FromRSM(name, rsm)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("model loaded",
			zap.String("file", path),
			zap.Stringer("version", rsm.Version),
			zap.Int("nodes", len(rsm.Nodes)))
		return host.NewScene(name).AddRoot(root), func() {}, nil

	case ".rsw":
		world, err := formats.ParseRSWFile(path)
		if err != nil {
			return nil, nil, err
		}
		mgr, err := modelSource(path, cfg)
		if err != nil {
			return nil, nil, err
		}
		loader := host.NewWorldLoader(mgr,
			host.WithDefaultCamera(cfg.Export.DefaultCamera),
			host.WithLoaderLogger(log))
		scene, err := loader.LoadWorld(name, world)
		if err != nil {
			mgr.Close()
			return nil, nil, err
		}
		log.Debug("world loaded",
			zap.String("file", path),
			zap.Stringer("version", world.Version),
			zap.Int("objects", len(world.Objects)),
			zap.Int("models", loader.ModelCount()))
		return scene, mgr.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", errUnsupported, path)
	}
}

// modelSource chains the configured archives and directories. A world
// stored in a data/ directory also resolves models from next to it.
func modelSource(path string, cfg *config.Config) (*assets.Manager, error) {
	mgr := assets.NewManager(logger.Named("assets"))

	for _, archive := range cfg.Data.GRFPaths {
		if err := mgr.AddArchive(archive); err != nil {
			mgr.Close()
			return nil, err
		}
	}

	dirs := cfg.Data.ModelDirs
	if dataDir := filepath.Dir(path); strings.EqualFold(filepath.Base(dataDir), "data") {
		if _, err := os.Stat(filepath.Join(dataDir, "model")); err == nil {
			dirs = append([]string{filepath.Dir(dataDir)}, dirs...)
		}
	}
	for _, dir := range dirs {
		if err := mgr.AddDir(dir); err != nil {
			mgr.Close()
			return nil, err
		}
	}
	return mgr, nil
}

// outputPath returns the document path for input when -o is not given.
func outputPath(input, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".dae"
}
