package config

import (
	"flag"
	"strings"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Overrides holds command-line settings bound to a FlagSet.
type Overrides struct {
	config    *string
	debug     *bool
	profile   *string
	upAxis    *string
	noLights  *bool
	noCameras *bool
	unknown   *bool
	camera    *bool
	compact   *bool
	logFile   *string
	grfPaths  stringList
	modelDirs stringList
}

// BindFlags registers the shared export flags on fs.
func BindFlags(fs *flag.FlagSet) *Overrides {
	o := &Overrides{
		config:    fs.String("config", "", "Path to config file (.yaml or .toml)"),
		debug:     fs.Bool("debug", false, "Enable debug logging"),
		profile:   fs.String("profile", "", "Profile name of <extra> techniques"),
		upAxis:    fs.String("up", "", "Up axis: X_UP, Y_UP or Z_UP"),
		noLights:  fs.Bool("no-lights", false, "Skip light nodes"),
		noCameras: fs.Bool("no-cameras", false, "Skip camera nodes"),
		unknown:   fs.Bool("unknown", false, "Keep unclassified leaf nodes (sounds, effects)"),
		camera:    fs.Bool("camera", false, "Add a default camera to worlds"),
		compact:   fs.Bool("compact", false, "Write the document without indentation"),
		logFile:   fs.String("log", "", "Log file path"),
	}
	fs.Var(&o.grfPaths, "grf", "GRF archive to resolve world models from (repeatable)")
	fs.Var(&o.modelDirs, "data", "Directory containing data/model/ (repeatable)")
	return o
}

// ConfigPath returns the explicit config path if provided via -config.
func (o *Overrides) ConfigPath() string {
	if o == nil || o.config == nil {
		return ""
	}
	return *o.config
}

// apply applies flag overrides to the config. A nil receiver is a no-op.
func (o *Overrides) apply(cfg *Config) {
	if o == nil {
		return
	}
	if *o.debug {
		cfg.Logging.Level = "debug"
	}
	if *o.profile != "" {
		cfg.Export.Profile = *o.profile
	}
	if *o.upAxis != "" {
		cfg.Export.UpAxis = strings.ToUpper(*o.upAxis)
	}
	if *o.noLights {
		cfg.Export.Lights = false
	}
	if *o.noCameras {
		cfg.Export.Cameras = false
	}
	if *o.unknown {
		cfg.Export.Unknown = true
	}
	if *o.camera {
		cfg.Export.DefaultCamera = true
	}
	if *o.compact {
		cfg.Output.Indent = ""
	}
	if *o.logFile != "" {
		cfg.Logging.LogFile = *o.logFile
	}
	cfg.Data.GRFPaths = append(cfg.Data.GRFPaths, o.grfPaths...)
	cfg.Data.ModelDirs = append(cfg.Data.ModelDirs, o.modelDirs...)
}
