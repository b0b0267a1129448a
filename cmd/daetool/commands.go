package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-dae/internal/config"
	"github.com/Faultbox/midgard-dae/internal/exporter"
	"github.com/Faultbox/midgard-dae/internal/idlist"
	"github.com/Faultbox/midgard-dae/internal/logger"
	"github.com/Faultbox/midgard-dae/internal/scenegraph"
	"github.com/Faultbox/midgard-dae/internal/watch"
	"github.com/Faultbox/midgard-dae/pkg/grf"
)

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", "", "Output path (- for stdout)")
	o := config.BindFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: daetool export [options] <file.rsm|file.rsw>")
	}

	cfg, err := setup(o)
	if err != nil {
		return err
	}
	defer logger.Sync()

	input := fs.Arg(0)
	stats, err := exportFile(input, outputPath(input, *output), cfg)
	if err != nil {
		return err
	}

	if *output != "-" {
		fmt.Printf("Exported %s\n", outputPath(input, *output))
		fmt.Print(stats.Table())
	}
	return nil
}

// exportFile converts input and writes the document to output. An existing
// output file is only replaced once the export succeeded.
func exportFile(input, output string, cfg *config.Config) (*exporter.Stats, error) {
	scene, release, err := loadScene(input, cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	ex := exporter.New(cfg, exporter.WithLogger(logger.Named("exporter")))
	var stats *exporter.Stats
	write := func(w io.Writer) error {
		var err error
		stats, err = ex.Export(w, scene)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", input, err)
		}
		return nil
	}

	if output == "-" {
		err = write(os.Stdout)
	} else {
		err = writeFileAtomic(output, write)
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// writeFileAtomic writes path through a temporary file in the same
// directory and renames it into place when fn succeeds.
func writeFileAtomic(path string, fn func(w io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err := f.Chmod(0644); err != nil {
		f.Close()
		return fmt.Errorf("creating output: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing output: %w", err)
	}
	return nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	o := config.BindFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: daetool info [options] <file.rsm|file.rsw>")
	}

	cfg, err := setup(o)
	if err != nil {
		return err
	}
	defer logger.Sync()

	scene, release, err := loadScene(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	defer release()

	g := scenegraph.New(scene, idlist.New(),
		scenegraph.WithLights(cfg.Export.Lights),
		scenegraph.WithCameras(cfg.Export.Cameras),
		scenegraph.WithUnknown(cfg.Export.Unknown),
		scenegraph.WithWireframeColor(cfg.Export.WireframeColor),
		scenegraph.WithLogger(logger.Named("scenegraph")))
	if err := g.Build(); err != nil {
		return err
	}
	defer g.Clean()

	fmt.Printf("Scene: %s\n", scene.Name())
	fmt.Printf("Nodes: %d (meshes %d, lights %d, cameras %d, bones %d)\n",
		g.Len(), g.Count(scenegraph.TypeMesh), g.Count(scenegraph.TypeLight),
		g.Count(scenegraph.TypeCamera), g.Count(scenegraph.TypeBone))
	fmt.Printf("Materials: %d\n", len(g.Materials()))
	fmt.Println()

	return g.Walk(func(n *scenegraph.ExportNode, depth int) error {
		kind := n.Type().String()
		if n.IsGroup() {
			kind = "Group"
		}
		line := fmt.Sprintf("%s%s [%s]", strings.Repeat("  ", depth), n.ID(), kind)

		var symbols []string
		for _, s := range n.Symbols() {
			symbols = append(symbols, s.Name)
		}
		if len(symbols) > 0 {
			sort.Strings(symbols)
			line += " materials: " + strings.Join(symbols, ", ")
		}
		if c, ok := n.WireframeColor(); ok {
			line += fmt.Sprintf(" wireframe: #%06X", c)
		}
		for _, target := range n.Instances() {
			line += " -> " + target.ID()
		}
		fmt.Println(line)
		return nil
	})
}

func cmdWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	output := fs.String("o", "", "Output path")
	debounce := fs.Duration("debounce", 300*time.Millisecond, "Quiet time before re-exporting")
	o := config.BindFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: daetool watch [options] <file.rsm|file.rsw>")
	}
	if *output == "-" {
		return fmt.Errorf("watch cannot write to stdout")
	}

	cfg, err := setup(o)
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Named("watch")

	input := fs.Arg(0)
	out := outputPath(input, *output)
	export := func(path string) {
		stats, err := exportFile(input, out, cfg)
		if err != nil {
			log.Error("export failed", zap.String("file", path), zap.Error(err))
			return
		}
		log.Info("exported", zap.String("output", out), zap.Int("nodes", stats.Nodes))
	}

	w, err := watch.New(*debounce, export, log)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(input); err != nil {
		return err
	}

	export(input)
	fmt.Printf("Watching %s (Ctrl+C to stop)\n", input)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func cmdModels(args []string) error {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N files (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: daetool models <file.grf> [pattern]")
	}

	archive, err := grf.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	pattern := ""
	if fs.NArg() > 1 {
		pattern = strings.ToLower(fs.Arg(1))
	}

	count := 0
	for _, f := range archive.List() {
		ext := strings.ToLower(filepath.Ext(f))
		if ext != ".rsm" && ext != ".rsm2" && ext != ".rsw" {
			continue
		}
		if pattern != "" && !strings.Contains(strings.ToLower(f), pattern) {
			continue
		}
		fmt.Println(f)
		count++
		if *limit > 0 && count >= *limit {
			break
		}
	}

	fmt.Fprintf(os.Stderr, "\n%d files\n", count)
	return nil
}

func cmdConfig(args []string) error {
	cfg := config.Default()

	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	return nil
}
