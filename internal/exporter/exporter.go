// Package exporter writes host scenes as COLLADA 1.4.1 documents.
package exporter

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-dae/internal/config"
	"github.com/Faultbox/midgard-dae/internal/host"
	"github.com/Faultbox/midgard-dae/internal/idlist"
	"github.com/Faultbox/midgard-dae/internal/scenegraph"
	"github.com/Faultbox/midgard-dae/internal/stream"
)

const (
	colladaNamespace = "http://www.collada.org/2005/11/COLLADASchema"
	colladaVersion   = "1.4.1"
	authoringTool    = "midgard-dae"
)

// Stats summarizes one export.
type Stats struct {
	Nodes     int
	Meshes    int
	Lights    int
	Cameras   int
	Bones     int
	Groups    int
	Materials int
	Instances int
}

// Exporter converts scenes with fixed settings. It keeps no state between
// exports.
type Exporter struct {
	cfg    config.ExportConfig
	indent string
	log    *zap.Logger
	now    func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

func WithLogger(log *zap.Logger) Option {
	return func(e *Exporter) { e.log = log }
}

// WithClock sets the time source of the asset timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New creates an exporter from cfg.
func New(cfg *config.Config, opts ...Option) *Exporter {
	e := &Exporter{
		cfg:    cfg.Export,
		indent: cfg.Output.Indent,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes scene to w.
func (e *Exporter) Export(w io.Writer, scene host.Scene) (*Stats, error) {
	ids := idlist.New()
	g := scenegraph.New(scene, ids,
		scenegraph.WithLights(e.cfg.Lights),
		scenegraph.WithCameras(e.cfg.Cameras),
		scenegraph.WithUnknown(e.cfg.Unknown),
		scenegraph.WithWireframeColor(e.cfg.WireframeColor),
		scenegraph.WithLogger(e.log),
	)
	if err := g.Build(); err != nil {
		return nil, fmt.Errorf("building scene graph: %w", err)
	}
	defer g.Clean()

	var opts []stream.Option
	if e.indent != "" {
		opts = append(opts, stream.WithIndent("", e.indent))
	}
	sw := stream.NewStreamWriter(w, opts...)

	d := newDocument(e, sw, g, ids)
	if err := d.write(scene.Name()); err != nil {
		// The write error wins over anything the final flush reports.
		sw.EndDocument()
		return nil, err
	}
	if err := sw.EndDocument(); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}

	stats := d.stats
	stats.Nodes = g.Len()
	stats.Meshes = g.Count(scenegraph.TypeMesh)
	stats.Lights = g.Count(scenegraph.TypeLight)
	stats.Cameras = g.Count(scenegraph.TypeCamera)
	stats.Bones = g.Count(scenegraph.TypeBone)
	stats.Materials = len(g.Materials())

	e.log.Info("scene exported",
		zap.String("scene", scene.Name()),
		zap.Int("nodes", stats.Nodes),
		zap.Int("meshes", stats.Meshes),
		zap.Int("materials", stats.Materials),
		zap.Int("instances", stats.Instances))
	return &stats, nil
}
