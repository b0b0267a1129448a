package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Faultbox/midgard-dae/internal/collada"
	"github.com/Faultbox/midgard-dae/internal/host"
	"github.com/Faultbox/midgard-dae/internal/idlist"
	"github.com/Faultbox/midgard-dae/internal/scenegraph"
	"github.com/Faultbox/midgard-dae/internal/stream"
)

// document holds the state of one export: the ids of library entries and
// the order they are written in.
type document struct {
	e   *Exporter
	sw  *stream.StreamWriter
	g   *scenegraph.Graph
	ids *idlist.Registry

	meshes  []*scenegraph.ExportNode
	lights  []*scenegraph.ExportNode
	cameras []*scenegraph.ExportNode
	libIDs  map[*scenegraph.ExportNode]string

	effectIDs map[host.Handle]string
	imageIDs  map[host.Handle]string

	stats Stats
}

func newDocument(e *Exporter, sw *stream.StreamWriter, g *scenegraph.Graph, ids *idlist.Registry) *document {
	return &document{
		e:         e,
		sw:        sw,
		g:         g,
		ids:       ids,
		libIDs:    make(map[*scenegraph.ExportNode]string),
		effectIDs: make(map[host.Handle]string),
		imageIDs:  make(map[host.Handle]string),
	}
}

func (d *document) write(sceneName string) error {
	if err := d.collect(); err != nil {
		return err
	}

	d.sw.StartDocument()
	root := d.sw.OpenElement("COLLADA")
	defer root.Close()
	d.sw.WriteAttribute("xmlns", colladaNamespace)
	d.sw.WriteAttribute("version", colladaVersion)

	d.writeAsset()
	d.writeCameras()
	if err := d.writeLights(); err != nil {
		return err
	}
	d.writeImages()
	d.writeEffects()
	d.writeMaterials()
	if err := d.writeGeometries(); err != nil {
		return err
	}

	sceneID := d.ids.Register(sceneName)
	if err := d.writeVisualScene(sceneID, sceneName); err != nil {
		return err
	}

	s := d.sw.OpenElement("scene")
	d.sw.OpenElement("instance_visual_scene")
	d.sw.WriteAttribute("url", "#"+sceneID)
	s.Close()

	return d.sw.Err()
}

// collect assigns library ids in document order.
func (d *document) collect() error {
	err := d.g.Walk(func(n *scenegraph.ExportNode, depth int) error {
		if n.IsGroup() {
			return nil
		}
		switch n.Type() {
		case scenegraph.TypeMesh:
			d.meshes = append(d.meshes, n)
			d.libIDs[n] = d.ids.Register(n.ID() + "-mesh")
		case scenegraph.TypeLight:
			d.lights = append(d.lights, n)
			d.libIDs[n] = d.ids.Register(n.ID() + "-light")
		case scenegraph.TypeCamera:
			d.cameras = append(d.cameras, n)
			d.libIDs[n] = d.ids.Register(n.ID() + "-camera")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("collecting library entries: %w", err)
	}

	for _, m := range d.g.Materials() {
		matID := d.g.MaterialID(m)
		d.effectIDs[m.Handle] = d.ids.Register(strings.TrimSuffix(matID, "-material") + "-effect")
		if m.Texture != "" {
			d.imageIDs[m.Handle] = d.ids.Register(m.Name + "-image")
		}
	}
	return nil
}

func (d *document) writeAsset() {
	cfg := d.e.cfg
	now := d.e.now().UTC().Format(time.RFC3339)

	asset := d.sw.OpenElement("asset")
	defer asset.Close()

	contributor := d.sw.OpenElement("contributor")
	d.element("author", cfg.Author)
	d.element("authoring_tool", authoringTool)
	contributor.Close()

	d.element("created", now)
	d.element("modified", now)

	d.sw.OpenElement("unit")
	d.sw.WriteAttribute("name", cfg.UnitName)
	d.sw.WriteAttribute("meter", stream.FormatFloat(cfg.UnitMeter))
	d.sw.CloseElement()

	d.element("up_axis", cfg.UpAxis)
}

func (d *document) writeCameras() {
	if len(d.cameras) == 0 {
		return
	}
	lib := d.sw.OpenElement("library_cameras")
	defer lib.Close()

	for _, n := range d.cameras {
		cam, _ := n.Host().Object().(*host.Camera)
		if cam == nil {
			cam = &host.Camera{}
		}

		c := d.sw.OpenElement("camera")
		d.sw.WriteAttribute("id", d.libIDs[n])
		d.sw.WriteAttribute("name", n.Host().Name())
		d.sw.OpenElement("optics")
		d.sw.OpenElement("technique_common")
		d.sw.OpenElement("perspective")
		d.floatElement("yfov", cam.YFov)
		d.floatElement("aspect_ratio", cam.Aspect)
		d.floatElement("znear", cam.ZNear)
		d.floatElement("zfar", cam.ZFar)
		c.Close()
	}
}

func (d *document) writeLights() error {
	if len(d.lights) == 0 {
		return nil
	}
	lib := d.sw.OpenElement("library_lights")
	defer lib.Close()

	for _, n := range d.lights {
		light, _ := n.Host().Object().(*host.Light)
		if light == nil {
			light = &host.Light{}
		}
		if err := d.writeLight(n, light); err != nil {
			return err
		}
	}
	return nil
}

func (d *document) writeLight(n *scenegraph.ExportNode, light *host.Light) error {
	l := d.sw.OpenElement("light")
	defer l.Close()
	d.sw.WriteAttribute("id", d.libIDs[n])
	d.sw.WriteAttribute("name", n.Host().Name())

	common := d.sw.OpenElement("technique_common")
	d.sw.OpenElement(light.Kind.String())
	color := d.sw.OpenElement("color")
	d.sw.WriteValues(light.Color[0], light.Color[1], light.Color[2])
	color.Close()
	if light.Kind == host.LightPoint {
		d.floatElement("constant_attenuation", 1)
		d.floatElement("linear_attenuation", 0)
		d.floatElement("quadratic_attenuation", 0)
	}
	common.Close()

	if light.Kind != host.LightPoint {
		return nil
	}

	extra := d.sw.OpenElement("extra")
	defer extra.Close()
	t := collada.NewTechnique(d.sw)
	defer t.Close()
	if err := t.Open(d.e.cfg.Profile, ""); err != nil {
		return err
	}
	return t.AddFloatParameter("range", light.Range)
}

func (d *document) writeImages() {
	if len(d.imageIDs) == 0 {
		return
	}
	lib := d.sw.OpenElement("library_images")
	defer lib.Close()

	for _, m := range d.g.Materials() {
		id, ok := d.imageIDs[m.Handle]
		if !ok {
			continue
		}
		img := d.sw.OpenElement("image")
		d.sw.WriteAttribute("id", id)
		d.sw.WriteAttribute("name", m.Name)
		d.element("init_from", texturePath(m.Texture))
		img.Close()
	}
}

func (d *document) writeEffects() {
	materials := d.g.Materials()
	if len(materials) == 0 {
		return
	}
	lib := d.sw.OpenElement("library_effects")
	defer lib.Close()

	for _, m := range materials {
		effect := d.sw.OpenElement("effect")
		d.sw.WriteAttribute("id", d.effectIDs[m.Handle])
		d.sw.WriteAttribute("name", m.Name)
		d.sw.OpenElement("profile_COMMON")

		imageID, textured := d.imageIDs[m.Handle]
		surface, sampler := imageID+"-surface", imageID+"-sampler"
		if textured {
			d.sw.OpenElement("newparam")
			d.sw.WriteAttribute("sid", surface)
			d.sw.OpenElement("surface")
			d.sw.WriteAttribute("type", "2D")
			d.element("init_from", imageID)
			d.sw.CloseElement()
			d.sw.CloseElement()

			d.sw.OpenElement("newparam")
			d.sw.WriteAttribute("sid", sampler)
			d.sw.OpenElement("sampler2D")
			d.element("source", surface)
			d.sw.CloseElement()
			d.sw.CloseElement()
		}

		technique := d.sw.OpenElement("technique")
		d.sw.WriteAttribute("sid", "common")
		d.sw.OpenElement("lambert")
		d.sw.OpenElement("diffuse")
		if textured {
			d.sw.OpenElement("texture")
			d.sw.WriteAttribute("texture", sampler)
			d.sw.WriteAttribute("texcoord", "UVSET0")
			d.sw.CloseElement()
		} else {
			color := d.sw.OpenElement("color")
			d.sw.WriteValues(1, 1, 1, 1)
			color.Close()
		}
		technique.Close()

		effect.Close()
	}
}

func (d *document) writeMaterials() {
	materials := d.g.Materials()
	if len(materials) == 0 {
		return
	}
	lib := d.sw.OpenElement("library_materials")
	defer lib.Close()

	for _, m := range materials {
		mat := d.sw.OpenElement("material")
		d.sw.WriteAttribute("id", d.g.MaterialID(m))
		d.sw.WriteAttribute("name", m.Name)
		d.sw.OpenElement("instance_effect")
		d.sw.WriteAttribute("url", "#"+d.effectIDs[m.Handle])
		mat.Close()
	}
}

// writeGeometries writes one geometry per mesh node. Only statistics are
// exported, in a profile technique.
func (d *document) writeGeometries() error {
	if len(d.meshes) == 0 {
		return nil
	}
	lib := d.sw.OpenElement("library_geometries")
	defer lib.Close()

	for _, n := range d.meshes {
		if err := d.writeGeometry(n); err != nil {
			return err
		}
	}
	return nil
}

func (d *document) writeGeometry(n *scenegraph.ExportNode) error {
	geom, _ := n.Host().Object().(*host.Geometry)
	if geom == nil {
		geom = &host.Geometry{}
	}

	el := d.sw.OpenElement("geometry")
	defer el.Close()
	d.sw.WriteAttribute("id", d.libIDs[n])
	d.sw.WriteAttribute("name", n.Host().Name())

	d.sw.OpenElement("extra")
	t := collada.NewTechnique(d.sw)
	defer t.Close()
	if err := t.Open(d.e.cfg.Profile, ""); err != nil {
		return err
	}
	if err := t.AddIntParameter("vertex_count", geom.VertexCount); err != nil {
		return err
	}
	if err := t.AddIntParameter("face_count", geom.FaceCount); err != nil {
		return err
	}
	if geom.Shading != "" {
		if err := t.AddParameter("shading", geom.Shading); err != nil {
			return err
		}
	}
	return nil
}

func (d *document) writeVisualScene(id, name string) error {
	lib := d.sw.OpenElement("library_visual_scenes")
	defer lib.Close()

	vs := d.sw.OpenElement("visual_scene")
	defer vs.Close()
	d.sw.WriteAttribute("id", id)
	d.sw.WriteAttribute("name", name)

	for _, n := range d.g.Roots() {
		if err := d.writeNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (d *document) writeNode(n *scenegraph.ExportNode) error {
	el := d.sw.OpenElement("node")
	defer el.Close()
	d.sw.WriteAttribute("id", n.ID())
	d.sw.WriteAttribute("name", n.Host().Name())
	if n.Type() == scenegraph.TypeBone && !n.IsGroup() {
		d.sw.WriteAttribute("sid", n.ID())
		d.sw.WriteAttribute("type", "JOINT")
	} else {
		d.sw.WriteAttribute("type", "NODE")
	}

	m := d.sw.OpenElement("matrix")
	d.sw.WriteAttribute("sid", "transform")
	t := n.Host().Transform()
	d.sw.WriteValues(t[:]...)
	m.Close()

	if !n.IsGroup() {
		switch n.Type() {
		case scenegraph.TypeCamera:
			d.instance("instance_camera", d.libIDs[n])
		case scenegraph.TypeMesh:
			if err := d.writeInstanceGeometry(n); err != nil {
				return err
			}
		case scenegraph.TypeLight:
			d.instance("instance_light", d.libIDs[n])
		}
	}

	for _, target := range n.Instances() {
		d.instance("instance_node", target.ID())
		d.stats.Instances++
	}
	for _, c := range n.Children() {
		if err := d.writeNode(c); err != nil {
			return err
		}
	}
	if n.IsGroup() {
		d.stats.Groups++
		return nil
	}
	return d.writeNodeExtra(n)
}

func (d *document) writeInstanceGeometry(n *scenegraph.ExportNode) error {
	ig := d.sw.OpenElement("instance_geometry")
	defer ig.Close()
	d.sw.WriteAttribute("url", "#"+d.libIDs[n])

	if !n.HasSymbols() {
		return nil
	}
	geom, _ := n.Host().Object().(*host.Geometry)
	if geom == nil {
		return nil
	}

	d.sw.OpenElement("bind_material")
	d.sw.OpenElement("technique_common")
	seen := make(map[host.Handle]bool)
	for _, m := range geom.Materials {
		if seen[m.Handle] {
			continue
		}
		seen[m.Handle] = true

		symbol, err := n.SymbolByMaterialAndSetAsUsed(m)
		if err != nil {
			return fmt.Errorf("binding materials of %s: %w", n.ID(), err)
		}
		d.sw.OpenElement("instance_material")
		d.sw.WriteAttribute("symbol", symbol)
		d.sw.WriteAttribute("target", "#"+d.g.MaterialID(m))
		d.sw.CloseElement()
	}
	return nil
}

// writeNodeExtra writes the profile technique of a node: its wireframe
// color or mesh statistics, and the mesh pivot.
func (d *document) writeNodeExtra(n *scenegraph.ExportNode) error {
	wire, hasWire := n.WireframeColor()
	geom, _ := n.Host().Object().(*host.Geometry)
	bone := n.Type() == scenegraph.TypeBone
	if !hasWire && geom == nil && !bone {
		return nil
	}

	extra := d.sw.OpenElement("extra")
	defer extra.Close()
	t := collada.NewTechnique(d.sw)
	defer t.Close()
	if err := t.Open(d.e.cfg.Profile, ""); err != nil {
		return err
	}

	if hasWire {
		r, g, b := float64(wire>>16&0xFF)/255, float64(wire>>8&0xFF)/255, float64(wire&0xFF)/255
		if err := t.AddParameter("wireframe_color", strings.Join([]string{
			stream.FormatFloat(r), stream.FormatFloat(g), stream.FormatFloat(b),
		}, " ")); err != nil {
			return err
		}
	}
	if bone {
		if err := t.AddBoolParameter("bone", true); err != nil {
			return err
		}
	}
	if geom == nil {
		return nil
	}

	if err := t.AddIntParameter("vertex_count", geom.VertexCount); err != nil {
		return err
	}
	if err := t.AddIntParameter("face_count", geom.FaceCount); err != nil {
		return err
	}
	if err := t.AddBoolParameter("two_sided", geom.TwoSided); err != nil {
		return err
	}

	p, ok := n.Host().(host.Pivoted)
	if !ok || p.Pivot().IsIdentity() {
		return nil
	}
	if err := t.AddChildElement("pivot"); err != nil {
		return err
	}
	if err := t.AddMatrixParameter("matrix", p.Pivot()); err != nil {
		return err
	}
	t.CloseChildElement("pivot")
	return nil
}

func (d *document) element(name, text string) {
	c := d.sw.OpenElement(name)
	d.sw.WriteText(text)
	c.Close()
}

func (d *document) floatElement(name string, v float64) {
	d.element(name, stream.FormatFloat(v))
}

func (d *document) instance(name, id string) {
	d.sw.OpenElement(name)
	d.sw.WriteAttribute("url", "#"+id)
	d.sw.CloseElement()
}

// texturePath returns the image location of an RSM texture name.
func texturePath(tex string) string {
	return "data/texture/" + strings.ReplaceAll(tex, "\\", "/")
}
