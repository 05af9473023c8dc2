package pipeline

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"image/color"
	"image/png"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skoehler/geomap/pkg/cache"
	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/geo"
	"github.com/skoehler/geomap/pkg/grid"
	"github.com/skoehler/geomap/pkg/legend"
	"github.com/skoehler/geomap/pkg/naturalearth"
	"github.com/skoehler/geomap/pkg/observability"
	"github.com/skoehler/geomap/pkg/render"
	"github.com/skoehler/geomap/pkg/render/sink"
)

// Runner executes the load → classify → scene → render pipeline with
// per-stage caching. Both the CLI and the preview server use this to
// avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, layer client and logger.
// Multiple goroutines can safely share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Layers *naturalearth.Client // nil disables vector overlays
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result holds everything one pipeline execution produced.
type Result struct {
	Artifacts map[string][]byte
	Scene     *legend.Scene
	Grid      *grid.Grid
	GridHash  string
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats carries per-stage timings and grid shape information.
type Stats struct {
	LoadTime   time.Duration
	SceneTime  time.Duration
	RenderTime time.Duration
	Rows       int
	Cols       int
	Missing    int
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	GridHit   bool
	SceneHit  bool
	RenderHit bool
}

// Execute runs the complete pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	g, gridHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, wrapStage(err, "load grid")
	}
	result.Grid = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = g.Rows()
	result.Stats.Cols = g.Cols()
	result.CacheInfo.GridHit = gridHit

	if data, err := marshalGrid(g); err == nil {
		result.GridHash = cache.Hash(data)
	}

	opts.Logger.Info("loaded grid",
		"rows", g.Rows(),
		"cols", g.Cols(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Classify and build the legend scene
	sceneStart := time.Now()
	classified, err := r.Classify(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	_, missing := classified.Counts()
	result.Stats.Missing = missing

	scene, sceneHit, err := r.BuildSceneWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = scene
	result.Stats.SceneTime = time.Since(sceneStart)
	result.CacheInfo.SceneHit = sceneHit

	opts.Logger.Info("classified grid",
		"classes", classified.NClasses,
		"missing", missing,
		"duration", result.Stats.SceneTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, classified, scene, opts)
	if err != nil {
		return nil, wrapStage(err, "render")
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads and clips the grid, reporting cache hit info.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*grid.Grid, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	key := r.Keyer.GridKey(opts.Spec.Data.Path, opts.GridKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, err := unmarshalGrid(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "grid")
				return g, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "grid")
	}

	observability.Pipeline().OnLoadStart(ctx, opts.Spec.Data.Path, opts.Spec.Data.Variable)
	start := time.Now()
	g, err := r.load(opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.Spec.Data.Path, opts.Spec.Data.Variable, cellCount(g), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := marshalGrid(g); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLGrid)
		observability.Cache().OnCacheSet(ctx, "grid", len(data))
	}
	return g, false, nil
}

// load reads the grid from its source and clips it to the region.
func (r *Runner) load(opts Options) (*grid.Grid, error) {
	var (
		g   *grid.Grid
		err error
	)
	switch opts.SourceFormat() {
	case "csv":
		g, err = grid.LoadCSV(opts.Spec.Data.Path)
	default:
		g, err = grid.LoadNetCDF(opts.Spec.Data.Path, opts.Spec.Data.Variable, opts.Spec.Data.LatName, opts.Spec.Data.LonName)
	}
	if err != nil {
		return nil, err
	}

	box, err := opts.Spec.BBox()
	if err != nil {
		return nil, err
	}
	if box != geo.Global {
		return g.Clip(box)
	}
	return g, nil
}

// Classify bins the grid values using the spec's breaks.
func (r *Runner) Classify(ctx context.Context, g *grid.Grid, opts Options) (*grid.Classified, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	breaks := legend.Breaks(opts.Spec.Class.Breaks)
	observability.Pipeline().OnClassifyStart(ctx, len(breaks)-1)
	start := time.Now()
	c, err := g.Classify(breaks)
	observability.Pipeline().OnClassifyComplete(ctx, len(breaks)-1, time.Since(start), err)
	return c, err
}

// BuildSceneWithCacheInfo builds the legend scene with caching and
// reports cache hit info.
func (r *Runner) BuildSceneWithCacheInfo(ctx context.Context, opts Options) (*legend.Scene, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	colors, err := opts.Spec.Colors()
	if err != nil {
		return nil, false, err
	}
	cfg, err := opts.Spec.LegendConfig()
	if err != nil {
		return nil, false, err
	}

	// fmt instead of JSON here: break values can be ±Inf, which
	// encoding/json refuses to marshal.
	inputs := fmt.Sprintf("%v|%v", opts.Spec.Class.Breaks, colors)
	key := r.Keyer.SceneKey(cache.Hash([]byte(inputs)), opts.SceneKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached legend.Scene
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "scene")
				return &cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	scene, err := legend.Build(legend.Breaks(opts.Spec.Class.Breaks), colors, cfg)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(scene); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLScene)
		observability.Cache().OnCacheSet(ctx, "scene", len(data))
	}
	return scene, false, nil
}

// BuildScene is a convenience wrapper that discards the cache hit info.
func (r *Runner) BuildScene(ctx context.Context, opts Options) (*legend.Scene, error) {
	scene, _, err := r.BuildSceneWithCacheInfo(ctx, opts)
	return scene, err
}

// RenderWithCacheInfo produces all requested artifacts with caching and
// reports whether every one came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *grid.Classified, scene *legend.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	gridData, err := marshalGrid(c.Grid)
	if err != nil {
		return nil, false, err
	}
	sceneData, _ := json.Marshal(scene)
	inputHash := cache.Hash(append(gridData, sceneData...))

	// Try to serve every format from cache.
	allCached := true
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := r.renderAll(ctx, c, scene, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// renderAll produces every requested format.
func (r *Runner) renderAll(ctx context.Context, c *grid.Classified, scene *legend.Scene, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			out[format] = sink.RenderSVG(scene)
		case FormatJSON:
			data, err := sink.RenderJSON(scene)
			if err != nil {
				return nil, err
			}
			out[format] = data
		case FormatPNG:
			data, err := r.renderPNG(ctx, c, scene, opts)
			if err != nil {
				return nil, err
			}
			out[format] = data
		}
	}
	return out, nil
}

// renderPNG draws the full map with overlays and composes the legend
// beside it.
func (r *Runner) renderPNG(ctx context.Context, c *grid.Classified, scene *legend.Scene, opts Options) ([]byte, error) {
	box, err := opts.Spec.BBox()
	if err != nil {
		return nil, err
	}
	colors, err := opts.Spec.Colors()
	if err != nil {
		return nil, err
	}

	mapOpts := []render.MapOption{render.WithWidth(opts.Spec.Map.Width)}
	if opts.Spec.Map.OceanColor != "" {
		mapOpts = append(mapOpts, render.WithOceanColor(opts.Spec.Map.OceanColor))
	}
	if opts.Spec.Map.MissingColor != "" {
		mapOpts = append(mapOpts, render.WithMissingColor(opts.Spec.Map.MissingColor))
	}
	mapOpts = append(mapOpts, r.overlayOptions(ctx, box, opts)...)

	mapImg, err := render.RenderMap(c, colors, box, mapOpts...)
	if err != nil {
		return nil, err
	}

	legendImg, err := render.RasterizeScene(scene)
	if err != nil {
		return nil, err
	}

	composed := render.Compose(mapImg, legendImg, scene.Direction, color.White)

	var buf bytes.Buffer
	if err := png.Encode(&buf, composed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode PNG")
	}
	return buf.Bytes(), nil
}

// overlayOptions fetches the requested Natural Earth layers and converts
// them into render overlays. Overlay failures degrade to a plain map with
// a warning rather than failing the plot.
func (r *Runner) overlayOptions(ctx context.Context, box geo.BBox, opts Options) []render.MapOption {
	if r.Layers == nil || (!opts.Spec.Map.Coastline && !opts.Spec.Map.Countries) {
		return nil
	}

	scale := naturalearth.Scale(opts.Spec.Map.Scale)
	var out []render.MapOption

	fetch := func(layer naturalearth.Layer, hex string) {
		fc, err := r.Layers.FetchLayer(ctx, scale, layer, opts.Refresh)
		if err != nil {
			opts.Logger.Warn("skipping overlay", "layer", layer, "err", err)
			return
		}
		clipped := geo.ClipFeatures(fc, box)
		out = append(out, render.WithStroke(geo.Geometries(clipped), hex, opts.Spec.Map.LineWidth))
	}

	if opts.Spec.Map.Coastline {
		fetch(naturalearth.LayerCoastline, "#333333")
	}
	if opts.Spec.Map.Countries {
		fetch(naturalearth.LayerCountries, "#666666")
	}
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// wrapStage adds stage context while keeping the original error code.
func wrapStage(err error, msg string) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, "%s", msg)
}

func cellCount(g *grid.Grid) int {
	if g == nil {
		return 0
	}
	return len(g.Values)
}

// marshalGrid serializes a grid for caching. gob is used instead of JSON
// because grid values legitimately contain NaN.
func marshalGrid(g *grid.Grid) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalGrid(data []byte) (*grid.Grid, error) {
	var g grid.Grid
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}
