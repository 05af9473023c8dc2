// Package naturalearth fetches vector map layers from the Natural Earth
// dataset distribution.
//
// Natural Earth publishes public domain coastlines, land polygons, country
// borders, lakes and oceans at three scales (110m, 50m, 10m). This package
// downloads the GeoJSON builds of those layers, caches them on disk, and
// decodes them into orb feature collections for the map renderer.
package naturalearth

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/geo"
	"github.com/skoehler/geomap/pkg/httputil"
)

// Scale selects the Natural Earth resolution tier.
type Scale string

// The three published Natural Earth scales. 110m is coarse and small,
// suited to global maps; 10m is detailed and large, suited to regional
// close-ups.
const (
	Scale110m Scale = "110m"
	Scale50m  Scale = "50m"
	Scale10m  Scale = "10m"
)

// Layer names a Natural Earth physical or cultural vector layer.
type Layer string

// Layers the map renderer knows how to draw.
const (
	LayerCoastline Layer = "coastline"
	LayerLand      Layer = "land"
	LayerOcean     Layer = "ocean"
	LayerCountries Layer = "admin_0_countries"
	LayerLakes     Layer = "lakes"
)

// knownLayers is the set of layers the renderer understands. The GeoJSON
// distribution keeps all of them in a flat directory, so no per-category
// path handling is needed.
var knownLayers = map[Layer]struct{}{
	LayerCoastline: {},
	LayerLand:      {},
	LayerOcean:     {},
	LayerLakes:     {},
	LayerCountries: {},
}

const (
	defaultBaseURL = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson"
	httpTimeout    = 30 * time.Second

	// DefaultTTL is how long downloaded layers stay fresh. Natural Earth
	// releases are infrequent, so a week is conservative.
	DefaultTTL = 7 * 24 * time.Hour
)

// Client downloads and caches Natural Earth GeoJSON layers.
//
// All methods are safe for concurrent use as long as the underlying cache
// directory is not shared with concurrent writers for the same key.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	baseURL string
}

// NewClient creates a Client backed by the given cache. The cache is
// namespaced under "naturalearth:" so it can share a directory with other
// data sources. Pass a cache with [DefaultTTL] unless you have a reason
// to refresh more often.
func NewClient(cache *httputil.Cache) *Client {
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache.Namespace("naturalearth:"),
		baseURL: defaultBaseURL,
	}
}

// LayerNames returns the supported layer names.
func LayerNames() []string {
	return []string{
		string(LayerCoastline),
		string(LayerLand),
		string(LayerOcean),
		string(LayerCountries),
		string(LayerLakes),
	}
}

// ParseScale validates a scale string.
func ParseScale(s string) (Scale, error) {
	switch Scale(s) {
	case Scale110m, Scale50m, Scale10m:
		return Scale(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown scale %q (use 110m, 50m or 10m)", s)
}

// ParseLayer validates a layer name.
func ParseLayer(s string) (Layer, error) {
	if _, ok := knownLayers[Layer(s)]; !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown layer %q (available: %v)", s, LayerNames())
	}
	return Layer(s), nil
}

// FetchLayer retrieves a layer at the given scale, from cache when fresh.
//
// If refresh is true the cache is bypassed and the layer is downloaded
// again. Transient download failures are retried with backoff.
//
// Returns:
//   - the decoded feature collection on success
//   - a NOT_FOUND error if the distribution has no such layer/scale build
//   - a NETWORK_ERROR for HTTP failures after retries are exhausted
func (c *Client) FetchLayer(ctx context.Context, scale Scale, layer Layer, refresh bool) (*geojson.FeatureCollection, error) {
	if _, ok := knownLayers[layer]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown layer %q", layer)
	}

	key := fmt.Sprintf("%s:%s", scale, layer)
	var raw []byte
	if !refresh {
		if ok, _ := c.cache.Get(key, &raw); ok {
			return geo.DecodeFeatures(raw)
		}
	}

	url := fmt.Sprintf("%s/ne_%s_%s.geojson", c.baseURL, scale, layer)
	err := httputil.DownloadBackoff().Do(ctx, func() error {
		var err error
		raw, err = c.download(ctx, url)
		return err
	})
	if err != nil {
		var tr *httputil.Transient
		if stderrors.As(err, &tr) {
			err = tr.Err
		}
		return nil, err
	}

	fc, err := geo.DecodeFeatures(raw)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(key, raw)
	return fc, nil
}

// download performs a single GET of a layer file.
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request for %s", url)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.Transient{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.Transient{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)}
	}
	return data, nil
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "layer not found: %s", url)
	case code >= 500 || code == http.StatusTooManyRequests:
		return &httputil.Transient{Err: errors.New(errors.ErrCodeNetwork, "status %d from %s", code, url)}
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d from %s", code, url)
	}
}
