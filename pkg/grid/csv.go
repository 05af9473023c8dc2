package grid

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/skoehler/geomap/pkg/errors"
)

// LoadCSV reads a NetCDF-derived point table with a "lon,lat,value" header
// into a Grid. The points must lie on a regular grid; cells absent from the
// table become NaN. Empty value fields and the literal "NA" also map to NaN.
func LoadCSV(path string) (*Grid, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "CSV file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses the lon/lat/value table from r. See LoadCSV.
func ReadCSV(r io.Reader) (*Grid, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "read CSV header")
	}
	lonIdx, latIdx, valIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "lon", "longitude", "x":
			lonIdx = i
		case "lat", "latitude", "y":
			latIdx = i
		case "value", "val", "z":
			valIdx = i
		}
	}
	if lonIdx < 0 || latIdx < 0 || valIdx < 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "CSV header must name lon, lat and value columns, got %v", header)
	}

	type point struct {
		lon, lat, val float64
	}
	var points []point
	lonSet := map[float64]struct{}{}
	latSet := map[float64]struct{}{}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "read CSV line %d", line)
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[lonIdx]), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidGrid, "line %d: bad longitude %q", line, rec[lonIdx])
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[latIdx]), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidGrid, "line %d: bad latitude %q", line, rec[latIdx])
		}

		val := math.NaN()
		raw := strings.TrimSpace(rec[valIdx])
		if raw != "" && !strings.EqualFold(raw, "na") && !strings.EqualFold(raw, "nan") {
			val, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidGrid, "line %d: bad value %q", line, rec[valIdx])
			}
		}

		points = append(points, point{lon, lat, val})
		lonSet[lon] = struct{}{}
		latSet[lat] = struct{}{}
	}
	if len(points) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "CSV table has no data rows")
	}

	lons := sortedKeys(lonSet)
	lats := sortedKeys(latSet)

	lonIdxOf := indexOf(lons)
	latIdxOf := indexOf(lats)

	g := &Grid{
		Lats:   lats,
		Lons:   lons,
		Values: make([]float64, len(lats)*len(lons)),
	}
	for i := range g.Values {
		g.Values[i] = math.NaN()
	}
	for _, p := range points {
		g.Values[latIdxOf[p.lat]*len(lons)+lonIdxOf[p.lon]] = p.val
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func sortedKeys(set map[float64]struct{}) []float64 {
	out := make([]float64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}

func indexOf(coords []float64) map[float64]int {
	out := make(map[float64]int, len(coords))
	for i, c := range coords {
		out[c] = i
	}
	return out
}
