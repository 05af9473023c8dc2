package grid

import (
	"math"
	"os"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/skoehler/geomap/pkg/errors"
)

// LoadNetCDF reads a 2D variable and its coordinate variables from a NetCDF
// file (classic CDF or NetCDF4/HDF5) into a Grid. varName selects the data
// variable; latName and lonName name the coordinate variables.
//
// Attribute conventions honored: _FillValue / missing_value cells become
// NaN, and scale_factor / add_offset are applied when present. Coordinates
// are normalized so latitudes ascend and longitudes lie ascending in
// [-180, 180] (0–360 grids are rotated).
func LoadNetCDF(path, varName, latName, lonName string) (*Grid, error) {
	if err := errors.ValidateVariableName(varName); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "NetCDF file not found: %s", path)
	}

	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "open NetCDF file %s", path)
	}
	defer nc.Close()

	lats, err := coordVariable(nc, latName)
	if err != nil {
		return nil, err
	}
	lons, err := coordVariable(nc, lonName)
	if err != nil {
		return nil, err
	}

	v, err := nc.GetVariable(varName)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "variable %q not found", varName)
	}
	values, err := dataMatrix(v)
	if err != nil {
		return nil, err
	}
	if len(values) != len(lats) {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "variable %q has %d rows for %d latitudes", varName, len(values), len(lats))
	}

	g := &Grid{
		Lats:   lats,
		Lons:   lons,
		Values: make([]float64, 0, len(lats)*len(lons)),
	}
	for _, row := range values {
		if len(row) != len(lons) {
			return nil, errors.New(errors.ErrCodeInvalidGrid, "variable %q has %d columns for %d longitudes", varName, len(row), len(lons))
		}
		g.Values = append(g.Values, row...)
	}

	applyAttributes(g, v.Attributes)
	normalizeOrientation(g)

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// coordVariable reads a 1D coordinate variable as float64.
func coordVariable(nc api.Group, name string) ([]float64, error) {
	if err := errors.ValidateVariableName(name); err != nil {
		return nil, err
	}
	v, err := nc.GetVariable(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "coordinate variable %q not found", name)
	}
	coords, err := toFloat64Slice(v.Values)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "coordinate variable %q", name)
	}
	if len(coords) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "coordinate variable %q is empty", name)
	}
	return coords, nil
}

// dataMatrix converts a 2D NetCDF value payload to float64 rows.
func dataMatrix(v *api.Variable) ([][]float64, error) {
	switch m := v.Values.(type) {
	case [][]float64:
		return m, nil
	case [][]float32:
		out := make([][]float64, len(m))
		for i, row := range m {
			out[i] = make([]float64, len(row))
			for j, x := range row {
				out[i][j] = float64(x)
			}
		}
		return out, nil
	case [][]int32:
		out := make([][]float64, len(m))
		for i, row := range m {
			out[i] = make([]float64, len(row))
			for j, x := range row {
				out[i][j] = float64(x)
			}
		}
		return out, nil
	case [][]int16:
		out := make([][]float64, len(m))
		for i, row := range m {
			out[i] = make([]float64, len(row))
			for j, x := range row {
				out[i][j] = float64(x)
			}
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidGrid, "variable is not a 2D numeric array (got %T)", v.Values)
}

// toFloat64Slice converts a 1D numeric payload to float64.
func toFloat64Slice(v interface{}) ([]float64, error) {
	switch s := v.(type) {
	case []float64:
		return s, nil
	case []float32:
		out := make([]float64, len(s))
		for i, x := range s {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(s))
		for i, x := range s {
			out[i] = float64(x)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(s))
		for i, x := range s {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidGrid, "not a 1D numeric array (got %T)", v)
}

// applyAttributes handles _FillValue/missing_value and scale/offset packing.
func applyAttributes(g *Grid, attrs api.AttributeMap) {
	if attrs == nil {
		return
	}

	fill, hasFill := attrFloat(attrs, "_FillValue")
	if !hasFill {
		fill, hasFill = attrFloat(attrs, "missing_value")
	}
	scale, hasScale := attrFloat(attrs, "scale_factor")
	offset, hasOffset := attrFloat(attrs, "add_offset")

	for i, v := range g.Values {
		if hasFill && v == fill {
			g.Values[i] = math.NaN()
			continue
		}
		if hasScale {
			v = v * scale
		}
		if hasOffset {
			v = v + offset
		}
		g.Values[i] = v
	}
}

// attrFloat reads a scalar numeric attribute.
func attrFloat(attrs api.AttributeMap, key string) (float64, bool) {
	raw, ok := attrs.Get(key)
	if !ok {
		return 0, false
	}
	switch x := raw.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int32:
		return float64(x), true
	case int16:
		return float64(x), true
	case []float64:
		if len(x) == 1 {
			return x[0], true
		}
	case []float32:
		if len(x) == 1 {
			return float64(x[0]), true
		}
	}
	return 0, false
}

// normalizeOrientation flips descending latitude axes and rotates 0–360
// longitude grids into ascending [-180, 180].
func normalizeOrientation(g *Grid) {
	rows, cols := g.Rows(), g.Cols()

	if rows > 1 && g.Lats[0] > g.Lats[rows-1] {
		for i, j := 0, rows-1; i < j; i, j = i+1, j-1 {
			g.Lats[i], g.Lats[j] = g.Lats[j], g.Lats[i]
			ri, rj := g.Values[i*cols:(i+1)*cols], g.Values[j*cols:(j+1)*cols]
			for k := 0; k < cols; k++ {
				ri[k], rj[k] = rj[k], ri[k]
			}
		}
	}

	needsShift := false
	for _, lon := range g.Lons {
		if lon > 180 {
			needsShift = true
			break
		}
	}
	if !needsShift {
		return
	}

	// Rotate columns so the shifted longitudes come out ascending. The
	// split point is the first longitude that maps into [-180, 0).
	pivot := 0
	for j, lon := range g.Lons {
		if lon > 180 {
			pivot = j
			break
		}
	}

	newLons := make([]float64, 0, cols)
	for j := pivot; j < cols; j++ {
		newLons = append(newLons, g.Lons[j]-360)
	}
	newLons = append(newLons, g.Lons[:pivot]...)

	newValues := make([]float64, len(g.Values))
	for i := 0; i < rows; i++ {
		row := g.Values[i*cols : (i+1)*cols]
		dst := newValues[i*cols : (i+1)*cols]
		copy(dst, row[pivot:])
		copy(dst[cols-pivot:], row[:pivot])
	}

	g.Lons = newLons
	g.Values = newValues
}
