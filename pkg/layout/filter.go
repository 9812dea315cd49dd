package layout

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/matzehuels/gdsr/pkg/errors"
)

// LayerDatatype is a (layer, datatype) pair.
type LayerDatatype struct {
	Layer    int `json:"layer" toml:"layer"`
	Datatype int `json:"datatype" toml:"datatype"`
}

func (ld LayerDatatype) String() string {
	return fmt.Sprintf("%d/%d", ld.Layer, ld.Datatype)
}

// Filter selects elements by layer and datatype. An empty filter accepts
// everything.
type Filter []LayerDatatype

// Matches reports whether a polygon or path on (layer, datatype) passes.
func (f Filter) Matches(layer, datatype int) bool {
	if len(f) == 0 {
		return true
	}
	for _, ld := range f {
		if ld.Layer == layer && ld.Datatype == datatype {
			return true
		}
	}
	return false
}

// MatchesLayer reports whether a text on layer passes. Texts carry no
// datatype, so only the layer is compared.
func (f Filter) MatchesLayer(layer int) bool {
	if len(f) == 0 {
		return true
	}
	for _, ld := range f {
		if ld.Layer == layer {
			return true
		}
	}
	return false
}

func (f Filter) String() string {
	parts := make([]string, len(f))
	for i, ld := range f {
		parts[i] = ld.String()
	}
	return strings.Join(parts, ",")
}

// ParseFilter parses a comma-separated list of layer/datatype pairs such as
// "1/0,2/3". A bare layer number means datatype 0. Whitespace around
// entries is ignored and an empty string yields an empty filter.
func ParseFilter(s string) (Filter, error) {
	var f Filter
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ld, err := parseLayerDatatype(part)
		if err != nil {
			return nil, err
		}
		f = append(f, ld)
	}
	return f, nil
}

func parseLayerDatatype(s string) (LayerDatatype, error) {
	layerStr, datatypeStr, hasDatatype := strings.Cut(s, "/")
	layer, err := strconv.Atoi(strings.TrimSpace(layerStr))
	if err != nil {
		return LayerDatatype{}, errs.New(errs.ErrCodeInvalidInput, "invalid layer in %q", s)
	}
	if err := errs.ValidateLayer(layer); err != nil {
		return LayerDatatype{}, err
	}
	var datatype int
	if hasDatatype {
		datatype, err = strconv.Atoi(strings.TrimSpace(datatypeStr))
		if err != nil {
			return LayerDatatype{}, errs.New(errs.ErrCodeInvalidInput, "invalid datatype in %q", s)
		}
	}
	return LayerDatatype{Layer: layer, Datatype: datatype}, nil
}
