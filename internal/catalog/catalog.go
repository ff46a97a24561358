// Package catalog maps preset names to convolution kernels and tint
// offsets. Presets are plain data; adding one never needs new code.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/davesmith10/photofx/internal/convolution"
	"github.com/davesmith10/photofx/internal/transform"
)

// ErrUnknownPreset is returned when a name is not in the catalog.
var ErrUnknownPreset = errors.New("unknown preset")

// Built-in preset names.
const (
	EdgeDetection = "edge-detection"
	Sharpen       = "sharpen"
	Emboss        = "emboss"

	OceanBlue = "ocean-blue"
	Purple    = "purple"
)

var builtinKernels = map[string]convolution.Kernel{
	EdgeDetection: {-1, -1, -1, -1, 8, -1, -1, -1, -1},
	Sharpen:       {0, -1, 0, -1, 5, -1, 0, -1, 0},
	Emboss:        {-2, -1, 0, -1, 1, 1, 0, 1, 2},
}

// The reference editor names these tints without fixing their values.
var builtinTints = map[string]transform.ChannelOffset{
	OceanBlue: {R: 0, G: 40, B: 90},
	Purple:    {R: 70, G: 0, B: 90},
}

// Catalog holds named kernels and tints.
type Catalog struct {
	Kernels map[string]convolution.Kernel
	Tints   map[string]transform.ChannelOffset
}

// Default returns a new catalog holding only the built-in presets.
func Default() *Catalog {
	c := &Catalog{
		Kernels: make(map[string]convolution.Kernel, len(builtinKernels)),
		Tints:   make(map[string]transform.ChannelOffset, len(builtinTints)),
	}
	for name, k := range builtinKernels {
		c.Kernels[name] = k
	}
	for name, o := range builtinTints {
		c.Tints[name] = o
	}
	return c
}

// Kernel looks up a kernel preset.
func (c *Catalog) Kernel(name string) (convolution.Kernel, error) {
	k, ok := c.Kernels[name]
	if !ok {
		return k, fmt.Errorf("kernel %q: %w", name, ErrUnknownPreset)
	}
	return k, nil
}

// Tint looks up a tint preset.
func (c *Catalog) Tint(name string) (transform.ChannelOffset, error) {
	o, ok := c.Tints[name]
	if !ok {
		return o, fmt.Errorf("tint %q: %w", name, ErrUnknownPreset)
	}
	return o, nil
}

// KernelNames returns the kernel preset names in sorted order.
func (c *Catalog) KernelNames() []string {
	return sortedKeys(c.Kernels)
}

// TintNames returns the tint preset names in sorted order.
func (c *Catalog) TintNames() []string {
	return sortedKeys(c.Tints)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// file is the JSON layout accepted by Load.
type file struct {
	Kernels map[string][]float32               `json:"kernels"`
	Tints   map[string]transform.ChannelOffset `json:"tints"`
}

// Load merges presets from a JSON document of the form
//
//	{"kernels": {"blur": [1,1,1, 1,1,1, 1,1,1]},
//	 "tints":   {"sepia": {"r": 40, "g": 20, "b": 0}}}
//
// into c. Presets with an existing name replace the old value. Nothing is
// merged if any entry is invalid.
func (c *Catalog) Load(r io.Reader) error {
	var f file
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("decoding catalog: %w", err)
	}

	kernels := make(map[string]convolution.Kernel, len(f.Kernels))
	for name, weights := range f.Kernels {
		var k convolution.Kernel
		if len(weights) != len(k) {
			return fmt.Errorf("kernel %q: need %d weights, got %d", name, len(k), len(weights))
		}
		copy(k[:], weights)
		kernels[name] = k
	}

	for name, k := range kernels {
		c.Kernels[name] = k
	}
	for name, o := range f.Tints {
		c.Tints[name] = o
	}
	return nil
}

// LoadFile merges presets from the JSON file at path.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	if err := c.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
