// Package convolution applies 3x3 kernels to the color channels of a photo.
//
// Only interior pixels are filtered. Pixels whose neighborhood would reach
// outside the buffer (the one-pixel frame on every edge) are copied
// verbatim, and alpha is never touched. Results are clamped to [0, 255]
// and truncated toward zero.
package convolution

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/davesmith10/photofx/internal/photo"
	"golang.org/x/sync/errgroup"
)

// Kernel is a 3x3 weight matrix in row-major order. Index 4 is the weight
// of the pixel under evaluation.
type Kernel [9]float32

// Sum returns the total of all weights.
func (k Kernel) Sum() float32 {
	var s float32
	for _, w := range k {
		s += w
	}
	return s
}

// String formats the weights as a comma separated list.
func (k Kernel) String() string {
	parts := make([]string, len(k))
	for i, w := range k {
		parts[i] = strconv.FormatFloat(float64(w), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

// ParseKernel reads nine weights separated by commas and/or whitespace.
func ParseKernel(s string) (Kernel, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	var k Kernel
	if len(fields) != len(k) {
		return k, fmt.Errorf("kernel needs %d weights, got %d", len(k), len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return k, fmt.Errorf("kernel weight %d: %w", i, err)
		}
		k[i] = float32(v)
	}
	return k, nil
}

// Apply convolves p with k. The output is computed into a fresh buffer
// which then replaces p.Pixels, so every sum sees unfiltered neighbors.
func Apply(k Kernel, p *photo.Photo) {
	p.Validate()
	dst := make([]byte, len(p.Pixels))
	copy(dst, p.Pixels)
	convolveRows(&k, p.Pixels, dst, int(p.Width), int(p.Height), 1, int(p.Height)-1)
	p.Pixels = dst
}

// ApplyParallel is Apply with the interior split into row bands that are
// filtered concurrently. The result is identical to Apply. If ctx is
// canceled before all bands finish, p is left unchanged and the context
// error is returned. workers <= 0 uses GOMAXPROCS.
func ApplyParallel(ctx context.Context, k Kernel, p *photo.Photo, workers int) error {
	p.Validate()
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	w, h := int(p.Width), int(p.Height)
	src := p.Pixels
	dst := make([]byte, len(src))
	copy(dst, src)

	interior := h - 2
	if w < 3 || interior <= 0 {
		p.Pixels = dst
		return nil
	}

	band := (interior + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 1; y0 < h-1; y0 += band {
		y0 := y0
		y1 := min(y0+band, h-1)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			convolveRows(&k, src, dst, w, h, y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	p.Pixels = dst
	return nil
}

// convolveRows filters interior rows [y0, y1) from src into dst. Bands
// write disjoint rows of dst and only read src.
func convolveRows(k *Kernel, src, dst []byte, w, h, y0, y1 int) {
	if w < 3 || h < 3 {
		return
	}
	stride := w * photo.BytesPerPixel
	for y := y0; y < y1; y++ {
		row := y * stride
		for x := 1; x < w-1; x++ {
			i := row + x*photo.BytesPerPixel
			for c := 0; c < 3; c++ {
				var sum float32
				for dy := -1; dy <= 1; dy++ {
					base := i + dy*stride + c
					kr := (dy + 1) * 3
					sum += k[kr]*float32(src[base-photo.BytesPerPixel]) +
						k[kr+1]*float32(src[base]) +
						k[kr+2]*float32(src[base+photo.BytesPerPixel])
				}
				dst[i+c] = clampByte(sum)
			}
		}
	}
}

func clampByte(v float32) uint8 {
	if !(v > 0) { // also catches NaN
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
