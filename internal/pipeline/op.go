package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/davesmith10/photofx/internal/catalog"
	"github.com/davesmith10/photofx/internal/convolution"
	"github.com/davesmith10/photofx/internal/photo"
	"github.com/davesmith10/photofx/internal/transform"
)

// ErrBadOp is returned for an operation string that cannot be parsed.
var ErrBadOp = errors.New("invalid operation")

// Kind identifies the transform an Op runs.
type Kind int

const (
	KindKernel Kind = iota
	KindGrayscale
	KindMonochrome
	KindThreshold
	KindTint
)

// Op is one parsed pipeline step.
type Op struct {
	Kind   Kind
	Name   string // as shown in logs and results
	Kernel convolution.Kernel
	Offset transform.ChannelOffset
	Cutoff uint8
}

func (o Op) String() string { return o.Name }

// Config carries the settings shared by all steps.
type Config struct {
	Engine  transform.Engine // zero value means transform.Compat
	Workers int              // > 0 runs convolutions on that many goroutines
}

func (c Config) withDefaults() Config {
	if c.Engine.Name() == "" {
		c.Engine = transform.Compat
	}
	return c
}

// Apply runs the step on p in place.
func (o Op) Apply(ctx context.Context, p *photo.Photo, cfg Config) error {
	cfg = cfg.withDefaults()
	switch o.Kind {
	case KindKernel:
		if cfg.Workers > 0 {
			return convolution.ApplyParallel(ctx, o.Kernel, p, cfg.Workers)
		}
		convolution.Apply(o.Kernel, p)
	case KindGrayscale:
		cfg.Engine.Grayscale(p)
	case KindMonochrome:
		cfg.Engine.Monochrome(p, o.Offset)
	case KindTint:
		cfg.Engine.Tint(p, o.Offset)
	case KindThreshold:
		cfg.Engine.Threshold(p, o.Cutoff)
	default:
		return fmt.Errorf("%s: %w", o.Name, ErrBadOp)
	}
	return nil
}

// ParseOp parses one step:
//
//	grayscale
//	threshold | threshold:<0-255>
//	monochrome:<r>,<g>,<b>
//	tint:<preset>
//	kernel:<preset> | kernel:<nine weights>
//	<kernel preset>
//
// Preset names are resolved against cat.
func ParseOp(s string, cat *catalog.Catalog) (Op, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	name = strings.ToLower(name)

	switch name {
	case "grayscale", "greyscale":
		if hasArg {
			return Op{}, fmt.Errorf("%q: grayscale takes no argument: %w", s, ErrBadOp)
		}
		return Op{Kind: KindGrayscale, Name: "grayscale"}, nil

	case "threshold":
		cutoff := uint64(transform.DefaultCutoff)
		if hasArg {
			var err error
			cutoff, err = strconv.ParseUint(arg, 10, 8)
			if err != nil {
				return Op{}, fmt.Errorf("%q: cutoff must be 0-255: %w", s, ErrBadOp)
			}
		}
		return Op{Kind: KindThreshold, Name: fmt.Sprintf("threshold:%d", cutoff), Cutoff: uint8(cutoff)}, nil

	case "monochrome":
		off, err := parseOffset(arg)
		if err != nil {
			return Op{}, fmt.Errorf("%q: %v: %w", s, err, ErrBadOp)
		}
		return Op{
			Kind:   KindMonochrome,
			Name:   fmt.Sprintf("monochrome:%d,%d,%d", off.R, off.G, off.B),
			Offset: off,
		}, nil

	case "tint":
		off, err := cat.Tint(arg)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindTint, Name: "tint:" + arg, Offset: off}, nil

	case "kernel":
		if k, err := cat.Kernel(arg); err == nil {
			return Op{Kind: KindKernel, Name: arg, Kernel: k}, nil
		}
		k, err := convolution.ParseKernel(arg)
		if err != nil {
			return Op{}, fmt.Errorf("%q: not a preset or %v: %w", s, err, ErrBadOp)
		}
		return Op{Kind: KindKernel, Name: "kernel:" + k.String(), Kernel: k}, nil
	}

	if k, err := cat.Kernel(name); err == nil && !hasArg {
		return Op{Kind: KindKernel, Name: name, Kernel: k}, nil
	}
	return Op{}, fmt.Errorf("%q: %w", s, ErrBadOp)
}

// ParseOps parses each string with ParseOp.
func ParseOps(specs []string, cat *catalog.Catalog) ([]Op, error) {
	ops := make([]Op, 0, len(specs))
	for _, s := range specs {
		op, err := ParseOp(s, cat)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseOffset(s string) (transform.ChannelOffset, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return transform.ChannelOffset{}, fmt.Errorf("need r,g,b offsets, got %q", s)
	}
	var v [3]uint32
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return transform.ChannelOffset{}, fmt.Errorf("offset %d: %w", i, err)
		}
		v[i] = uint32(n)
	}
	return transform.ChannelOffset{R: v[0], G: v[1], B: v[2]}, nil
}
