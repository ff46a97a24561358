package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davesmith10/photofx/internal/codec"
	"github.com/davesmith10/photofx/internal/logging"
	"github.com/davesmith10/photofx/internal/photo"
)

// Options controls a full decode → transform → encode run.
type Options struct {
	Ops     []Op
	Config  Config
	Decoder codec.Decoder // required
	Encoder codec.Encoder // required
}

// Result holds the output of a pipeline run.
type Result struct {
	Data    []byte // encoded output
	Width   int
	Height  int
	Applied []string // names of the steps that ran, in order
}

// Run decodes data, applies every op in order and encodes the result.
func Run(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if opts.Decoder == nil || opts.Encoder == nil {
		return nil, errors.New("pipeline needs a decoder and an encoder")
	}

	// 1. Decode
	p, err := opts.Decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	// 2. Transform
	applied, err := Apply(ctx, p, opts.Ops, opts.Config)
	if err != nil {
		return nil, err
	}

	// 3. Encode
	encoded, err := opts.Encoder.Encode(p)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	logging.Logger().Info("pipeline finished",
		"width", p.Width, "height", p.Height,
		"ops", len(applied), "in", len(data), "out", len(encoded))

	return &Result{
		Data:    encoded,
		Width:   int(p.Width),
		Height:  int(p.Height),
		Applied: applied,
	}, nil
}

// Apply runs ops on p in order and returns the names of the steps run.
// The context is checked before each step.
func Apply(ctx context.Context, p *photo.Photo, ops []Op, cfg Config) ([]string, error) {
	p.Validate()
	cfg = cfg.withDefaults()
	width, height := p.Width, p.Height
	applied := make([]string, 0, len(ops))

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		start := time.Now()
		if err := op.Apply(ctx, p, cfg); err != nil {
			return applied, fmt.Errorf("apply %s: %w", op, err)
		}
		if p.Width != width || p.Height != height {
			panic(fmt.Sprintf("pipeline: %s changed geometry to %dx%d", op, p.Width, p.Height))
		}
		p.Validate()
		applied = append(applied, op.Name)

		logging.Logger().Debug("applied",
			"op", op.Name, "engine", cfg.Engine.Name(),
			"width", width, "height", height, "took", time.Since(start))
	}
	return applied, nil
}
