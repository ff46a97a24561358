package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/davesmith10/photofx/internal/catalog"
	"github.com/davesmith10/photofx/internal/codec"
	"github.com/davesmith10/photofx/internal/convolution"
	"github.com/davesmith10/photofx/internal/photo"
	"github.com/davesmith10/photofx/internal/transform"
	"github.com/google/go-cmp/cmp"
)

func testPhoto() *photo.Photo {
	p := photo.New(6, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			p.Set(x, y, uint8(40*x), uint8(50*y), uint8(10*(x+y)), uint8(200+x))
		}
	}
	return p
}

func TestParseOp(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		in   string
		want Op
	}{
		{"grayscale", Op{Kind: KindGrayscale, Name: "grayscale"}},
		{"Greyscale", Op{Kind: KindGrayscale, Name: "grayscale"}},
		{"threshold", Op{Kind: KindThreshold, Name: "threshold:128", Cutoff: 128}},
		{"threshold:40", Op{Kind: KindThreshold, Name: "threshold:40", Cutoff: 40}},
		{"monochrome:1, 2,3", Op{
			Kind: KindMonochrome, Name: "monochrome:1,2,3",
			Offset: transform.ChannelOffset{R: 1, G: 2, B: 3},
		}},
		{"tint:purple", Op{
			Kind: KindTint, Name: "tint:purple",
			Offset: cat.Tints["purple"],
		}},
		{"sharpen", Op{Kind: KindKernel, Name: "sharpen", Kernel: cat.Kernels["sharpen"]}},
		{"kernel:emboss", Op{Kind: KindKernel, Name: "emboss", Kernel: cat.Kernels["emboss"]}},
		{"kernel:0,0,0,0,1,0,0,0,0", Op{
			Kind: KindKernel, Name: "kernel:0,0,0,0,1,0,0,0,0",
			Kernel: convolution.Kernel{4: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOp(tt.in, cat)
			if err != nil {
				t.Fatalf("ParseOp: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOpErrors(t *testing.T) {
	cat := catalog.Default()
	for _, in := range []string{
		"blur",
		"grayscale:1",
		"threshold:256",
		"threshold:-1",
		"monochrome:1,2",
		"monochrome:a,b,c",
		"kernel:1,2,3",
		"sharpen:2",
	} {
		if _, err := ParseOp(in, cat); !errors.Is(err, ErrBadOp) {
			t.Errorf("ParseOp(%q) err = %v, want ErrBadOp", in, err)
		}
	}
	if _, err := ParseOp("tint:sepia", cat); !errors.Is(err, catalog.ErrUnknownPreset) {
		t.Errorf("tint:sepia err = %v, want ErrUnknownPreset", err)
	}
}

func TestParseOps(t *testing.T) {
	ops, err := ParseOps([]string{"grayscale", "sharpen"}, catalog.Default())
	if err != nil {
		t.Fatalf("ParseOps: %v", err)
	}
	if len(ops) != 2 || ops[1].Kind != KindKernel {
		t.Errorf("ops = %v", ops)
	}
	if _, err := ParseOps([]string{"grayscale", "nope"}, catalog.Default()); err == nil {
		t.Error("expected error")
	}
}

func TestApplyMatchesEngines(t *testing.T) {
	cat := catalog.Default()
	ops, err := ParseOps([]string{"tint:ocean-blue", "sharpen", "threshold:100"}, cat)
	if err != nil {
		t.Fatal(err)
	}

	for _, engine := range []transform.Engine{transform.Compat, transform.Corrected} {
		want := testPhoto()
		engine.Tint(want, cat.Tints["ocean-blue"])
		convolution.Apply(cat.Kernels["sharpen"], want)
		engine.Threshold(want, 100)

		got := testPhoto()
		applied, err := Apply(context.Background(), got, ops, Config{Engine: engine, Workers: 2})
		if err != nil {
			t.Fatalf("%s: Apply: %v", engine.Name(), err)
		}
		if diff := cmp.Diff([]string{"tint:ocean-blue", "sharpen", "threshold:100"}, applied); diff != "" {
			t.Errorf("applied (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(want.Pixels, got.Pixels); diff != "" {
			t.Errorf("%s: pixels (-want +got):\n%s", engine.Name(), diff)
		}
	}
}

func TestApplyDefaultsToCompat(t *testing.T) {
	want := testPhoto()
	transform.Compat.Monochrome(want, transform.ChannelOffset{R: 1, G: 2, B: 3})

	got := testPhoto()
	op := Op{Kind: KindMonochrome, Name: "mono", Offset: transform.ChannelOffset{R: 1, G: 2, B: 3}}
	if _, err := Apply(context.Background(), got, []Op{op}, Config{}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want.Pixels, got.Pixels); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestApplyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := testPhoto()
	applied, err := Apply(ctx, p, []Op{{Kind: KindGrayscale, Name: "grayscale"}}, Config{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("applied = %v", applied)
	}
}

func TestApplyUnknownKind(t *testing.T) {
	_, err := Apply(context.Background(), testPhoto(), []Op{{Kind: Kind(99), Name: "bogus"}}, Config{})
	if !errors.Is(err, ErrBadOp) {
		t.Errorf("err = %v, want ErrBadOp", err)
	}
}

func TestRunPNG(t *testing.T) {
	in := testPhoto()
	data, err := codec.PNG.Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	ops, err := ParseOps([]string{"grayscale", "edge-detection"}, catalog.Default())
	if err != nil {
		t.Fatal(err)
	}

	result, err := Run(context.Background(), data, Options{
		Ops:     ops,
		Config:  Config{Engine: transform.Corrected},
		Decoder: codec.Std{},
		Encoder: codec.PNG,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Width != 6 || result.Height != 5 {
		t.Errorf("dimensions %dx%d", result.Width, result.Height)
	}

	out, err := codec.Std{}.Decode(result.Data)
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	want := testPhoto()
	transform.Corrected.Grayscale(want)
	convolution.Apply(catalog.Default().Kernels["edge-detection"], want)
	if diff := cmp.Diff(want.Pixels, out.Pixels); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := Run(context.Background(), nil, Options{}); err == nil {
		t.Error("expected error without codecs")
	}
	_, err := Run(context.Background(), []byte("garbage"), Options{Decoder: codec.Std{}, Encoder: codec.PNG})
	if err == nil {
		t.Error("expected decode error")
	}
}
