package classify

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/davesmith10/photofx/internal/photo"
)

func TestPreprocessShapeAndRange(t *testing.T) {
	p := photo.New(40, 30)
	p.Fill(255, 0, 51, 0)

	tensor, err := Preprocess(p, InputSize)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if got := tensor.Shape(); got != [4]int{1, 224, 224, 3} {
		t.Errorf("Shape() = %v", got)
	}
	if len(tensor.Data) != 224*224*3 {
		t.Fatalf("len(Data) = %d", len(tensor.Data))
	}
	// A flat image resamples to itself; alpha must not leak into RGB.
	for i := 0; i < len(tensor.Data); i += 3 {
		r, g, b := tensor.Data[i], tensor.Data[i+1], tensor.Data[i+2]
		if r != 1 || g != 0 || math.Abs(float64(b)-0.2) > 1e-6 {
			t.Fatalf("pixel %d = (%v,%v,%v), want (1,0,0.2)", i/3, r, g, b)
		}
	}
}

func TestPreprocessErrors(t *testing.T) {
	if _, err := Preprocess(photo.New(0, 4), 8); err == nil {
		t.Error("expected error for empty photo")
	}
	if _, err := Preprocess(photo.New(2, 2), 0); err == nil {
		t.Error("expected error for size 0")
	}
}

func TestPreprocessPanicsOnBadBuffer(t *testing.T) {
	for _, n := range []int{2*2*4 - 1, 2*2*4 + 4} {
		p := &photo.Photo{Pixels: make([]byte, n), Width: 2, Height: 2}
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%d bytes for 2x2: expected panic", n)
				}
			}()
			Preprocess(p, 4)
		}()
	}
}

func TestTensorWriteTo(t *testing.T) {
	tensor := &Tensor{Size: 1, Data: []float32{0, 0.5, 1}}
	var buf bytes.Buffer
	n, err := tensor.WriteTo(&buf)
	if err != nil || n != 12 {
		t.Fatalf("WriteTo = %d, %v", n, err)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf.Bytes()[4:])); got != 0.5 {
		t.Errorf("second value = %v", got)
	}
}

func TestBest(t *testing.T) {
	tests := []struct {
		name   string
		scores []float32
		want   Prediction
		ok     bool
	}{
		{"empty", nil, Prediction{}, false},
		{"single", []float32{0.3}, Prediction{0.3, 1}, true},
		{"max in middle", []float32{0.1, 0.7, 0.2}, Prediction{0.7, 2}, true},
		{"tie keeps last", []float32{0.5, 0.1, 0.5}, Prediction{0.5, 3}, true},
		{"skips NaN", []float32{float32(math.NaN()), 0.2}, Prediction{0.2, 2}, true},
		{"all NaN", []float32{float32(math.NaN())}, Prediction{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Best(tt.scores)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Best = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPredictionJSON(t *testing.T) {
	b, err := json.Marshal(Prediction{Score: 0.5, Class: 412})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[0.5,412]" {
		t.Errorf("Marshal = %s", b)
	}

	var p Prediction
	if err := json.Unmarshal([]byte("[0.25, 7]"), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p != (Prediction{Score: 0.25, Class: 7}) {
		t.Errorf("Unmarshal = %+v", p)
	}
	if err := json.Unmarshal([]byte(`{"score": 1}`), &p); err == nil {
		t.Error("expected error for object form")
	}
}

func TestModelClassify(t *testing.T) {
	var gotShape [4]int
	m := Model(func(_ context.Context, tensor *Tensor) ([]float32, error) {
		gotShape = tensor.Shape()
		return []float32{0.1, 0.9, 0.3}, nil
	})

	var c Classifier = m
	pred, err := c.Classify(context.Background(), photo.New(8, 8))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if pred != (Prediction{Score: 0.9, Class: 2}) {
		t.Errorf("prediction = %+v", pred)
	}
	if gotShape != [4]int{1, InputSize, InputSize, 3} {
		t.Errorf("model saw shape %v", gotShape)
	}
}

func TestModelClassifyErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := Model(func(context.Context, *Tensor) ([]float32, error) { return nil, boom })
	if _, err := failing.Classify(context.Background(), photo.New(2, 2)); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}

	empty := Model(func(context.Context, *Tensor) ([]float32, error) { return nil, nil })
	if _, err := empty.Classify(context.Background(), photo.New(2, 2)); err == nil {
		t.Error("expected error for empty scores")
	}
}
