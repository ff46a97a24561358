// Package classify prepares photos for image-classification models and
// interprets their scores. Running a model is left to a Classifier
// implementation; nothing here depends on a particular runtime.
package classify

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/davesmith10/photofx/internal/photo"
	"golang.org/x/image/draw"
)

// InputSize is the square side length MobileNet-style models expect.
const InputSize = 224

// Classifier labels a photo.
type Classifier interface {
	Classify(ctx context.Context, p *photo.Photo) (Prediction, error)
}

// Tensor is a float32 NHWC tensor of shape [1, Size, Size, 3].
type Tensor struct {
	Size int
	Data []float32 // len = Size*Size*3
}

// Shape returns the NHWC dimensions.
func (t *Tensor) Shape() [4]int {
	return [4]int{1, t.Size, t.Size, 3}
}

// WriteTo writes the tensor as little-endian float32 values.
func (t *Tensor) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 4*len(t.Data))
	for i, v := range t.Data {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// Preprocess resamples p to size×size with a bilinear (triangle) filter,
// drops alpha and scales each channel to [0, 1]. It panics if p breaks
// the buffer length invariant.
func Preprocess(p *photo.Photo, size int) (*Tensor, error) {
	p.Validate()
	if size <= 0 {
		return nil, fmt.Errorf("invalid input size %d", size)
	}
	if p.Width == 0 || p.Height == 0 {
		return nil, errors.New("cannot resample an empty photo")
	}

	// Resample as opaque so transparent pixels keep their color values.
	src := image.NewRGBA(image.Rect(0, 0, int(p.Width), int(p.Height)))
	copy(src.Pix, p.Pixels)
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 255
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)

	t := &Tensor{Size: size, Data: make([]float32, 0, size*size*3)}
	for i := 0; i < len(dst.Pix); i += 4 {
		t.Data = append(t.Data,
			float32(dst.Pix[i])/255,
			float32(dst.Pix[i+1])/255,
			float32(dst.Pix[i+2])/255,
		)
	}
	return t, nil
}

// Prediction is the best-scoring class. Class indices are 1-based.
type Prediction struct {
	Score float32
	Class int
}

// MarshalJSON encodes the prediction as a [score, class] pair.
func (p Prediction) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Score, p.Class})
}

// UnmarshalJSON decodes a [score, class] pair.
func (p *Prediction) UnmarshalJSON(b []byte) error {
	var pair [2]json.Number
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("prediction: %w", err)
	}
	score, err := pair[0].Float64()
	if err != nil {
		return fmt.Errorf("prediction score: %w", err)
	}
	class, err := pair[1].Int64()
	if err != nil {
		return fmt.Errorf("prediction class: %w", err)
	}
	p.Score, p.Class = float32(score), int(class)
	return nil
}

// Best returns the highest score and its 1-based class index. NaN scores
// are skipped; ties keep the later class. ok is false when no score is
// usable.
func Best(scores []float32) (best Prediction, ok bool) {
	for i, s := range scores {
		if math.IsNaN(float64(s)) {
			continue
		}
		if !ok || s >= best.Score {
			best = Prediction{Score: s, Class: i + 1}
			ok = true
		}
	}
	return best, ok
}

// Model runs inference on a preprocessed tensor and returns one score per
// class.
type Model func(ctx context.Context, t *Tensor) ([]float32, error)

// Classify implements Classifier: Preprocess at InputSize, run the model,
// then pick the best class.
func (m Model) Classify(ctx context.Context, p *photo.Photo) (Prediction, error) {
	t, err := Preprocess(p, InputSize)
	if err != nil {
		return Prediction{}, fmt.Errorf("preprocess: %w", err)
	}
	scores, err := m(ctx, t)
	if err != nil {
		return Prediction{}, fmt.Errorf("inference: %w", err)
	}
	best, ok := Best(scores)
	if !ok {
		return Prediction{}, errors.New("model returned no usable scores")
	}
	return best, nil
}
