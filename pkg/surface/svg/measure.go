package svg

import (
	"sync"
	"unicode/utf8"

	"github.com/matzehuels/grapher/pkg/curve"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontSize is the size in pixels the default measurer uses. It matches the
// font-size of the embedded stylesheet.
const FontSize = 11

// Measurer computes text metrics.
type Measurer interface {
	// Measure returns the advance width of text.
	Measure(text string, bold bool) float64
	// Metrics returns the line ascent and descent.
	Metrics() (ascent, descent float64)
}

// Monospace measures every rune with the same advance.
type Monospace struct {
	CharWidth float64
	Ascent    float64
	Descent   float64
}

// Measure implements Measurer.
func (m Monospace) Measure(text string, bold bool) float64 {
	return float64(utf8.RuneCountInString(text)) * m.CharWidth
}

// Metrics implements Measurer.
func (m Monospace) Metrics() (float64, float64) { return m.Ascent, m.Descent }

// FontMeasurer measures text with the Go regular and bold faces.
type FontMeasurer struct {
	mu      sync.Mutex
	regular font.Face
	bold    font.Face
	ascent  float64
	descent float64
}

// NewFontMeasurer parses the Go fonts at the given pixel size.
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	regular, err := newFace(goregular.TTF, size)
	if err != nil {
		return nil, err
	}
	bold, err := newFace(gobold.TTF, size)
	if err != nil {
		return nil, err
	}
	metrics := regular.Metrics()
	return &FontMeasurer{
		regular: regular,
		bold:    bold,
		ascent:  fromFixed(metrics.Ascent),
		descent: fromFixed(metrics.Descent),
	}, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Measure implements Measurer. Faces are not safe for concurrent use, so
// calls are serialized.
func (m *FontMeasurer) Measure(text string, bold bool) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	face := m.regular
	if bold {
		face = m.bold
	}
	return fromFixed(font.MeasureString(face, text))
}

// Metrics implements Measurer.
func (m *FontMeasurer) Metrics() (float64, float64) { return m.ascent, m.descent }

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

var (
	defaultMeasurer     *FontMeasurer
	defaultMeasurerErr  error
	defaultMeasurerOnce sync.Once
)

// DefaultMeasurer returns the shared FontMeasurer at [FontSize].
// The fonts are parsed once on first use.
func DefaultMeasurer() (*FontMeasurer, error) {
	defaultMeasurerOnce.Do(func() {
		defaultMeasurer, defaultMeasurerErr = NewFontMeasurer(FontSize)
	})
	return defaultMeasurer, defaultMeasurerErr
}

func num(v float64) string { return curve.FormatNumber(v) }
