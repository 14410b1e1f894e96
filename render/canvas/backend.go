// Package canvasbackend implements label.Backend and label.Surface on
// top of github.com/tdewolff/canvas, rasterizing at one pixel per
// label unit.
package canvasbackend

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/EskenderDev/etiqueta/label"
)

// Label units map to canvas millimeters; faces are created in points.
const (
	ptPerUnit = 1.0 / 0.352777
	// resolution at which surfaces rasterize: one pixel per unit.
	pixelsPerUnit = 1.0
)

// Options configures the backend.
type Options struct {
	// BaseDir roots relative font paths. When empty, relative paths
	// are rejected rather than resolved against the process cwd.
	BaseDir string
	// Fonts maps resource names to raw font file bytes, letting
	// callers inject typefaces without touching the filesystem.
	Fonts map[string][]byte
}

// Backend measures text and allocates rasterizable surfaces. Font
// families are cached per (name, src, style); a failed load falls back
// to the system sans-serif face.
type Backend struct {
	baseDir   string
	fontBlobs map[string][]byte

	mu       sync.Mutex
	families map[string]*familyEntry
	fallback *canvas.FontFamily
}

type familyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

var _ label.Backend = (*Backend)(nil)

// New creates a backend rooted at opts.BaseDir with the injected font
// resources.
func New(opts Options) *Backend {
	blobs := make(map[string][]byte, len(opts.Fonts))
	for name, data := range opts.Fonts {
		if name != "" && len(data) > 0 {
			blobs[name] = data
		}
	}
	return &Backend{
		baseDir:   opts.BaseDir,
		fontBlobs: blobs,
		families:  map[string]*familyEntry{},
	}
}

// TextWidth returns the rendered width of text in label units.
func (b *Backend) TextWidth(text string, font label.Font, size float64) (float64, error) {
	face, err := b.face(font, size, color.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// NewSurface allocates a white surface of width x height label units.
func (b *Backend) NewSurface(width, height float64) (label.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvasbackend: surface dimensions must be positive, got %gx%g", width, height)
	}
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	// Top-left origin so surface coordinates match label coordinates.
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(color.RGBA{})
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))
	return &surface{backend: b, canvas: c, ctx: ctx}, nil
}

type surface struct {
	backend *Backend
	canvas  *canvas.Canvas
	ctx     *canvas.Context
}

func (s *surface) Push() { s.ctx.Push() }
func (s *surface) Pop()  { s.ctx.Pop() }

func (s *surface) Rotate(degrees, x, y float64) {
	s.ctx.RotateAbout(degrees, x, y)
}

func (s *surface) Text(x, y float64, text string, font label.Font, size float64, col color.Color) error {
	face, err := s.backend.face(font, size, col)
	if err != nil {
		return err
	}
	line := canvas.NewTextLine(face, text, canvas.Left)
	// (x, y) is the top-left corner of the run; the baseline sits one
	// ascent below it.
	s.ctx.DrawText(x, y+face.Metrics().Ascent, line)
	return nil
}

func (s *surface) Image(x, y, width, height float64, img image.Image) error {
	if img == nil {
		return fmt.Errorf("canvasbackend: draw of a nil image")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("canvasbackend: image rect must be positive, got %gx%g", width, height)
	}
	img = resample(img, width, height)
	dpmm := float64(img.Bounds().Dx()) / width
	s.ctx.DrawImage(x, y, img, canvas.DPMM(dpmm))
	return nil
}

func (s *surface) Raster() image.Image {
	return rasterizer.Draw(s.canvas, canvas.DPMM(pixelsPerUnit), canvas.DefaultColorSpace)
}

// resample fits a bitmap to the target rect. A width-derived DPMM can
// only scale uniformly, so bitmaps whose aspect ratio differs from the
// rect are resampled to the rect's pixel dimensions first.
func resample(img image.Image, width, height float64) image.Image {
	wPx := int(width*pixelsPerUnit + 0.5)
	hPx := int(height*pixelsPerUnit + 0.5)
	if wPx < 1 {
		wPx = 1
	}
	if hPx < 1 {
		hPx = 1
	}
	if img.Bounds().Dx() == wPx && img.Bounds().Dy() == hPx {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, wPx, hPx))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

func (b *Backend) face(font label.Font, size float64, col color.Color) (*canvas.FontFace, error) {
	if size <= 0 {
		return nil, fmt.Errorf("canvasbackend: font size must be positive, got %g", size)
	}
	family, style, err := b.family(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size*ptPerUnit, col, style, canvas.FontNormal), nil
}

func (b *Backend) family(font label.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := font.Name + "|" + font.Src + "|" + font.Style
	b.mu.Lock()
	defer b.mu.Unlock()

	if entry, ok := b.families[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	name := font.Name
	if name == "" {
		name = "Body"
	}
	family := canvas.NewFontFamily(name)
	if err := b.load(family, font, style); err != nil {
		fallback, fbErr := b.systemFallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, fmt.Errorf("canvasbackend: load font %q: %w", name, err)
		}
		b.families[key] = &familyEntry{family: fallback, style: canvas.FontRegular}
		return fallback, canvas.FontRegular, nil
	}

	b.families[key] = &familyEntry{family: family, style: style}
	return family, style, nil
}

// load tries injected bytes first (by name, then by src), then the
// filesystem path in Src.
func (b *Backend) load(family *canvas.FontFamily, font label.Font, style canvas.FontStyle) error {
	if blob, ok := b.fontBlobs[font.Name]; ok {
		return family.LoadFont(blob, 0, style)
	}
	if blob, ok := b.fontBlobs[font.Src]; ok {
		return family.LoadFont(blob, 0, style)
	}
	if font.Src == "" {
		return fmt.Errorf("font %q has no src and no injected bytes", font.Name)
	}
	path := font.Src
	if !filepath.IsAbs(path) {
		if b.baseDir == "" {
			return fmt.Errorf("relative font path %q needs a base directory", path)
		}
		path = filepath.Join(b.baseDir, path)
	}
	return family.LoadFontFile(path, style)
}

func (b *Backend) systemFallback() (*canvas.FontFamily, error) {
	if b.fallback != nil {
		return b.fallback, nil
	}
	family := canvas.NewFontFamily("fallback")
	if err := family.LoadSystemFont("sans-serif", canvas.FontRegular); err != nil {
		return nil, err
	}
	b.fallback = family
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
