package renderer

import (
	"image"
	"image/color"
	"strings"

	"SiteViewer/internal/logger"

	"github.com/go-gl/gl/v2.1/gl"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const DefaultFontSize = 14

type faceKey struct {
	name string
	size float64
}

// FaceCache resolves font names to rasterizer faces. Names are matched
// loosely: anything mentioning "mono" or "courier" gets Go Mono, everything
// else Go Regular.
type FaceCache struct {
	faces map[faceKey]font.Face
}

func NewFaceCache() *FaceCache {
	return &FaceCache{faces: make(map[faceKey]font.Face)}
}

func (fc *FaceCache) Face(name string, size float64) font.Face {
	if size <= 0 {
		size = DefaultFontSize
	}
	key := faceKey{name: strings.ToLower(name), size: size}
	if f, ok := fc.faces[key]; ok {
		return f
	}

	data := goregular.TTF
	if strings.Contains(key.name, "mono") || strings.Contains(key.name, "courier") {
		data = gomono.TTF
	}

	var face font.Face = basicfont.Face7x13
	parsed, err := opentype.Parse(data)
	if err == nil {
		face, err = opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	if err != nil {
		logger.Log.Warn("Falling back to fixed bitmap font", zap.String("font", name), zap.Error(err))
		face = basicfont.Face7x13
	}
	fc.faces[key] = face
	return face
}

// RasterizeLabel renders the label text into an RGBA image whose first row is
// the bottom scanline, the order glDrawPixels expects. It returns nil for
// empty text.
func RasterizeLabel(face font.Face, l Label) *image.RGBA {
	if l.Text == "" {
		return nil
	}
	metrics := face.Metrics()
	width := font.MeasureString(face, l.Text).Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if width <= 0 || height <= 0 {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst: img,
		Src: image.NewUniform(color.NRGBA{
			R: channel(l.Color.R),
			G: channel(l.Color.G),
			B: channel(l.Color.B),
			A: channel(l.Color.A),
		}),
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(l.Text)

	flipped := image.NewRGBA(img.Bounds())
	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+width*4]
		dst := flipped.Pix[(height-1-y)*flipped.Stride:]
		copy(dst, src)
	}
	return flipped
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// OpenGLText draws labels by rasterizing them on the CPU and blitting the
// pixels at the label position inside the viewport.
type OpenGLText struct {
	faces *FaceCache
}

func NewOpenGLText() *OpenGLText {
	return &OpenGLText{faces: NewFaceCache()}
}

func (t *OpenGLText) DrawText(vp Viewport, l Label) {
	img := RasterizeLabel(t.faces.Face(l.Font, l.Size), l)
	if img == nil {
		return
	}
	size := img.Bounds().Size()

	gl.PushAttrib(gl.ENABLE_BIT | gl.COLOR_BUFFER_BIT | gl.CURRENT_BIT)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA) // pixels are premultiplied
	gl.WindowPos2i(int32(vp.X+l.X), int32(vp.Y+l.Y))
	gl.DrawPixels(int32(size.X), int32(size.Y), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PopAttrib()
}
