// Package framesource decodes the source formats spec §11.2/§11.3 ask the
// CLI to accept — PNG, JPEG, GIF, BMP, and both still and animated WebP —
// into an ordered sequence of image.Image frames (which the CLI wraps with
// hicolorgif.FromImage before Encoder.Encode), correcting JPEG EXIF
// orientation along the way.
//
// Not in the teacher, which only ever read one pre-decoded image; grounded
// on deepteams/webp's animation.AnimDecoder walk (HasNext/NextFrame) for
// the animated case and the stdlib image registry for everything else.
package framesource

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/evanoberholster/imagemeta"

	webpanim "github.com/deepteams/webp/animation"
	_ "github.com/deepteams/webp" // registers "webp" with image.RegisterFormat
	_ "golang.org/x/image/bmp"    // registers "bmp"
)

// Frame is one decoded source frame: its pixels and how long it holds
// before the next (zero for a non-animated still).
type Frame struct {
	Pixels image.Image
	Delay  int // hundredths of a second; 0 for a still image
}

// Source is a finite, forward-only frame iterator: one call per frame,
// ok=false once exhausted. Kept deliberately narrow (the same
// coroutine/iterator shape the planner uses internally) so the CORE
// pipeline never has to know whether it's converting a single still or
// walking a decoded animation.
type Source interface {
	NextFrame() (img image.Image, delayHundredths int, ok bool, err error)
}

// sliceSource adapts an eagerly-decoded []Frame to Source; every format
// this package supports is small enough in practice (a single image, or
// one animation's worth of frames) that decoding the whole input up front
// and iterating over a slice is simpler than a true streaming decoder,
// while still presenting the narrow forward-only contract callers depend
// on.
type sliceSource struct {
	frames []Frame
	next   int
}

// Open decodes every frame of r (see Decode) and returns it as a Source.
func Open(r io.Reader, format string) (Source, error) {
	frames, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	return &sliceSource{frames: frames}, nil
}

func (s *sliceSource) NextFrame() (image.Image, int, bool, error) {
	if s.next >= len(s.frames) {
		return nil, 0, false, nil
	}
	f := s.frames[s.next]
	s.next++
	return f.Pixels, f.Delay, true, nil
}

// Decode reads every frame out of r. For a still image (PNG/JPEG/BMP, or a
// single-frame WebP/GIF) the result has exactly one Frame with Delay 0.
// For an animated WebP or GIF it returns one Frame per animation frame with
// that frame's hold time.
func Decode(r io.Reader, format string) ([]Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("framesource: reading input: %w", err)
	}

	switch format {
	case "webp":
		return decodeWebP(data)
	case "gif":
		return decodeGIF(data)
	case "jpeg", "jpg":
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("framesource: decoding jpeg: %w", err)
		}
		return []Frame{{Pixels: correctOrientation(data, img)}}, nil
	case "png":
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("framesource: decoding png: %w", err)
		}
		return []Frame{{Pixels: img}}, nil
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("framesource: decoding %s: %w", format, err)
		}
		return []Frame{{Pixels: img}}, nil
	}
}

func decodeGIF(data []byte) ([]Frame, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("framesource: decoding gif: %w", err)
	}

	frames := make([]Frame, len(g.Image))
	canvas := image.NewRGBA(image.Rect(0, 0, g.Config.Width, g.Config.Height))
	for i, pal := range g.Image {
		drawOver(canvas, pal)
		frames[i] = Frame{Pixels: cloneRGBA(canvas), Delay: g.Delay[i]}
	}
	return frames, nil
}

func decodeWebP(data []byte) ([]Frame, error) {
	anim, err := webpanim.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("framesource: decoding webp: %w", err)
	}
	if err := anim.DecodeFrames(); err != nil {
		return nil, fmt.Errorf("framesource: decoding webp frames: %w", err)
	}

	dec := webpanim.NewAnimDecoder(anim)
	var frames []Frame
	for dec.HasNext() {
		img, dur, err := dec.NextFrame()
		if err != nil {
			return nil, fmt.Errorf("framesource: compositing webp frame: %w", err)
		}
		frames = append(frames, Frame{Pixels: cloneRGBAFromNRGBA(img), Delay: int(dur.Milliseconds() / 10)})
	}
	if len(frames) == 0 {
		return nil, webpanim.ErrNoFrames
	}
	return frames, nil
}

// correctOrientation rotates/flips img per the source JPEG's EXIF
// orientation tag, per spec §11.3. A missing or unreadable EXIF block
// leaves img untouched rather than failing the whole decode.
func correctOrientation(data []byte, img image.Image) image.Image {
	x, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}
	o := x.Orientation()
	if o <= 1 || o > 8 {
		return img
	}
	return applyOrientation(img, o)
}

// applyOrientation applies one of the 8 EXIF orientation transforms (TIFF
// tag 0x0112 values 1-8) to img.
func applyOrientation(img image.Image, o int) image.Image {
	switch o {
	case 2:
		return flipH(img)
	case 3:
		return rotate180(img)
	case 4:
		return flipV(img)
	case 5:
		return flipH(rotate90(img))
	case 6:
		return rotate90(img)
	case 7:
		return flipH(rotate270(img))
	case 8:
		return rotate270(img)
	default:
		return img
	}
}

func rotate90(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(h-1-y, x, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

func rotate270(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(y, w-1-x, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

func rotate180(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(w-1-x, h-1-y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

func flipH(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(w-1-x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

func flipV(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, h-1-y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

func drawOver(canvas *image.RGBA, src image.Image) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := src.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			canvas.Set(x, y, src.At(x, y))
		}
	}
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}

func cloneRGBAFromNRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, src.At(x, y))
		}
	}
	return out
}
