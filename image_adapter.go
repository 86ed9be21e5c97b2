package hicolorgif

import "image"

// imageBuffer adapts a standard library image.Image to PixelBuffer without
// copying it into a Color slice up front, the same direct-pixel-read
// approach the teacher's getImagePixels used before flattening to bytes.
type imageBuffer struct {
	img  image.Image
	minX int
	minY int
	w, h int
}

// FromImage wraps a decoded image.Image as a PixelBuffer for the pipeline.
func FromImage(img image.Image) PixelBuffer {
	b := img.Bounds()
	return &imageBuffer{img: img, minX: b.Min.X, minY: b.Min.Y, w: b.Dx(), h: b.Dy()}
}

func (b *imageBuffer) Width() int  { return b.w }
func (b *imageBuffer) Height() int { return b.h }

func (b *imageBuffer) At(x, y int) Color {
	r, g, bl, a := b.img.At(b.minX+x, b.minY+y).RGBA()
	return Color{
		A: uint8(a >> 8),
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(bl >> 8),
	}
}
