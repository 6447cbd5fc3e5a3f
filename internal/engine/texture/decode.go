package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
)

// TGA image types.
const (
	tgaUncompressed = 2
	tgaRLE          = 10
)

var errTGATruncated = errors.New("tga: data truncated")

// Decode decodes an image file into RGBA. The format is taken from the file
// extension for TGA, which has no magic number, and sniffed otherwise.
func Decode(name string, data []byte) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return decodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// ApplyColorKey makes every pixel matching key transparent black, within a
// per-channel tolerance.
func ApplyColorKey(img *image.RGBA, key [3]uint8, tolerance uint8) {
	near := func(a, b uint8) bool {
		if a > b {
			return a-b <= tolerance
		}
		return b-a <= tolerance
	}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if near(img.Pix[i], key[0]) && near(img.Pix[i+1], key[1]) && near(img.Pix[i+2], key[2]) {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
		}
	}
}

// tgaReader writes BGR(A) pixels into an RGBA image in file order.
type tgaReader struct {
	img        *image.RGBA
	width      int
	height     int
	bpp        int
	bottomUp   bool
	next       int
	pixelCount int
}

func (r *tgaReader) put(px []byte) {
	x := r.next % r.width
	y := r.next / r.width
	if r.bottomUp {
		y = r.height - 1 - y
	}
	i := r.img.PixOffset(x, y)
	r.img.Pix[i] = px[2]
	r.img.Pix[i+1] = px[1]
	r.img.Pix[i+2] = px[0]
	r.img.Pix[i+3] = 255
	if r.bpp == 4 {
		r.img.Pix[i+3] = px[3]
	}
	r.next++
}

func (r *tgaReader) done() bool {
	return r.next >= r.pixelCount
}

// decodeTGA supports uncompressed and RLE true-color images at 24 or 32 bits.
func decodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bits := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if imageType != tgaUncompressed && imageType != tgaRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bits != 24 && bits != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bits)
	}
	if 18+idLength > len(data) {
		return nil, errTGATruncated
	}
	pixels := data[18+idLength:]

	r := &tgaReader{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		width:      width,
		height:     height,
		bpp:        bits / 8,
		bottomUp:   descriptor&0x20 == 0,
		pixelCount: width * height,
	}

	if imageType == tgaUncompressed {
		if len(pixels) < r.pixelCount*r.bpp {
			return nil, errTGATruncated
		}
		for off := 0; !r.done(); off += r.bpp {
			r.put(pixels[off:])
		}
		return r.img, nil
	}

	off := 0
	for !r.done() && off < len(pixels) {
		packet := pixels[off]
		off++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if off+r.bpp > len(pixels) {
				break
			}
			for i := 0; i < count && !r.done(); i++ {
				r.put(pixels[off:])
			}
			off += r.bpp
			continue
		}
		for i := 0; i < count && !r.done() && off+r.bpp <= len(pixels); i++ {
			r.put(pixels[off:])
			off += r.bpp
		}
	}
	return r.img, nil
}
