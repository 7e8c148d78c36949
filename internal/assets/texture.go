package assets

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"learn-gl/internal/assets/pixels"
)

// Texture is a 2D RGBA texture with mipmaps.
type Texture struct {
	ID            uint32
	Width, Height int
}

// LoadTexture decodes an image file, flips it to GL orientation and uploads it.
func LoadTexture(path string) (*Texture, error) {
	img, err := pixels.Load(path, true)
	if err != nil {
		return nil, err
	}
	return NewTexture(img), nil
}

// NewTexture uploads img with mirrored-repeat wrapping and trilinear filtering.
// Images larger than the driver's limit are scaled down first.
func NewTexture(img *image.RGBA) *Texture {
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	img = pixels.Fit(img, int(maxSize))

	t := &Texture{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.MIRRORED_REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.MIRRORED_REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(t.Width),
		int32(t.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// Checkerboard builds a fallback texture for demos whose image is missing.
func Checkerboard(size, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := img.PixOffset(x, y)
			v := uint8(40)
			if (x/cell+y/cell)%2 == 0 {
				v = 220
			}
			img.Pix[i+0] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
			img.Pix[i+3] = 255
		}
	}
	return img
}

// Bind binds the texture to unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

func (t *Texture) Delete() {
	gl.DeleteTextures(1, &t.ID)
	t.ID = 0
}
