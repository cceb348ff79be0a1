package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // LDR JPEG texture input
	_ "image/png"  // LDR PNG texture input

	_ "golang.org/x/image/tiff" // auxiliary TIFF texture/environment-map input

	"os"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// ImageData is a decoded PNG/JPEG/TIFF texture or environment map, held as
// linear Vec3 radiance/reflectance samples. It satisfies emitters.
// EnvironmentImage so an Environment emitter can be built directly from a
// loaded image.
type ImageData struct {
	width, height int
	Pixels        []core.Vec3
}

// LoadImage decodes a PNG, JPEG, or TIFF file into linear Vec3 samples.
// image.Decode auto-detects the format from the registered decoders above;
// golang.org/x/image/tiff extends that registry to cover TIFF inputs the
// stdlib alone can't read, the auxiliary texture/environment-map format this
// renderer's scene format accepts alongside PNG/JPEG.
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{width: width, height: height, Pixels: pixels}, nil
}

// Width satisfies emitters.EnvironmentImage.
func (d *ImageData) Width() int { return d.width }

// Height satisfies emitters.EnvironmentImage.
func (d *ImageData) Height() int { return d.height }

// At returns the linear sample at (x,y), clamping out-of-range coordinates
// to the image border rather than panicking — lat-long environment lookups
// and bilinear texture fetches both walk slightly outside
// [0,width)x[0,height) at the seams.
func (d *ImageData) At(x, y int) core.Spectrum {
	if x < 0 {
		x = 0
	}
	if x >= d.width {
		x = d.width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= d.height {
		y = d.height - 1
	}
	return d.Pixels[y*d.width+x]
}
