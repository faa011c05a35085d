package stack

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"segmentgeometry/internal/models"
)

// imageExtensions lists the file types read from a stack directory
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// LoadSlices reads every image in dir as one slice along the slice axis.
//
// Files are ordered by the number embedded in their names, so slice_2.png sorts
// before slice_10.png. All images must share the same dimensions. Colour images are
// reduced to their luminance.
func LoadSlices(dir string, log logrus.FieldLogger) ([]models.Slice, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read stack directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no images found in %s", dir)
	}

	sort.SliceStable(files, func(i, j int) bool {
		ni, nj := extractNumber(files[i]), extractNumber(files[j])
		if ni != nj {
			return ni < nj
		}
		return files[i] < files[j]
	})

	slices := make([]models.Slice, 0, len(files))
	for i, name := range files {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load image %s", name)
		}
		s := imageToSlice(img)
		s.Index = i
		s.Axis = models.AxisSlice
		s.Filename = name
		if i > 0 && (s.Width != slices[0].Width || s.Height != slices[0].Height) {
			return nil, errors.Errorf("image %s is %dx%d, expected %dx%d", name, s.Width, s.Height, slices[0].Width, slices[0].Height)
		}
		slices = append(slices, s)
	}

	log.WithFields(logrus.Fields{
		"dir":    dir,
		"slices": len(slices),
		"width":  slices[0].Width,
		"height": slices[0].Height,
	}).Info("Loaded image stack")
	return slices, nil
}

// LoadStack reads a mask stack into a labelmap. Pixels brighter than threshold
// (0-255) are inside the segment.
func LoadStack(dir string, spacing models.Spacing, threshold float64, log logrus.FieldLogger) (*models.Volume, error) {
	if !spacing.Valid() {
		return nil, errors.Errorf("invalid spacing %+v", spacing)
	}
	slices, err := LoadSlices(dir, log)
	if err != nil {
		return nil, err
	}
	w, h := slices[0].Width, slices[0].Height
	vol := models.NewVolume(w, h, len(slices), spacing)
	for z, s := range slices {
		for i, value := range s.Values {
			if value > threshold {
				vol.Data[z*w*h+i] = 1
			}
		}
	}
	return vol, nil
}

// LoadIntensity reads a grey-value stack into an intensity volume
func LoadIntensity(dir string, log logrus.FieldLogger) (*models.Intensity, error) {
	slices, err := LoadSlices(dir, log)
	if err != nil {
		return nil, err
	}
	w, h := slices[0].Width, slices[0].Height
	vol := models.NewIntensity(w, h, len(slices))
	for z, s := range slices {
		copy(vol.Data[z*w*h:(z+1)*w*h], s.Values)
	}
	return vol, nil
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var digits strings.Builder
	for _, c := range base {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

// loadImage decodes any registered image format
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

// imageToSlice converts an image to 0-255 luminance values in row-major order
func imageToSlice(img image.Image) models.Slice {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	values := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R 601 luma on 16-bit channels
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			values[y*w+x] = lum / 257
		}
	}
	return models.Slice{Width: w, Height: h, Values: values}
}
