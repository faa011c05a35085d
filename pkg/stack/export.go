package stack

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"segmentgeometry/internal/models"
)

// Format is an image file format slices can be written in
type Format string

// Supported export formats
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatTIFF Format = "tif"
	FormatBMP  Format = "bmp"
)

// ParseFormat accepts a format name or file extension, with or without a leading dot
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	}
	return "", errors.Errorf("unsupported image format %q (must be png, jpg, tif or bmp)", name)
}

// ExtractSlice renders one slice of the labelmap as an 8-bit image, 255 inside the
// segment and 0 outside. The image x axis is the mask width and the image y axis the
// mask height, so the result lines up with Provider.SliceMask.
func ExtractSlice(v *models.Volume, axis models.Axis, position int) (*image.Gray, error) {
	if err := checkSlice(v.Grid, axis, position); err != nil {
		return nil, err
	}
	w, h := v.SliceDims(axis)
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			vx, vy, vz := v.VoxelAt(axis, position, x, y)
			if v.Data[v.Index(vx, vy, vz)] != 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img, nil
}

// SaveSlice writes an image in the format implied by the filename extension
func SaveSlice(img image.Image, filename string) error {
	format, err := ParseFormat(filepath.Ext(filename))
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch format {
	case FormatJPEG:
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 100})
	case FormatTIFF:
		err = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(file, img)
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", filename)
	}
	return file.Close()
}

// SaveSliceSequence writes every slice along axis to outputDir as
// slice_<axis>_<index>.<format> and returns the number of files written.
func SaveSliceSequence(v *models.Volume, axis models.Axis, outputDir string, format Format) (int, error) {
	if !axis.Valid() {
		return 0, errors.Errorf("invalid axis %d", int(axis))
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, errors.Wrap(err, "failed to create output directory")
	}

	n := v.Count(axis)
	for pos := 0; pos < n; pos++ {
		img, err := ExtractSlice(v, axis, pos)
		if err != nil {
			return pos, err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.%s", axis, pos, format))
		if err := SaveSlice(img, filename); err != nil {
			return pos, err
		}
	}
	return n, nil
}
