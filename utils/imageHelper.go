package utils

import (
	"bytes"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

const thumbnailWidth = 320

// MakeThumbnail downsizes an uploaded photo for list views. Aspect ratio is
// preserved; output is always JPEG.
func MakeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ThumbnailObjectName derives the thumbnail locator from the original's.
func ThumbnailObjectName(objectName string) string {
	return objectName + "_thumb.jpg"
}
