package image

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
)

const MaxAssetSize = 10 * 1024 * 1024 // 10MB

// ReEncode decodes and re-encodes a downloaded image so that stored assets
// are normalized copies rather than passthrough bytes. Formats the decoder
// does not recognize (ico, svg) are returned unchanged.
func ReEncode(data []byte, contentType string) ([]byte, string, error) {
	if len(data) > MaxAssetSize {
		return nil, "", fmt.Errorf("asset exceeds %d bytes", MaxAssetSize)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, contentType, nil
	}

	buf := new(bytes.Buffer)

	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: 85})
	case "png":
		err = png.Encode(buf, img)
	case "webp":
		err = webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: 85})
	default:
		return data, contentType, nil
	}

	if err != nil {
		return nil, "", fmt.Errorf("could not encode image: %v", err)
	}

	return buf.Bytes(), fmt.Sprintf("image/%s", format), nil
}
