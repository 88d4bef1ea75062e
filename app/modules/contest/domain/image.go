package contestdomain

import (
	"errors"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedImage is returned for uploads that are not JPEG, PNG or WebP.
var ErrUnsupportedImage = errors.New("image must be a JPEG, PNG or WebP file")

// SniffLength is how many leading bytes DetectImage needs.
const SniffLength = 3072

// ImageType is a recognised upload format.
type ImageType struct {
	ContentType string
	Ext         string
}

var allowedImages = []ImageType{
	{ContentType: "image/jpeg", Ext: ".jpg"},
	{ContentType: "image/png", Ext: ".png"},
	{ContentType: "image/webp", Ext: ".webp"},
}

// DetectImage identifies an upload from its leading bytes. The client's declared content type
// is never trusted.
func DetectImage(head []byte) (ImageType, error) {
	detected := mimetype.Detect(head)
	for _, t := range allowedImages {
		if detected.Is(t.ContentType) {
			return t, nil
		}
	}
	return ImageType{}, ErrUnsupportedImage
}
