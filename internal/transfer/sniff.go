package transfer

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectImageType sniffs the payload's content type from its leading magic
// bytes. Only image types are reported (jpeg, png, gif, tiff, webp and
// friends); for anything else it returns the empty string and the transfer
// leaves Content-Type unset.
func DetectImageType(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	mt := mimetype.Detect(data)
	if strings.HasPrefix(mt.String(), "image/") {
		// Strip any parameters mimetype may attach.
		if i := strings.IndexByte(mt.String(), ';'); i >= 0 {
			return mt.String()[:i]
		}
		return mt.String()
	}
	return ""
}
