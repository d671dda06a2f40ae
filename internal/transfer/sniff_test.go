package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectImageType(t *testing.T) {
	webp := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
	webp = append(webp, []byte("WEBPVP8 ")...)

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "image/gif"},
		{"tiff_little_endian", []byte{0x49, 0x49, 0x2A, 0x00}, "image/tiff"},
		{"tiff_big_endian", []byte{0x4D, 0x4D, 0x00, 0x2A}, "image/tiff"},
		{"webp", webp, "image/webp"},
		{"plain_text", []byte("hello world"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectImageType(tt.data))
		})
	}
}
