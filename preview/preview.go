// Package preview turns a picked file into a locally renderable handle.
package preview

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrEmpty is returned when there is nothing to preview.
var ErrEmpty = errors.New("preview: no file data")

// DataURI encodes data as a data URI. The declared media type wins; when it is
// empty the type is sniffed from the content.
func DataURI(data []byte, mediaType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		mediaType = DetectMediaType(data)
	}

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mediaType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}

// DetectMediaType sniffs the media type of data, without parameters.
func DetectMediaType(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}
