package avatar

import (
	"encoding/base64"
	"strings"

	"github.com/h2non/filetype"
)

const fallbackMIME = "application/octet-stream"

// DataURI encodes content as a base64 data URI. The media type is sniffed
// from the content first, then taken from declaredType.
func DataURI(content []byte, declaredType string) string {
	mime := fallbackMIME
	if kind, err := filetype.Match(content); err == nil && kind != filetype.Unknown {
		mime = kind.MIME.Value
	} else if declaredType = strings.TrimSpace(declaredType); declaredType != "" {
		mime = declaredType
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)
}
