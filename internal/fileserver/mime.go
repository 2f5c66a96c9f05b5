package fileserver

import (
	"path/filepath"
	"strings"
)

// DefaultMIMEType is used for unmapped or missing extensions.
const DefaultMIMEType = "application/octet-stream"

// MIMETypes maps a lowercase file extension (with leading dot) to the
// Content-Type it is served with.
var MIMETypes = map[string]string{
	".sh":   "text/x-shellscript",
	".bash": "text/x-shellscript",
	".ps1":  "text/plain",
	".bat":  "text/plain",
	".py":   "text/x-python",
	".js":   "text/javascript",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".json": "application/json",
	".css":  "text/css",
}

// MIMEType returns the Content-Type for a file name.
func MIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mime, ok := MIMETypes[ext]; ok {
		return mime
	}
	return DefaultMIMEType
}
