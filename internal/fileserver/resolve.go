package fileserver

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Resolve maps a raw (still percent-encoded) request path onto the served
// root. The result is an absolute, cleaned filesystem path that is either the
// root itself or lies beneath it; anything else yields ErrForbidden.
//
// The request path is joined with filesystem semantics, so ".." segments,
// including ones produced by decoding "%2f", are resolved before the
// containment check. No filesystem access happens here.
func Resolve(root, rawPath string) (string, error) {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", fmt.Errorf("%w: decode path %q: %v", ErrBadRequest, rawPath, err)
	}

	full := filepath.Join(root, filepath.FromSlash(decoded))
	if !IsInside(root, full) {
		return "", fmt.Errorf("%w: %q resolves outside the served root", ErrForbidden, decoded)
	}
	return full, nil
}

// IsInside reports whether target equals base or is nested beneath it.
// Both paths are cleaned first; the prefix test requires a separator
// boundary so "/srv/public-evil" is not inside "/srv/public".
func IsInside(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)
	if target == base {
		return true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(target, prefix)
}
