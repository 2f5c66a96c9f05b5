package fileserver

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	root := filepath.FromSlash("/srv/public")

	tests := []struct {
		name    string
		rawPath string
		want    string
		wantErr error
	}{
		{name: "root", rawPath: "/", want: root},
		{name: "empty", rawPath: "", want: root},
		{name: "nested file", rawPath: "/docs/readme.txt", want: filepath.Join(root, "docs", "readme.txt")},
		{name: "dot segments inside root", rawPath: "/a/../b", want: filepath.Join(root, "b")},
		{name: "back to root", rawPath: "/sub/..", want: root},
		{name: "absolute looking path stays inside", rawPath: "//etc/passwd", want: filepath.Join(root, "etc", "passwd")},
		{name: "escaped space", rawPath: "/my%20file.txt", want: filepath.Join(root, "my file.txt")},
		{name: "parent of root", rawPath: "/..", wantErr: ErrForbidden},
		{name: "plain traversal", rawPath: "/../../etc/passwd", wantErr: ErrForbidden},
		{name: "encoded separators", rawPath: "/..%2f..%2fsecret", wantErr: ErrForbidden},
		{name: "encoded dots", rawPath: "/%2e%2e/%2e%2e/secret", wantErr: ErrForbidden},
		{name: "sibling with shared prefix", rawPath: "/../public-evil/x", wantErr: ErrForbidden},
		{name: "bad escape", rawPath: "/bad%zz", wantErr: ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(root, tt.rawPath)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.rawPath, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.rawPath, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.rawPath, got, tt.want)
			}
		})
	}
}

func TestIsInside(t *testing.T) {
	tests := []struct {
		base, target string
		want         bool
	}{
		{"/srv/public", "/srv/public", true},
		{"/srv/public", "/srv/public/a/b", true},
		{"/srv/public", "/srv/public/", true},
		{"/srv/public", "/srv/public-evil", false},
		{"/srv/public", "/srv", false},
		{"/srv/public", "/etc/passwd", false},
		{"/", "/etc/passwd", true},
	}

	for _, tt := range tests {
		base, target := filepath.FromSlash(tt.base), filepath.FromSlash(tt.target)
		if got := IsInside(base, target); got != tt.want {
			t.Errorf("IsInside(%q, %q) = %v, want %v", base, target, got, tt.want)
		}
	}
}

func TestMIMEType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"notes.sh", "text/x-shellscript"},
		{"setup.BASH", "text/x-shellscript"},
		{"install.ps1", "text/plain"},
		{"run.bat", "text/plain"},
		{"main.py", "text/x-python"},
		{"app.js", "text/javascript"},
		{"README.md", "text/markdown"},
		{"index.html", "text/html"},
		{"data.json", "application/json"},
		{"style.css", "text/css"},
		{"data.bin", DefaultMIMEType},
		{"Makefile", DefaultMIMEType},
		{"archive.tar.gz", DefaultMIMEType},
	}

	for _, tt := range tests {
		if got := MIMEType(tt.name); got != tt.want {
			t.Errorf("MIMEType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
