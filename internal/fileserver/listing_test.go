package fileserver

import (
	"bytes"
	"io/fs"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// fakeDirEntry is an fs.DirEntry with a fixed name and type.
type fakeDirEntry struct {
	name string
	typ  fs.FileMode
}

func (e fakeDirEntry) Name() string               { return e.name }
func (e fakeDirEntry) IsDir() bool                { return e.typ.IsDir() }
func (e fakeDirEntry) Type() fs.FileMode          { return e.typ }
func (e fakeDirEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrInvalid }

func TestClassifyEntries(t *testing.T) {
	des := []fs.DirEntry{
		fakeDirEntry{name: "zeta.txt"},
		fakeDirEntry{name: "beta", typ: fs.ModeDir},
		fakeDirEntry{name: "link", typ: fs.ModeSymlink},
		fakeDirEntry{name: "Alpha.md"},
		fakeDirEntry{name: "sock", typ: fs.ModeSocket},
		fakeDirEntry{name: "alpha", typ: fs.ModeDir},
		fakeDirEntry{name: "mid.sh"},
	}

	got := ClassifyEntries(des)
	want := []Entry{
		{Name: "alpha", Dir: true},
		{Name: "beta", Dir: true},
		{Name: "Alpha.md"},
		{Name: "mid.sh"},
		{Name: "zeta.txt"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ClassifyEntries() = %+v, want %+v", got, want)
	}
}

func TestParentPath(t *testing.T) {
	tests := map[string]string{
		"/":       "/",
		"/sub/":   "/",
		"/sub":    "/",
		"/a/b":    "/a",
		"/a/b/":   "/a",
		"/a/b/c/": "/a/b",
	}
	for in, want := range tests {
		if got := ParentPath(in); got != want {
			t.Errorf("ParentPath(%q) = %q, want %q", in, got, want)
		}
	}
}

type renderedItem struct {
	Kind, Href, Label string
}

func parseListing(t *testing.T, page []byte) (*goquery.Document, []renderedItem) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		t.Fatalf("parse listing: %v", err)
	}
	var items []renderedItem
	doc.Find(".list .item").Each(func(_ int, s *goquery.Selection) {
		a := s.Find(".name a")
		href, _ := a.Attr("href")
		items = append(items, renderedItem{
			Kind:  strings.TrimSpace(s.Find(".type").Text()),
			Href:  href,
			Label: a.Text(),
		})
	})
	return doc, items
}

func TestRenderListing_Root(t *testing.T) {
	page, err := RenderListing("/", true, []Entry{
		{Name: "docs", Dir: true},
		{Name: "readme.txt"},
	})
	if err != nil {
		t.Fatalf("RenderListing() error: %v", err)
	}

	doc, items := parseListing(t, page)
	if title := doc.Find("title").Text(); title != "Index of /" {
		t.Errorf("title = %q, want %q", title, "Index of /")
	}
	want := []renderedItem{
		{Kind: "DIR", Href: "/docs/", Label: "docs/"},
		{Kind: "FILE", Href: "/readme.txt", Label: "readme.txt"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("items = %+v, want %+v", items, want)
	}
}

func TestRenderListing_Subdirectory(t *testing.T) {
	page, err := RenderListing("/sub/", false, []Entry{
		{Name: "inner", Dir: true},
		{Name: "notes.sh"},
	})
	if err != nil {
		t.Fatalf("RenderListing() error: %v", err)
	}

	doc, items := parseListing(t, page)
	want := []renderedItem{
		{Kind: "UP", Href: "/", Label: ".."},
		{Kind: "DIR", Href: "/sub/inner/", Label: "inner/"},
		{Kind: "FILE", Href: "/sub/notes.sh", Label: "notes.sh"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("items = %+v, want %+v", items, want)
	}
	if doc.Find(".item.back").Length() != 1 {
		t.Error("expected exactly one parent-navigation row")
	}
}

func TestRenderListing_EscapesRequestPath(t *testing.T) {
	page, err := RenderListing("/<script>alert(1)</script>/", false, nil)
	if err != nil {
		t.Fatalf("RenderListing() error: %v", err)
	}
	if bytes.Contains(page, []byte("<script>alert(1)</script>")) {
		t.Error("request path was interpolated without escaping")
	}
	if !bytes.Contains(page, []byte("&lt;script&gt;")) {
		t.Error("expected escaped request path in page")
	}
}

func TestRenderListing_EncodesLinkTargets(t *testing.T) {
	page, err := RenderListing("/sub/", false, []Entry{
		{Name: "x#y", Dir: true},
		{Name: "a#b.txt"},
		{Name: "q?x.txt"},
		{Name: "100% done.txt"},
	})
	if err != nil {
		t.Fatalf("RenderListing() error: %v", err)
	}

	_, items := parseListing(t, page)
	hrefs := make(map[string]string)
	for _, it := range items {
		hrefs[it.Label] = it.Href
	}
	want := map[string]string{
		"..":            "/",
		"x#y/":          "/sub/x%23y/",
		"a#b.txt":       "/sub/a%23b.txt",
		"q?x.txt":       "/sub/q%3Fx.txt",
		"100% done.txt": "/sub/100%25%20done.txt",
	}
	if !reflect.DeepEqual(hrefs, want) {
		t.Errorf("hrefs = %v, want %v", hrefs, want)
	}
}
