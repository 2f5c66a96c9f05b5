package fileserver

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Entry is one immediate child of a listed directory.
type Entry struct {
	Name string
	Dir  bool
}

// listingItem is a rendered row of the index page.
type listingItem struct {
	Kind  string // UP, DIR or FILE
	Href  string
	Label string
}

type listingPage struct {
	Path  string
	Items []listingItem
}

// ClassifyEntries keeps directories and regular files and orders each group
// alphabetically, directories first. Other entry kinds (symlinks, sockets,
// devices) are dropped.
func ClassifyEntries(des []fs.DirEntry) []Entry {
	var dirs, files []Entry
	for _, de := range des {
		switch {
		case de.IsDir():
			dirs = append(dirs, Entry{Name: de.Name(), Dir: true})
		case de.Type().IsRegular():
			files = append(files, Entry{Name: de.Name()})
		}
	}

	// Collators keep scratch buffers, so one per call.
	c := collate.New(language.Und)
	byName := func(s []Entry) {
		sort.Slice(s, func(i, j int) bool {
			return c.CompareString(s[i].Name, s[j].Name) < 0
		})
	}
	byName(dirs)
	byName(files)

	return append(dirs, files...)
}

// ParentPath returns the URL path one level above urlPath,
// e.g. "/sub/" -> "/" and "/a/b" -> "/a".
func ParentPath(urlPath string) string {
	trimmed := strings.TrimRight(urlPath, "/")
	if trimmed == "" {
		return "/"
	}
	return path.Dir(trimmed)
}

// RenderListing produces the HTML index page for urlPath. When atRoot is
// false a parent-navigation row linking to ParentPath(urlPath) comes first.
func RenderListing(urlPath string, atRoot bool, entries []Entry) ([]byte, error) {
	page := listingPage{Path: urlPath}
	if !atRoot {
		page.Items = append(page.Items, listingItem{
			Kind:  "UP",
			Href:  hrefFor(ParentPath(urlPath)),
			Label: "..",
		})
	}
	for _, e := range entries {
		target := path.Join(urlPath, e.Name)
		item := listingItem{Kind: "FILE", Label: e.Name}
		if e.Dir {
			item.Kind = "DIR"
			target += "/"
			item.Label += "/"
		}
		item.Href = hrefFor(target)
		page.Items = append(page.Items, item)
	}

	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// hrefFor percent-encodes a URL path for use as a link target, so names
// containing '#', '?' or '%' request the entry they label.
func hrefFor(p string) string {
	return (&url.URL{Path: p}).String()
}

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Index of {{.Path}}</title>
<style>
:root {
  --bg: #0f1117;
  --panel: #161b22;
  --border: #2a2f3a;
  --text: #e6edf3;
  --muted: #9da7b3;
  --accent: #58a6ff;
}
* { box-sizing: border-box; }
body {
  margin: 0;
  padding: 40px 16px;
  background: var(--bg);
  color: var(--text);
  font-family: system-ui, -apple-system, "Segoe UI", Roboto, Ubuntu, sans-serif;
}
.container { max-width: 900px; margin: 0 auto; }
h1 { font-size: 22px; margin-bottom: 6px; font-weight: 600; }
.path { color: var(--muted); font-size: 14px; margin-bottom: 20px; }
.list {
  background: var(--panel);
  border: 1px solid var(--border);
  border-radius: 12px;
  overflow: hidden;
}
.item {
  display: flex;
  align-items: center;
  padding: 12px 16px;
  border-bottom: 1px solid var(--border);
}
.item:last-child { border-bottom: none; }
.item:hover { background: rgba(255,255,255,0.03); }
.type {
  width: 70px;
  font-size: 12px;
  text-transform: uppercase;
  letter-spacing: .04em;
  color: var(--muted);
  flex-shrink: 0;
}
.name a { color: var(--accent); text-decoration: none; word-break: break-all; }
.name a:hover { text-decoration: underline; }
.back .type { color: #f2a365; }
</style>
</head>
<body>
  <div class="container">
    <h1>Index of {{.Path}}</h1>
    <div class="path">{{.Path}}</div>
    <div class="list">
{{- range .Items}}
      <div class="item{{if eq .Kind "UP"}} back{{end}}">
        <div class="type">{{.Kind}}</div>
        <div class="name"><a href="{{.Href}}">{{.Label}}</a></div>
      </div>
{{- end}}
    </div>
  </div>
</body>
</html>
`))
