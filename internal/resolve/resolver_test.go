package resolve

import (
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/f4ah6o/pagesrv/internal/config"
)

func siteFS() fstest.MapFS {
	page := &fstest.MapFile{Data: []byte("<main></main>")}
	return fstest.MapFS{
		"public/pages/index-home/index.html":                  page,
		"public/pages/about-me/index.html":                    page,
		"public/pages/404/index.html":                         page,
		"public/pages/adventures/index.html":                  page,
		"public/pages/adventures/assets/photo.jpg":            {Data: []byte{0xff, 0xd8}},
		"public/pages/adventures/trip-2023/index.html":        page,
		"public/pages/adventures/japan/kyoto-2019/index.html": page,
		"public/styles/globals.css":                           {Data: []byte("body{}")},
		"assets/favicon.ico":                                  {Data: []byte{0, 0, 1, 0}},
	}
}

func TestClassify(t *testing.T) {
	exts := []string{".jpg", ".png", ".ico"}
	tests := []struct {
		path string
		want Kind
	}{
		{"/styles/globals.css", KindStylesheet},
		{"/a/b/c.css", KindStylesheet},
		{"/assets/photo.jpg", KindImage},
		{"/logo.png", KindImage},
		{"/favicon.ico", KindImage},
		{"/", KindPage},
		{"/about", KindPage},
		{"/photo.jpeg", KindPage},
		{"/notes.css/more", KindPage},
		{"", KindPage},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Classify(tt.path, ".css", exts); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		path     string
		wantDirs []string
		wantLeaf string
	}{
		{"/", nil, ""},
		{"/about", nil, "about"},
		{"/adventures/trip", []string{"adventures"}, "trip"},
		{"/adventures/", []string{"adventures"}, ""},
		{"/a/b/c", []string{"a", "b"}, "c"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			dirs, leaf := Segments(tt.path)
			if !reflect.DeepEqual(dirs, tt.wantDirs) || leaf != tt.wantLeaf {
				t.Errorf("Segments(%q) = (%q, %q), want (%q, %q)", tt.path, dirs, leaf, tt.wantDirs, tt.wantLeaf)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	fsys := siteFS()
	exact := Matcher{Mode: config.MatchExact}

	tests := []struct {
		name      string
		segments  []string
		wantDir   string
		wantDepth int
	}{
		{"No segments", nil, "public/pages", 0},
		{"One level", []string{"adventures"}, "public/pages/adventures", 1},
		{"Two levels", []string{"adventures", "japan"}, "public/pages/adventures/japan", 2},
		{"Stops at first miss", []string{"nope", "adventures"}, "public/pages", 0},
		{"Does not skip a missing level", []string{"adventures", "nope", "japan"}, "public/pages/adventures", 1},
		{"Exact walk ignores substrings", []string{"advent"}, "public/pages", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, depth, err := Walk(fsys, "public/pages", tt.segments, exact)
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if dir != tt.wantDir || depth != tt.wantDepth {
				t.Errorf("Walk() = (%q, %d), want (%q, %d)", dir, depth, tt.wantDir, tt.wantDepth)
			}
			if depth > len(tt.segments) {
				t.Errorf("Walk() consumed %d of %d segments", depth, len(tt.segments))
			}
		})
	}
}

func TestWalkMissingRoot(t *testing.T) {
	_, _, err := Walk(fstest.MapFS{}, "public/pages", []string{"a"}, Matcher{Mode: config.MatchExact})
	if err == nil {
		t.Error("Walk() over a missing root should fail")
	}
}

func TestStripOrigin(t *testing.T) {
	origins := config.Default().Origins
	tests := []struct {
		name     string
		referrer string
		want     string
	}{
		{"Absent", "", ""},
		{"Exactly an origin", "https://sammy.pizza/", ""},
		{"Production origin", "https://sammy.pizza/adventures", "adventures"},
		{"Second production origin", "https://sammysamkough.com/adventures/trip", "adventures/trip"},
		{"Local origin", "http://localhost:8080/about", "about"},
		{"Query and fragment dropped", "https://sammy.pizza/adventures?ref=1#top", "adventures"},
		{"Unknown origin kept whole", "https://example.com/adventures", "https://example.com/adventures"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripOrigin(tt.referrer, origins); got != tt.want {
				t.Errorf("StripOrigin(%q) = %q, want %q", tt.referrer, got, tt.want)
			}
		})
	}
}

func TestAssetPath(t *testing.T) {
	tests := []struct {
		name      string
		remainder string
		reqPath   string
		want      string
		wantOK    bool
	}{
		{"Under referring page", "adventures", "/assets/photo.jpg", "public/pages/adventures/assets/photo.jpg", true},
		{"Empty remainder", "", "/assets/photo.jpg", "public/pages/assets/photo.jpg", true},
		{"Traversal in remainder", "../../etc", "/passwd.jpg", "", false},
		{"Traversal in path", "", "/../../secret.png", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AssetPath("public/pages", tt.remainder, tt.reqPath)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AssetPath() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveSpecialFiles(t *testing.T) {
	r := New(siteFS(), config.Default())

	tests := []struct {
		name     string
		path     string
		referrer string
		wantFile string
		wantType string
	}{
		{"Favicon at root", "/favicon.ico", "", "assets/favicon.ico", "image/x-icon"},
		{"Favicon nested", "/a/b/favicon.ico", "https://sammy.pizza/adventures", "assets/favicon.ico", "image/x-icon"},
		{"Global stylesheet", "/styles/globals.css", "", "public/styles/globals.css", "text/css"},
		{"Global stylesheet under any prefix", "/deep/path/globals.css", "", "public/styles/globals.css", "text/css"},
		{"Reset stylesheet", "/reset.css", "", "public/styles/reset.css", "text/css"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.path, tt.referrer)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !got.Reserved || got.File != tt.wantFile || got.ContentType != tt.wantType {
				t.Errorf("Resolve(%q) = %+v, want reserved %q (%s)", tt.path, got, tt.wantFile, tt.wantType)
			}
		})
	}
}

func TestResolveAssets(t *testing.T) {
	r := New(siteFS(), config.Default())

	tests := []struct {
		name     string
		path     string
		referrer string
		wantFile string
	}{
		{"Image under referring page", "/assets/photo.jpg", "https://sammy.pizza/adventures", "public/pages/adventures/assets/photo.jpg"},
		{"Referrer equal to origin", "/assets/photo.jpg", "https://sammy.pizza/", "public/pages/assets/photo.jpg"},
		{"Unknown origin", "/assets/photo.jpg", "https://elsewhere.net/adventures", "public/pages/https:/elsewhere.net/adventures/assets/photo.jpg"},
		{"Other stylesheet read from root", "/public/styles/extra.css", "", "public/styles/extra.css"},
		{"Stylesheet traversal is confined", "/../../x.css", "", "x.css"},
		{"Image traversal yields no file", "/../../x.jpg", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.path, tt.referrer)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.File != tt.wantFile {
				t.Errorf("Resolve(%q).File = %q, want %q", tt.path, got.File, tt.wantFile)
			}
			if got.Kind == KindImage && got.ContentType != "image/jpeg" {
				t.Errorf("ContentType = %q, want image/jpeg", got.ContentType)
			}
		})
	}
}

func TestResolvePages(t *testing.T) {
	r := New(siteFS(), config.Default())

	tests := []struct {
		name     string
		path     string
		wantDir  string
		wantPage string
	}{
		{"Homepage", "/", "public/pages", "index-home"},
		{"Substring leaf", "/about", "public/pages", "about-me"},
		{"Nested leaf", "/adventures/trip", "public/pages/adventures", "trip-2023"},
		{"Nested index", "/adventures/", "public/pages/adventures", ""},
		{"Two levels", "/adventures/japan/kyoto", "public/pages/adventures/japan", "kyoto-2019"},
		{"Unmatched leaf", "/nonexistent", "public/pages", ""},
		{"Failed walk keeps last level", "/nowhere/about", "public/pages", "about-me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.path, "")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Kind != KindPage || got.Dir != tt.wantDir || got.Page != tt.wantPage {
				t.Errorf("Resolve(%q) = (%q, %q), want (%q, %q)", tt.path, got.Dir, got.Page, tt.wantDir, tt.wantPage)
			}
			if got.Matched() != (tt.wantPage != "") {
				t.Errorf("Matched() = %v", got.Matched())
			}
		})
	}
}

func TestResolveFoldCase(t *testing.T) {
	cfg := config.Default()
	cfg.FoldCase = true
	r := New(siteFS(), cfg)

	got, err := r.Resolve("/Adventures/TRIP", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Dir != "public/pages/adventures" || got.Page != "trip-2023" {
		t.Errorf("Resolve() = (%q, %q), want adventures/trip-2023", got.Dir, got.Page)
	}
}
