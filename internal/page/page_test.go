package page

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/f4ah6o/pagesrv/internal/config"
)

func fragments() fstest.MapFS {
	return fstest.MapFS{
		"public/components/1_start_meta.txt":   {Data: []byte("<html><head>")},
		"public/components/2_start_links.txt":  {Data: []byte("<link>")},
		"public/components/3_start_header.txt": {Data: []byte("</head><body><header/>")},
		"public/components/4_end_footer.txt":   {Data: []byte("<footer/></body></html>")},
		"public/pages/index-home/index.html":   {Data: []byte("<main>home</main>")},
		"public/pages/404/index.html":          {Data: []byte("<main>lost</main>")},
	}
}

func TestFile(t *testing.T) {
	a := NewAssembler(fragments(), config.Default())

	tests := []struct {
		name string
		dir  string
		page string
		want string
	}{
		{"Matched page", "public/pages", "index-home", "public/pages/index-home/index.html"},
		{"Miss falls back to 404", "public/pages", "", "public/pages/404/index.html"},
		{"Nested miss", "public/pages/adventures", "", "public/pages/adventures/404/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.File(tt.dir, tt.page); got != tt.want {
				t.Errorf("File() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssemble(t *testing.T) {
	a := NewAssembler(fragments(), config.Default())
	const chrome = "<html><head><link></head><body><header/>"

	tests := []struct {
		name string
		page string
		want string
	}{
		{"Home", "index-home", chrome + "<main>home</main><footer/></body></html>"},
		{"Not found", "", chrome + "<main>lost</main><footer/></body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Assemble("public/pages", tt.page)
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Assemble() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssembleMissingFragment(t *testing.T) {
	fsys := fragments()
	delete(fsys, "public/components/4_end_footer.txt")
	a := NewAssembler(fsys, config.Default())

	_, err := a.Assemble("public/pages", "index-home")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Assemble() error = %v, want fs.ErrNotExist", err)
	}
}

func TestAssembleMissingNotFoundPage(t *testing.T) {
	fsys := fragments()
	delete(fsys, "public/pages/404/index.html")
	a := NewAssembler(fsys, config.Default())

	if _, err := a.Assemble("public/pages", ""); err == nil {
		t.Error("Assemble() without a 404 page should fail")
	}
}
