package resource

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/mosaic/internal/errors"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"contentlayout/two-column.html": {Data: []byte("---\ntitle: Two columns\n---\n<div class=\"row\"></div>")},
		"contentlayout/plain.md":        {Data: []byte("# Plain\n\nbody")},
		"contentlayout/notes.txt":       {Data: []byte("ignored")},
		"contentlayout/nested/a.html":   {Data: []byte("<p>a</p>")},
		"displaylayout/document.html":   {Data: []byte("<main>doc</main>")},
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in       string
		ns, name string
		ok       bool
	}{
		{"/++contentlayout++two-column", "contentlayout", "two-column", true},
		{"++displaylayout++document.html", "displaylayout", "document.html", true},
		{"/++contentlayout++nested/a.html", "contentlayout", "nested/a.html", true},
		{"/++contentlayout++", "contentlayout", "", true},
		{"/plain/path", "", "", false},
		{"/++broken", "", "", false},
		{"/++++x", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ns, name, ok := Split(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ns, ns)
			assert.Equal(t, tt.name, name)
		})
	}
	assert.Equal(t, "/++contentlayout++x", Path("contentlayout", "x"))
}

func TestResolveHTMLStripsFrontmatter(t *testing.T) {
	r := NewFS(testFS())

	out, err := r.Resolve("/++contentlayout++two-column")
	require.NoError(t, err)
	assert.Equal(t, "<div class=\"row\"></div>", strings.TrimSpace(string(out)))
	assert.Equal(t, "Two columns", r.Title("/++contentlayout++two-column"))
}

func TestResolveMarkdown(t *testing.T) {
	r := NewFS(testFS())

	out, err := r.Resolve("/++contentlayout++plain")
	require.NoError(t, err)
	assert.Contains(t, string(out), `<h1 id="plain">Plain</h1>`)
	assert.Equal(t, "", r.Title("/++contentlayout++plain"))
}

func TestResolveWithExtensionAndNesting(t *testing.T) {
	r := NewFS(testFS())

	out, err := r.Resolve("/++displaylayout++document.html")
	require.NoError(t, err)
	assert.Equal(t, "<main>doc</main>", string(out))

	out, err = r.Resolve("/++contentlayout++nested/a")
	require.NoError(t, err)
	assert.Equal(t, "<p>a</p>", string(out))
}

func TestResolveNotFound(t *testing.T) {
	r := NewFS(testFS())

	for _, p := range []string{
		"/++contentlayout++missing",
		"/++contentlayout++nested",
		"/++contentlayout++../displaylayout/document",
		"/++unknown++x",
		"/not-a-resource",
		"/++contentlayout++",
	} {
		t.Run(p, func(t *testing.T) {
			_, err := r.Resolve(p)
			assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
			assert.False(t, r.Exists(p))
		})
	}
}

func TestIsDir(t *testing.T) {
	r := NewFS(testFS())
	assert.True(t, r.IsDir("/++contentlayout++nested"))
	assert.True(t, r.IsDir("/++contentlayout++"))
	assert.False(t, r.IsDir("/++contentlayout++plain"))
	assert.False(t, r.IsDir("/++contentlayout++../x"))
}

func TestList(t *testing.T) {
	r := NewFS(testFS())

	names, err := r.List("contentlayout")
	require.NoError(t, err)
	assert.Equal(t, []string{"plain", "two-column"}, names)

	names, err = r.List("sitelayout")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = r.List("../etc")
	assert.Error(t, err)
}
