package traverse

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/mosaic/internal/errors"
	"github.com/Bitlatte/mosaic/internal/model"
	"github.com/Bitlatte/mosaic/internal/resource"
	"github.com/Bitlatte/mosaic/internal/types"
	"github.com/Bitlatte/mosaic/internal/vocab"
)

type fixture struct {
	env    *Env
	logs   *bytes.Buffer
	root   *model.Content
	intro  *model.Content
	legacy *model.Content
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	res := resource.NewFS(fstest.MapFS{
		"displaylayout/document.html": {Data: []byte("<main>doc</main>")},
		"contentlayout/news.html":     {Data: []byte("<article>news</article>")},
		"contentlayout/nested/a.html": {Data: []byte("<p>a</p>")},
	})
	reg := types.NewRegistry(
		types.Info{ID: "Document", Aliases: map[string]string{
			"++layout++document": "++displaylayout++document",
			"++layout++broken":   "++displaylayout++missing",
			"++layout++empty":    "",
		}},
		types.Info{ID: "Folder"},
	)
	vocabs := vocab.NewRegistry()
	vocabs.Register(vocab.ContentLayouts, vocab.ContentLayoutsFactory(res))

	var logs bytes.Buffer
	env := &Env{
		Types:        reg,
		Resources:    res,
		Vocabularies: vocabs,
		Logger:       log.NewWithOptions(&logs, log.Options{Level: log.InfoLevel}),
	}

	root := &model.Content{Path: "/", URL: "http://site", Type: "Folder", Folderish: true, LayoutAware: true, Body: "root"}
	intro := &model.Content{ID: "intro", Type: "Document", LayoutAware: true, Body: "intro"}
	legacy := &model.Content{ID: "legacy", Type: "Document", Body: "legacy"}
	root.AddChild(intro)
	root.AddChild(legacy)

	return &fixture{env: env, logs: &logs, root: root, intro: intro, legacy: legacy}
}

func (f *fixture) publisher() *Publisher {
	return &Publisher{Root: f.root, Table: NewTable(f.env)}
}

func render(t *testing.T, v View) string {
	t.Helper()
	out, err := v.Render(context.Background())
	require.NoError(t, err)
	return string(out)
}

func TestLayoutTraverserResolvesAlias(t *testing.T) {
	f := newFixture(t)
	tr := &LayoutTraverser{Content: f.intro, Request: NewRequest(f.intro.URL), env: f.env}

	v, err := tr.Traverse("document", nil)
	require.NoError(t, err)

	lv, ok := v.(*LayoutView)
	require.True(t, ok)
	assert.Equal(t, "/++displaylayout++document", lv.ResourcePath)
	assert.Equal(t, "<main>doc</main>", render(t, v))
	assert.Empty(t, f.logs.String())
}

func TestLayoutTraverserNotFound(t *testing.T) {
	f := newFixture(t)
	untyped := &model.Content{ID: "untyped", LayoutAware: true}
	unknown := &model.Content{ID: "odd", Type: "Event", LayoutAware: true}
	folder := f.root

	tests := []struct {
		name    string
		content *model.Content
		layout  string
	}{
		{"unregistered alias", f.intro, "gallery"},
		{"empty alias value", f.intro, "empty"},
		{"no content type", untyped, "document"},
		{"unknown content type", unknown, "document"},
		{"type without aliases", folder, "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &LayoutTraverser{Content: tt.content, Request: NewRequest(""), env: f.env}
			v, err := tr.Traverse(tt.layout, nil)
			assert.Nil(t, v)
			assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
		})
	}
}

func TestLayoutViewLogsMissingResource(t *testing.T) {
	f := newFixture(t)
	tr := &LayoutTraverser{Content: f.intro, Request: NewRequest(""), env: f.env}

	v, err := tr.Traverse("broken", nil)
	require.NoError(t, err)

	out, err := v.Render(context.Background())
	assert.Nil(t, out)
	require.True(t, errors.Is(err, errors.ErrCodeNotFound))

	logged := f.logs.String()
	assert.Contains(t, logged, "WARN")
	assert.Contains(t, logged, "Missing layout "+err.Error())
	assert.Equal(t, 1, bytes.Count(f.logs.Bytes(), []byte("Missing layout")))
}

func TestLayoutViewFallsBackToContextLogger(t *testing.T) {
	f := newFixture(t)
	f.env.Logger = nil

	var buf bytes.Buffer
	ctx := loggingContext(&buf)
	v := f.env.layoutView(f.intro, NewRequest(""), "/++displaylayout++missing")

	_, err := v.Render(ctx)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Missing layout")
}

func TestContentLayoutTraverserVocabularyHit(t *testing.T) {
	f := newFixture(t)
	req := NewRequest("http://site/intro/++contentlayout++news")
	tr := &ContentLayoutTraverser{
		Content:  f.intro,
		Request:  req,
		Fallback: failingTraverser{t},
		env:      f.env,
	}

	v, err := tr.Traverse("news", nil)
	require.NoError(t, err)
	assert.Equal(t, "/++contentlayout++news", v.(*LayoutView).ResourcePath)
	assert.Equal(t, "http://site/intro/", req.URL)
	assert.Equal(t, "<article>news</article>", render(t, v))
}

func TestContentLayoutTraverserDelegatesOnMiss(t *testing.T) {
	f := newFixture(t)
	req := NewRequest("http://site/intro/++contentlayout++bar")
	spy := &spyTraverser{view: &ContentView{Content: f.intro}}
	tr := &ContentLayoutTraverser{Content: f.intro, Request: req, Fallback: spy, env: f.env}

	v, err := tr.Traverse("bar", []string{"x", "y"})
	require.NoError(t, err)
	assert.Same(t, spy.view, v)
	assert.Equal(t, "bar", spy.name)
	assert.Equal(t, []string{"x", "y"}, spy.remaining)
	assert.Equal(t, "http://site/intro/++contentlayout++bar", req.URL)

	spy.err = errors.NotFound("nope")
	_, err = tr.Traverse("bar", nil)
	assert.Same(t, spy.err, err)
}

func TestResourceTraverser(t *testing.T) {
	f := newFixture(t)
	tr := &ResourceTraverser{Namespace: vocab.ContentLayoutNamespace, Content: f.legacy, Request: NewRequest(""), env: f.env}

	v, err := tr.Traverse("nested", []string{"a.html"})
	require.NoError(t, err)
	assert.Equal(t, "/++contentlayout++nested/a.html", v.(*LayoutView).ResourcePath)

	_, err = tr.Traverse("nested", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestPublish(t *testing.T) {
	f := newFixture(t)
	p := f.publisher()

	tests := []struct {
		path string
		want string
	}{
		{"/intro/++layout++document", "<main>doc</main>"},
		{"/intro/++contentlayout++news", "<article>news</article>"},
		{"/intro/++contentlayout++nested/a.html", "<p>a</p>"},
		{"/legacy/++contentlayout++news", "<article>news</article>"},
		{"/legacy", "legacy"},
		{"/", "root"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, err := p.Publish(context.Background(), tt.path, NewRequest(""))
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(t, v))
		})
	}
}

func TestPublishNotFound(t *testing.T) {
	f := newFixture(t)
	p := f.publisher()

	for _, path := range []string{
		"/legacy/++layout++document",
		"/intro/++layout++gallery",
		"/intro/nope",
		"/++unknown++x",
	} {
		t.Run(path, func(t *testing.T) {
			_, err := p.Publish(context.Background(), path, NewRequest(""))
			assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
		})
	}
}

func TestPublishDefaultView(t *testing.T) {
	f := newFixture(t)
	p := f.publisher()

	f.intro.Layout = "++layout++document"
	v, err := p.Publish(context.Background(), "/intro", NewRequest(""))
	require.NoError(t, err)
	assert.Equal(t, "<main>doc</main>", render(t, v))

	index := &model.Content{ID: model.IndexHTML, Type: "Document", Body: "index"}
	f.root.AddChild(index)
	v, err = p.Publish(context.Background(), "/", NewRequest(""))
	require.NoError(t, err)
	assert.Equal(t, "index", render(t, v))

	f.root.DefaultPage = "intro"
	v, err = p.Publish(context.Background(), "/", NewRequest(""))
	require.NoError(t, err)
	assert.Equal(t, "<main>doc</main>", render(t, v))
}

func TestLocate(t *testing.T) {
	f := newFixture(t)
	p := f.publisher()

	c, rest := p.Locate(Segments("/intro/@@contentmenu"))
	assert.Same(t, f.intro, c)
	assert.Equal(t, []string{"@@contentmenu"}, rest)

	c, rest = p.Locate(Segments("//"))
	assert.Same(t, f.root, c)
	assert.Empty(t, rest)
}
