package traverse

import (
	"context"
	"strings"

	"github.com/Bitlatte/mosaic/internal/dispatch"
	"github.com/Bitlatte/mosaic/internal/errors"
	"github.com/Bitlatte/mosaic/internal/model"
	"github.com/Bitlatte/mosaic/internal/resource"
	"github.com/Bitlatte/mosaic/internal/vocab"
)

// Publisher walks request paths over a content tree.
type Publisher struct {
	Root  *model.Content
	Table *dispatch.Table[Constructor]
}

// Segments splits a URL path, dropping empty segments.
func Segments(urlPath string) []string {
	var segs []string
	for _, s := range strings.Split(urlPath, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// Locate walks segs through the content tree and returns the deepest item
// reached together with the segments left over.
func (p *Publisher) Locate(segs []string) (*model.Content, []string) {
	cur := p.Root
	for i, seg := range segs {
		child, ok := cur.Child(seg)
		if !ok {
			return cur, segs[i:]
		}
		cur = child
	}
	return cur, nil
}

// Publish resolves urlPath to a view.
func (p *Publisher) Publish(ctx context.Context, urlPath string, req *Request) (View, error) {
	c, rest := p.Locate(Segments(urlPath))
	return p.PublishFrom(ctx, c, rest, req)
}

// PublishFrom resolves the segments rest relative to c. The first remaining
// segment must be a "++namespace++name" segment; everything after it belongs
// to that namespace's traverser. With no segments left, c's default view is
// rendered.
func (p *Publisher) PublishFrom(_ context.Context, c *model.Content, rest []string, req *Request) (View, error) {
	if len(rest) == 0 {
		return p.defaultView(c, req)
	}
	ns, name, ok := resource.Split(rest[0])
	if !ok {
		return nil, errors.NotFound("%s: no item %q", c.Path, rest[0])
	}
	ctor, ok := p.Table.Lookup(c.Capabilities(), dispatch.Kind(ns))
	if !ok {
		return nil, errors.NotFound("%s: namespace %q not available", c.Path, ns)
	}
	return ctor(c, req).Traverse(name, rest[1:])
}

// defaultView renders a selected ++layout++ layout, then a folder's default
// page, then the item body.
func (p *Publisher) defaultView(c *model.Content, req *Request) (View, error) {
	if name, ok := strings.CutPrefix(c.Layout, vocab.LayoutAliasPrefix); ok {
		if ctor, ok := p.Table.Lookup(c.Capabilities(), KindLayout); ok {
			return ctor(c, req).Traverse(name, nil)
		}
	}
	if c.Folderish {
		id := c.DefaultPage
		if id == "" {
			id = model.IndexHTML
		}
		if child, ok := c.Child(id); ok {
			return p.defaultView(child, req)
		}
	}
	return &ContentView{Content: c}, nil
}
