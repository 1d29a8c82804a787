package model

import (
	"html/template"
	"path"

	"github.com/Bitlatte/mosaic/internal/dispatch"
)

// Capabilities a content item can provide.
const (
	CapContent     dispatch.Capability = "content"
	CapFolderish   dispatch.Capability = "folderish"
	CapLayoutAware dispatch.Capability = "layout-aware"
)

// IndexHTML is the child id that takes over a folder's view.
const IndexHTML = "index_html"

// Content represents a single item of the content tree (a folder or a page).
type Content struct {
	ID          string
	Path        string // "/" for the root, "/a/b" otherwise
	URL         string // absolute URL, no trailing slash
	Type        string
	Title       string
	Description string
	Folderish   bool
	LayoutAware bool
	Layout      string // selected view method or ++layout++ alias key
	DefaultPage string // folders only: id of the child shown as the folder view
	Body        template.HTML

	parent   *Content
	children map[string]*Content
	order    []string
}

// Parent returns the containing folder, or nil for the root.
func (c *Content) Parent() *Content {
	return c.parent
}

// AddChild attaches child under c and derives its path and URL.
func (c *Content) AddChild(child *Content) {
	if c.children == nil {
		c.children = make(map[string]*Content)
	}
	if _, exists := c.children[child.ID]; !exists {
		c.order = append(c.order, child.ID)
	}
	c.children[child.ID] = child
	child.parent = c
	child.Path = path.Join(c.Path, child.ID)
	child.URL = c.URL + "/" + child.ID
}

// ChildIDs returns the child ids in insertion order.
func (c *Content) ChildIDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Child returns the child with the given id.
func (c *Content) Child(id string) (*Content, bool) {
	child, ok := c.children[id]
	return child, ok
}

// HasChild reports whether c contains a child named id.
func (c *Content) HasChild(id string) bool {
	_, ok := c.children[id]
	return ok
}

// IsDefaultPage reports whether c is what its parent renders when viewed.
func (c *Content) IsDefaultPage() bool {
	p := c.parent
	if p == nil {
		return false
	}
	if p.DefaultPage != "" {
		return p.DefaultPage == c.ID
	}
	return c.ID == IndexHTML
}

// Capabilities lists what c provides, most specific first.
func (c *Content) Capabilities() []dispatch.Capability {
	caps := make([]dispatch.Capability, 0, 3)
	if c.LayoutAware {
		caps = append(caps, CapLayoutAware)
	}
	if c.Folderish {
		caps = append(caps, CapFolderish)
	}
	return append(caps, CapContent)
}

// Selectable is content whose view can be chosen among layouts.
type Selectable interface {
	Layout() string
	AbsoluteURL() string
}

type selectable struct{ c *Content }

func (s selectable) Layout() string      { return s.c.Layout }
func (s selectable) AbsoluteURL() string { return s.c.URL }

// AsSelectable adapts c to Selectable. It returns nil when c is nil.
func AsSelectable(c *Content) Selectable {
	if c == nil {
		return nil
	}
	return selectable{c}
}

// Term is one entry of a vocabulary: a machine value and a display title.
type Term struct {
	Value string `json:"value" yaml:"value"`
	Title string `json:"title" yaml:"title"`
}
