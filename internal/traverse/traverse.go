// Package traverse resolves layout namespace segments of a request path.
//
// A path such as "/docs/intro/++layout++document" walks the content tree to
// "/docs/intro" and hands the segment "++layout++document" to the traverser
// registered for the "layout" namespace and the item's capabilities. The
// traverser returns a View, or fails with a NOT_FOUND error; it never returns
// a partial result.
package traverse

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Bitlatte/mosaic/internal/dispatch"
	"github.com/Bitlatte/mosaic/internal/errors"
	"github.com/Bitlatte/mosaic/internal/logging"
	"github.com/Bitlatte/mosaic/internal/memo"
	"github.com/Bitlatte/mosaic/internal/model"
	"github.com/Bitlatte/mosaic/internal/resource"
	"github.com/Bitlatte/mosaic/internal/types"
	"github.com/Bitlatte/mosaic/internal/vocab"
)

// Namespace kinds.
const (
	KindLayout        dispatch.Kind = "layout"
	KindContentLayout dispatch.Kind = "contentlayout"
)

// Request is the per-request state traversal may read or change.
type Request struct {
	URL          string
	ContentsPage bool
	Cache        *memo.Cache
}

// NewRequest returns a request for url with a fresh memo cache.
func NewRequest(url string) *Request {
	return &Request{URL: url, Cache: memo.New()}
}

// View renders a traversal result.
type View interface {
	Render(ctx context.Context) ([]byte, error)
}

// Traverser resolves one namespace segment. remaining holds the path
// segments after it; traversers that address nested resources consume them.
type Traverser interface {
	Traverse(name string, remaining []string) (View, error)
}

// Constructor builds a traverser for a content item and request.
type Constructor func(c *model.Content, req *Request) Traverser

// Resources resolves layout resources and checks their existence.
type Resources interface {
	resource.Resolver
	Exists(resourcePath string) bool
}

// Env carries the collaborators traversers and views query.
type Env struct {
	Types        *types.Registry
	Resources    Resources
	Vocabularies *vocab.Registry
	Logger       *log.Logger
}

func (e *Env) layoutView(c *model.Content, req *Request, resourcePath string) *LayoutView {
	return &LayoutView{Content: c, Request: req, ResourcePath: resourcePath, env: e}
}

// NewTable registers the layout traversers:
//
//	layout-aware  layout         LayoutTraverser
//	layout-aware  contentlayout  ContentLayoutTraverser, falling back to ResourceTraverser
//	content       contentlayout  ResourceTraverser
func NewTable(env *Env) *dispatch.Table[Constructor] {
	var t dispatch.Table[Constructor]
	t.Register(model.CapLayoutAware, KindLayout, func(c *model.Content, req *Request) Traverser {
		return &LayoutTraverser{Content: c, Request: req, env: env}
	})
	t.Register(model.CapLayoutAware, KindContentLayout, func(c *model.Content, req *Request) Traverser {
		return &ContentLayoutTraverser{
			Content:  c,
			Request:  req,
			Fallback: &ResourceTraverser{Namespace: vocab.ContentLayoutNamespace, Content: c, Request: req, env: env},
			env:      env,
		}
	})
	t.Register(model.CapContent, KindContentLayout, func(c *model.Content, req *Request) Traverser {
		return &ResourceTraverser{Namespace: vocab.ContentLayoutNamespace, Content: c, Request: req, env: env}
	})
	return &t
}

// LayoutView renders the layout resource at ResourcePath.
type LayoutView struct {
	Content      *model.Content
	Request      *Request
	ResourcePath string

	env *Env
}

// Render resolves the resource. A missing resource is logged as a warning
// and its error returned unchanged.
func (v *LayoutView) Render(ctx context.Context) ([]byte, error) {
	out, err := v.env.Resources.Resolve(v.ResourcePath)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			v.logger(ctx).Warn(fmt.Sprintf("Missing layout %s", err))
		}
		return nil, err
	}
	return out, nil
}

func (v *LayoutView) logger(ctx context.Context) *log.Logger {
	if v.env.Logger != nil {
		return logging.Named(v.env.Logger, logging.Name)
	}
	return logging.Named(logging.FromContext(ctx), logging.Name)
}

// LayoutTraverser resolves "++layout++<name>" through the method aliases of
// the content's type.
type LayoutTraverser struct {
	Content *model.Content
	Request *Request

	env *Env
}

// Traverse looks up the alias "++layout++<name>".
func (t *LayoutTraverser) Traverse(name string, _ []string) (View, error) {
	c := t.Content
	if c.Type == "" {
		return nil, errors.NotFound("%s: no content type for layout %q", c.Path, name)
	}
	info, ok := t.env.Types.Get(c.Type)
	if !ok {
		return nil, errors.NotFound("%s: unknown content type %q", c.Path, c.Type)
	}
	aliases := info.MethodAliases()
	resourcePath, ok := types.AbsolutePath(aliases[vocab.LayoutAliasPrefix+name])
	if !ok {
		return nil, errors.NotFound("%s: no layout %q for type %q", c.Path, name, c.Type)
	}
	return t.env.layoutView(c, t.Request, resourcePath), nil
}

// ContentLayoutTraverser resolves "++contentlayout++<name>" when the name is
// one of the available content layouts, and defers to Fallback otherwise.
type ContentLayoutTraverser struct {
	Content  *model.Content
	Request  *Request
	Fallback Traverser

	env *Env
}

// Traverse checks the availableContentLayouts vocabulary. On a hit the
// request URL is rebased on the content URL.
func (t *ContentLayoutTraverser) Traverse(name string, remaining []string) (View, error) {
	resourcePath := resource.Path(vocab.ContentLayoutNamespace, name)
	if t.env.Vocabularies.Lookup(vocab.ContentLayouts, t.Content).Contains(resourcePath) {
		t.Request.URL = t.Content.URL + "/"
		return t.env.layoutView(t.Content, t.Request, resourcePath), nil
	}
	return t.Fallback.Traverse(name, remaining)
}

// ResourceTraverser addresses any resource of Namespace by name and the
// remaining path segments.
type ResourceTraverser struct {
	Namespace string
	Content   *model.Content
	Request   *Request

	env *Env
}

// Traverse joins name and remaining into a resource path.
func (t *ResourceTraverser) Traverse(name string, remaining []string) (View, error) {
	rel := name
	for _, seg := range remaining {
		rel += "/" + seg
	}
	resourcePath := resource.Path(t.Namespace, rel)
	if !t.env.Resources.Exists(resourcePath) {
		return nil, errors.NotFound("%s: no resource %s", t.Content.Path, resourcePath)
	}
	return t.env.layoutView(t.Content, t.Request, resourcePath), nil
}

// ContentView renders the body of a content item.
type ContentView struct {
	Content *model.Content
}

// Render returns the Markdown-rendered body.
func (v *ContentView) Render(context.Context) ([]byte, error) {
	return []byte(v.Content.Body), nil
}
