// Package vocab provides named vocabularies: ordered lists of selectable
// terms computed per content item.
package vocab

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/mosaic/internal/model"
	"github.com/Bitlatte/mosaic/internal/resource"
	"github.com/Bitlatte/mosaic/internal/types"
)

// Vocabulary names.
const (
	ContentLayouts = "availableContentLayouts"
	DisplayLayouts = "availableDisplayLayouts"
)

// Namespaces the layout vocabularies read from.
const (
	ContentLayoutNamespace = "contentlayout"
	LayoutAliasPrefix      = "++layout++"
)

// Vocabulary is an ordered list of terms.
type Vocabulary []model.Term

// Len returns the number of terms.
func (v Vocabulary) Len() int { return len(v) }

// Contains reports whether some term has the given value.
func (v Vocabulary) Contains(value string) bool {
	for _, t := range v {
		if t.Value == value {
			return true
		}
	}
	return false
}

// Factory computes a vocabulary for a content item.
type Factory func(c *model.Content) Vocabulary

// Registry holds vocabulary factories by name.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds name to f.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Lookup computes the named vocabulary for c. An unknown name yields an
// empty vocabulary.
func (r *Registry) Lookup(name string, c *model.Content) Vocabulary {
	if r == nil {
		return nil
	}
	f, ok := r.factories[name]
	if !ok {
		return nil
	}
	return f(c)
}

// Source is what the layout vocabularies need from the resource layer.
type Source interface {
	List(namespace string) ([]string, error)
	Title(resourcePath string) string
}

// ContentLayoutsFactory lists every resource in the contentlayout namespace.
// The listing does not depend on the content item.
func ContentLayoutsFactory(src Source) Factory {
	return func(*model.Content) Vocabulary {
		names, err := src.List(ContentLayoutNamespace)
		if err != nil {
			return nil
		}
		v := make(Vocabulary, 0, len(names))
		for _, n := range names {
			p := resource.Path(ContentLayoutNamespace, n)
			v = append(v, model.Term{Value: p, Title: titleOr(src.Title(p), n)})
		}
		return v
	}
}

// DisplayLayoutsFactory lists the ++layout++ aliases of the content's type,
// ordered by alias name.
func DisplayLayoutsFactory(reg *types.Registry, src Source) Factory {
	return func(c *model.Content) Vocabulary {
		if c == nil {
			return nil
		}
		info, ok := reg.Get(c.Type)
		if !ok {
			return nil
		}
		keys := info.AliasKeys(LayoutAliasPrefix)
		v := make(Vocabulary, 0, len(keys))
		for _, k := range keys {
			name := strings.TrimPrefix(k, LayoutAliasPrefix)
			title := ""
			if p, ok := types.AbsolutePath(info.Aliases[k]); ok {
				title = src.Title(p)
			}
			v = append(v, model.Term{Value: k, Title: titleOr(title, name)})
		}
		return v
	}
}

func titleOr(title, name string) string {
	if title != "" {
		return title
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(name)
}
