// Package types holds the content type registry: per-type titles, view
// methods and method aliases. Aliases map a symbolic name such as
// "++layout++document" to a layout resource path.
package types

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Info describes one content type.
type Info struct {
	ID          string            `yaml:"id" toml:"id"`
	Title       string            `yaml:"title" toml:"title"`
	DefaultView string            `yaml:"default_view" toml:"default_view"`
	ViewMethods []string          `yaml:"view_methods" toml:"view_methods"`
	Aliases     map[string]string `yaml:"aliases" toml:"aliases"`
}

// MethodAliases returns a copy of the alias table. It is never nil.
func (i *Info) MethodAliases() map[string]string {
	out := make(map[string]string, len(i.Aliases))
	for k, v := range i.Aliases {
		out[k] = v
	}
	return out
}

// AliasKeys returns the alias names starting with prefix, sorted.
func (i *Info) AliasKeys(prefix string) []string {
	var keys []string
	for k := range i.Aliases {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// HasViewMethod reports whether name is one of the type's view methods.
func (i *Info) HasViewMethod(name string) bool {
	for _, m := range i.ViewMethods {
		if m == name {
			return true
		}
	}
	return false
}

type file struct {
	Types []Info `yaml:"types" toml:"types"`
}

// Registry maps type ids to their Info.
type Registry struct {
	types map[string]*Info
	order []string
}

// NewRegistry builds a registry from infos. Later duplicates win.
func NewRegistry(infos ...Info) *Registry {
	r := &Registry{types: make(map[string]*Info)}
	for _, info := range infos {
		info := info
		if _, ok := r.types[info.ID]; !ok {
			r.order = append(r.order, info.ID)
		}
		r.types[info.ID] = &info
	}
	return r
}

// Get returns the type registered under id.
func (r *Registry) Get(id string) (*Info, bool) {
	if r == nil {
		return nil, false
	}
	info, ok := r.types[id]
	return info, ok
}

// IDs returns the registered type ids in load order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Load reads a registry from a .yaml, .yml or .toml file.
func Load(filename string) (*Registry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading types file %s: %w", filename, err)
	}
	return Parse(data, filepath.Ext(filename))
}

// Parse decodes a registry in the format named by ext.
func Parse(data []byte, ext string) (*Registry, error) {
	var f file
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("error unmarshalling types: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("error decoding types: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported types file format %q", ext)
	}
	for i, info := range f.Types {
		if info.ID == "" {
			return nil, fmt.Errorf("type #%d has no id", i+1)
		}
	}
	return NewRegistry(f.Types...), nil
}

// AbsolutePath returns the absolute form of an alias value. An empty alias
// has none.
func AbsolutePath(alias string) (string, bool) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return "", false
	}
	if !strings.HasPrefix(alias, "/") {
		alias = "/" + alias
	}
	return path.Clean(alias), true
}
