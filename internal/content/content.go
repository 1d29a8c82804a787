// Package content loads the content tree from a directory of Markdown
// files. Directories become folders; a folder's own metadata lives in its
// "_folder.md". Every other "<id>.md" file becomes an item named <id>.
package content

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/mosaic/internal/model"
)

const (
	folderMetaFile = "_folder.md"
	defaultFolder  = "Folder"
	defaultItem    = "Document"
)

type frontMatter struct {
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	Layout      string `yaml:"layout"`
	Description string `yaml:"description"`
	DefaultPage string `yaml:"default_page"`
	LayoutAware *bool  `yaml:"layout_aware"`
}

// Repository is a loaded content tree.
type Repository struct {
	root   *model.Content
	byPath map[string]*model.Content
}

// Root returns the site root folder.
func (r *Repository) Root() *model.Content {
	return r.root
}

// Lookup returns the item at p.
func (r *Repository) Lookup(p string) (*model.Content, bool) {
	c, ok := r.byPath[path.Clean("/"+p)]
	return c, ok
}

// Len returns the number of items including the root.
func (r *Repository) Len() int {
	return len(r.byPath)
}

// Walk calls fn for every item, parents before children, children in
// load order.
func (r *Repository) Walk(fn func(*model.Content) error) error {
	var visit func(c *model.Content) error
	visit = func(c *model.Content) error {
		if err := fn(c); err != nil {
			return err
		}
		for _, id := range c.ChildIDs() {
			child, _ := c.Child(id)
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(r.root)
}

// Load reads the content tree under dir.
func Load(dir, baseURL, siteTitle string) (*Repository, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("content directory '%s' not found. Please create it and add your Markdown files", dir)
	}
	return LoadFS(os.DirFS(dir), baseURL, siteTitle)
}

// LoadFS reads the content tree from fsys.
func LoadFS(fsys fs.FS, baseURL, siteTitle string) (*Repository, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)

	root := &model.Content{
		Path:        "/",
		URL:         strings.TrimRight(baseURL, "/"),
		Type:        defaultFolder,
		Title:       siteTitle,
		Folderish:   true,
		LayoutAware: true,
	}
	repo := &Repository{root: root, byPath: map[string]*model.Content{"/": root}}
	// source file of each item, by content path
	sources := map[string]string{"/": "."}
	add := func(parent, c *model.Content, p string) error {
		if parent.HasChild(c.ID) {
			prev, _ := parent.Child(c.ID)
			return fmt.Errorf("'%s' and '%s' both map to %s", sources[prev.Path], p, prev.Path)
		}
		parent.AddChild(c)
		repo.byPath[c.Path] = c
		sources[c.Path] = p
		return nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", p, walkErr)
		}
		if p == "." {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		parent, ok := repo.byPath[path.Clean("/"+path.Dir(p))]
		if !ok {
			return fmt.Errorf("no parent folder for '%s'", p)
		}

		if d.IsDir() {
			folder := &model.Content{
				ID:          name,
				Type:        defaultFolder,
				Title:       titleFromName(name),
				Folderish:   true,
				LayoutAware: true,
			}
			return add(parent, folder, p)
		}

		if !strings.HasSuffix(strings.ToLower(name), ".md") {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", p, err)
		}
		var fm frontMatter
		body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
		if err != nil {
			return fmt.Errorf("failed to parse frontmatter of '%s': %w", p, err)
		}
		var html bytes.Buffer
		if err := md.Convert(body, &html); err != nil {
			return fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", p, err)
		}

		if name == folderMetaFile {
			apply(parent, fm, template.HTML(html.String()))
			return nil
		}

		id := strings.TrimSuffix(name, path.Ext(name))
		item := &model.Content{
			ID:          id,
			Type:        defaultItem,
			Title:       titleFromName(id),
			LayoutAware: true,
		}
		apply(item, fm, template.HTML(html.String()))
		return add(parent, item, p)
	})
	if err != nil {
		return nil, fmt.Errorf("error during content walk: %w", err)
	}
	return repo, nil
}

func apply(c *model.Content, fm frontMatter, body template.HTML) {
	c.Body = body
	if fm.Title != "" {
		c.Title = fm.Title
	}
	if fm.Type != "" {
		c.Type = fm.Type
	}
	if fm.LayoutAware != nil {
		c.LayoutAware = *fm.LayoutAware
	}
	c.Layout = fm.Layout
	c.Description = fm.Description
	c.DefaultPage = fm.DefaultPage
}

func titleFromName(name string) string {
	t := strings.ReplaceAll(strings.ReplaceAll(name, "-", " "), "_", " ")
	return cases.Title(language.English).String(t)
}
