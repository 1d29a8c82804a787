// Package resource resolves layout resource paths to content.
//
// A resource path has the form "/++<namespace>++<name>", for example
// "/++contentlayout++two-column" or "/++displaylayout++document.html". The FS
// resolver maps it to "<namespace>/<name>" inside the layouts directory. A
// name without an extension is tried as ".html" and then ".md"; Markdown
// layouts are converted to HTML. Both kinds may start with YAML frontmatter,
// which is stripped from the output and read for the layout title.
package resource

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/Bitlatte/mosaic/internal/errors"
)

// Resolver fetches the content of a resource path.
type Resolver interface {
	Resolve(resourcePath string) ([]byte, error)
}

var extensions = []string{".html", ".md"}

// FS resolves resources from a file system rooted at the layouts directory.
type FS struct {
	fsys fs.FS
	md   goldmark.Markdown
}

// NewFS returns a resolver over fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{
		fsys: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

type meta struct {
	Title string `yaml:"title"`
}

// Split breaks a resource path into its namespace and name.
func Split(resourcePath string) (namespace, name string, ok bool) {
	p := strings.TrimPrefix(resourcePath, "/")
	if !strings.HasPrefix(p, "++") {
		return "", "", false
	}
	p = p[2:]
	i := strings.Index(p, "++")
	if i <= 0 {
		return "", "", false
	}
	namespace, name = p[:i], strings.Trim(p[i+2:], "/")
	return namespace, name, true
}

// Path joins a namespace and name into a resource path.
func Path(namespace, name string) string {
	return "/++" + namespace + "++" + name
}

// locate finds the file backing resourcePath.
func (r *FS) locate(resourcePath string) (string, error) {
	ns, name, ok := Split(resourcePath)
	if !ok || name == "" {
		return "", errors.NotFound("no resource at %s", resourcePath)
	}
	base := ns + "/" + name
	if !fs.ValidPath(base) {
		return "", errors.NotFound("no resource at %s", resourcePath)
	}

	candidates := []string{base}
	if path.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range extensions {
			candidates = append(candidates, base+ext)
		}
	}
	for _, c := range candidates {
		info, err := fs.Stat(r.fsys, c)
		if err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", errors.NotFound("no resource at %s", resourcePath)
}

// Resolve returns the rendered content of resourcePath.
func (r *FS) Resolve(resourcePath string) ([]byte, error) {
	file, err := r.locate(resourcePath)
	if err != nil {
		return nil, err
	}
	body, _, err := r.read(file)
	if err != nil {
		return nil, err
	}
	if path.Ext(file) != ".md" {
		return body, nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert %s", file)
	}
	return buf.Bytes(), nil
}

func (r *FS) read(file string) ([]byte, meta, error) {
	var m meta
	data, err := fs.ReadFile(r.fsys, file)
	if err != nil {
		return nil, m, errors.Wrap(errors.ErrCodeInternal, err, "read %s", file)
	}
	body, err := frontmatter.Parse(bytes.NewReader(data), &m)
	if err != nil {
		// Unparseable frontmatter: serve the file as is.
		return data, meta{}, nil
	}
	return body, m, nil
}

// Exists reports whether resourcePath names a file.
func (r *FS) Exists(resourcePath string) bool {
	_, err := r.locate(resourcePath)
	return err == nil
}

// IsDir reports whether resourcePath names a directory.
func (r *FS) IsDir(resourcePath string) bool {
	ns, name, ok := Split(resourcePath)
	if !ok {
		return false
	}
	p := ns
	if name != "" {
		p = ns + "/" + name
	}
	if !fs.ValidPath(p) {
		return false
	}
	info, err := fs.Stat(r.fsys, p)
	return err == nil && info.IsDir()
}

// Title returns the frontmatter title of resourcePath, or "".
func (r *FS) Title(resourcePath string) string {
	file, err := r.locate(resourcePath)
	if err != nil {
		return ""
	}
	_, m, err := r.read(file)
	if err != nil {
		return ""
	}
	return m.Title
}

// List returns the resource names in namespace without their extension,
// sorted and deduplicated. A missing namespace lists nothing.
func (r *FS) List(namespace string) ([]string, error) {
	if !fs.ValidPath(namespace) {
		return nil, fmt.Errorf("invalid namespace %q", namespace)
	}
	entries, err := fs.ReadDir(r.fsys, namespace)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list layouts in '%s': %w", namespace, err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(e.Name()))
		if ext != ".html" && ext != ".md" {
			continue
		}
		n := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}
