// Package site wires the content tree, type registry, layout resources,
// vocabularies, menus and traversal tables for one loaded configuration.
package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Bitlatte/mosaic/internal/config"
	"github.com/Bitlatte/mosaic/internal/content"
	"github.com/Bitlatte/mosaic/internal/errors"
	"github.com/Bitlatte/mosaic/internal/menu"
	"github.com/Bitlatte/mosaic/internal/model"
	"github.com/Bitlatte/mosaic/internal/resource"
	"github.com/Bitlatte/mosaic/internal/store"
	"github.com/Bitlatte/mosaic/internal/traverse"
	"github.com/Bitlatte/mosaic/internal/types"
	"github.com/Bitlatte/mosaic/internal/vocab"
)

// Selections is where editor choices are persisted.
type Selections interface {
	SetLayout(ctx context.Context, path, layout string) error
	SetDefaultPage(ctx context.Context, path, id string) error
	All(ctx context.Context) (map[string]store.Selection, error)
}

// Site is everything a request needs.
type Site struct {
	Config       config.Config
	Content      *content.Repository
	Types        *types.Registry
	Resources    *resource.FS
	Vocabularies *vocab.Registry
	Menus        *menu.Env
	Publisher    *traverse.Publisher
	Selections   Selections
	Logger       *log.Logger

	mu sync.RWMutex // guards selections applied to content
}

// Read runs fn while no selection is being applied.
func (s *Site) Read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// Load reads content and types from disk and assembles a Site. sel may be
// nil, in which case selections are not persisted.
func Load(ctx context.Context, cfg config.Config, sel Selections, logger *log.Logger) (*Site, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	repo, err := content.Load(cfg.ContentDir, cfg.SiteURL(), cfg.SiteTitle)
	if err != nil {
		return nil, err
	}
	reg, err := loadTypes(cfg.TypesFile, logger)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.LayoutsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("layouts directory '%s' not found. Please create it and add your layout files", cfg.LayoutsDir)
	}
	return New(ctx, cfg, repo, reg, resource.NewFS(os.DirFS(cfg.LayoutsDir)), sel, logger)
}

// loadTypes treats a missing types file as an empty registry.
func loadTypes(filename string, logger *log.Logger) (*types.Registry, error) {
	if filename == "" {
		return types.NewRegistry(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		logger.Warn("types file not found, no layout aliases registered", "file", filepath.Clean(filename))
		return types.NewRegistry(), nil
	}
	return types.Load(filename)
}

// New assembles a Site from loaded parts and applies stored selections.
func New(ctx context.Context, cfg config.Config, repo *content.Repository, reg *types.Registry, res *resource.FS, sel Selections, logger *log.Logger) (*Site, error) {
	if logger == nil {
		logger = log.Default()
	}
	vocabs := vocab.NewRegistry()
	vocabs.Register(vocab.ContentLayouts, vocab.ContentLayoutsFactory(res))
	vocabs.Register(vocab.DisplayLayouts, vocab.DisplayLayoutsFactory(reg, res))

	env := &traverse.Env{Types: reg, Resources: res, Vocabularies: vocabs, Logger: logger}
	s := &Site{
		Config:       cfg,
		Content:      repo,
		Types:        reg,
		Resources:    res,
		Vocabularies: vocabs,
		Menus:        menu.NewEnv(reg, vocabs),
		Publisher:    &traverse.Publisher{Root: repo.Root(), Table: traverse.NewTable(env)},
		Selections:   sel,
		Logger:       logger,
	}
	if err := s.applySelections(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Site) applySelections(ctx context.Context) error {
	if s.Selections == nil {
		return nil
	}
	all, err := s.Selections.All(ctx)
	if err != nil {
		return err
	}
	for p, sel := range all {
		c, ok := s.Content.Lookup(p)
		if !ok {
			s.Logger.Debug("stored selection for missing content", "path", p)
			continue
		}
		if sel.Layout != "" {
			if s.validLayout(c, sel.Layout) {
				c.Layout = sel.Layout
			} else {
				s.Logger.Debug("stored layout no longer available", "path", p, "layout", sel.Layout)
			}
		}
		if sel.DefaultPage != "" && c.HasChild(sel.DefaultPage) {
			c.DefaultPage = sel.DefaultPage
		}
	}
	return nil
}

// Menu returns the named menu's items for c.
func (s *Site) Menu(id string, c *model.Content, req *traverse.Request) ([]menu.Item, error) {
	m, ok := s.Menus.Menus.Get(id)
	if !ok {
		return nil, errors.NotFound("no menu %q", id)
	}
	return m.Items(c, req), nil
}

// SelectLayout makes templateID the layout of c. It must be a view method
// of c's type or one of its display layouts.
func (s *Site) SelectLayout(ctx context.Context, c *model.Content, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validLayout(c, templateID) {
		return errors.New(errors.ErrCodeInvalidInput, "%q is not a view of %s", templateID, c.Path)
	}
	if s.Selections != nil {
		if err := s.Selections.SetLayout(ctx, c.Path, templateID); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "store layout")
		}
	}
	c.Layout = templateID
	s.Logger.Info("layout selected", "path", c.Path, "layout", templateID)
	return nil
}

// validLayout reports whether templateID is a view method of c's type or,
// for layout-aware content, one of its display layouts.
func (s *Site) validLayout(c *model.Content, templateID string) bool {
	info, _ := s.Types.Get(c.Type)
	if info != nil && info.HasViewMethod(templateID) {
		return true
	}
	return c.LayoutAware && s.Vocabularies.Lookup(vocab.DisplayLayouts, c).Contains(templateID)
}

// SelectDefaultPage makes the child id the default page of folder c.
func (s *Site) SelectDefaultPage(ctx context.Context, c *model.Content, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !c.Folderish {
		return errors.New(errors.ErrCodeInvalidInput, "%s is not a folder", c.Path)
	}
	if !c.HasChild(id) {
		return errors.New(errors.ErrCodeInvalidInput, "%s has no item %q", c.Path, id)
	}
	if s.Selections != nil {
		if err := s.Selections.SetDefaultPage(ctx, c.Path, id); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "store default page")
		}
	}
	c.DefaultPage = id
	s.Logger.Info("default page selected", "path", c.Path, "id", id)
	return nil
}
