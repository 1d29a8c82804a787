// Package menu builds the content menu shown to editors: the "Display"
// submenu items and the menus they open.
package menu

import (
	"net/url"
	"sort"
	"strings"

	"github.com/Bitlatte/mosaic/internal/dispatch"
	"github.com/Bitlatte/mosaic/internal/model"
	"github.com/Bitlatte/mosaic/internal/traverse"
	"github.com/Bitlatte/mosaic/internal/types"
	"github.com/Bitlatte/mosaic/internal/vocab"
)

// Menu ids.
const (
	ContentMenuID = "contentmenu"
	DisplayMenuID = "contentmenu.display"
	LayoutMenuID  = "contentmenu.layout"
)

// Content menu slots a submenu item can fill.
const (
	KindDisplaySlot dispatch.Kind = "contentmenu.display"
	KindLayoutSlot  dispatch.Kind = "contentmenu.layout"
)

// SelectedClass marks the selected entry of a menu.
const SelectedClass = "actionMenuSelected"

// Extra holds presentation attributes of a menu item.
type Extra struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`
	Class     string `json:"class" yaml:"class"`
	Disabled  bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Item is one rendered menu entry.
type Item struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Action      string `json:"action" yaml:"action"`
	Selected    bool   `json:"selected" yaml:"selected"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Extra       Extra  `json:"extra" yaml:"extra"`
	Submenu     []Item `json:"submenu,omitempty" yaml:"submenu,omitempty"`
}

// Menu lists the items for a content item.
type Menu interface {
	Items(c *model.Content, req *traverse.Request) []Item
}

// Registry holds menus by id.
type Registry struct {
	menus map[string]Menu
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{menus: make(map[string]Menu)}
}

// Register binds id to m.
func (r *Registry) Register(id string, m Menu) {
	r.menus[id] = m
}

// Get returns the menu registered under id.
func (r *Registry) Get(id string) (Menu, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r.menus[id]
	return m, ok
}

// Env carries what menus and submenu items query.
type Env struct {
	Types        *types.Registry
	Vocabularies *vocab.Registry
	Menus        *Registry
}

// NewEnv registers the display, layout and content menus in a new registry.
func NewEnv(reg *types.Registry, vocabs *vocab.Registry) *Env {
	env := &Env{Types: reg, Vocabularies: vocabs, Menus: NewRegistry()}
	env.Menus.Register(DisplayMenuID, &DisplayMenu{env: env})
	env.Menus.Register(LayoutMenuID, &DisplayLayoutMenu{Base: DisplayMenuID, env: env})
	env.Menus.Register(ContentMenuID, &ContentMenu{Slots: NewSlotTable(env), env: env})
	return env
}

// quote percent-encodes a value for a query string. Spaces become %20 and
// slashes are left alone.
func quote(s string) string {
	return strings.NewReplacer("+", "%20", "%2F", "/").Replace(url.QueryEscape(s))
}

func selectViewTemplateURL(base, templateID string) string {
	return base + "/selectViewTemplate?templateId=" + quote(templateID)
}

// ContentMenu collects the submenu items available for a content item and
// expands each into its menu.
type ContentMenu struct {
	Slots *dispatch.Table[SlotConstructor]

	env *Env
}

// Items returns one entry per available submenu item, ordered by Order.
func (m *ContentMenu) Items(c *model.Content, req *traverse.Request) []Item {
	var subs []SubMenuItem
	for _, kind := range []dispatch.Kind{KindDisplaySlot, KindLayoutSlot} {
		ctor, ok := m.Slots.Lookup(c.Capabilities(), kind)
		if !ok {
			continue
		}
		if sub := ctor(c, req); sub.Available() {
			subs = append(subs, sub)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].Order() < subs[j].Order() })

	items := make([]Item, 0, len(subs))
	for _, sub := range subs {
		item := Item{
			Title:       sub.Title(),
			Description: sub.Description(),
			Action:      sub.Action(),
			Selected:    sub.Selected(),
			Extra:       sub.Extra(),
		}
		if submenu, ok := m.env.Menus.Get(sub.SubmenuID()); ok && !sub.Disabled() {
			item.Submenu = submenu.Items(c, req)
		}
		items = append(items, item)
	}
	return items
}
