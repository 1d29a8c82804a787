package menu

import (
	"github.com/Bitlatte/mosaic/internal/dispatch"
	"github.com/Bitlatte/mosaic/internal/memo"
	"github.com/Bitlatte/mosaic/internal/model"
	"github.com/Bitlatte/mosaic/internal/traverse"
	"github.com/Bitlatte/mosaic/internal/vocab"
)

const (
	disabledDescription = "Delete or rename the index_html item to gain full control over how this folder is displayed."
	displayDescription  = "Select a predefined view for this folder, or set a content item as its default view."
	layoutDescription   = "Select a predefined layout for this folder, or set a content item as its default view."
)

// SubMenuItem is an entry of the content menu that opens a submenu.
type SubMenuItem interface {
	Title() string
	Description() string
	Action() string
	Available() bool
	Selected() bool
	Disabled() bool
	Order() int
	SubmenuID() string
	Extra() Extra
}

// SlotConstructor builds the submenu item filling a content menu slot.
type SlotConstructor func(c *model.Content, req *traverse.Request) SubMenuItem

// NewSlotTable registers the display submenu items. Layout-aware content
// gets the hidden display item and the layout item instead of the generic
// display item.
func NewSlotTable(env *Env) *dispatch.Table[SlotConstructor] {
	var t dispatch.Table[SlotConstructor]
	t.Register(model.CapContent, KindDisplaySlot, func(c *model.Content, req *traverse.Request) SubMenuItem {
		return NewDisplaySubMenuItem(env, c, req)
	})
	t.Register(model.CapLayoutAware, KindDisplaySlot, func(c *model.Content, req *traverse.Request) SubMenuItem {
		return &HiddenDisplaySubMenuItem{DisplaySubMenuItem: NewDisplaySubMenuItem(env, c, req)}
	})
	t.Register(model.CapLayoutAware, KindLayoutSlot, func(c *model.Content, req *traverse.Request) SubMenuItem {
		return NewDisplayLayoutSubMenuItem(env, c, req)
	})
	return &t
}

// view is the state shared by the submenu items: the content, the request
// and a name for memo keys.
type view struct {
	name    string
	content *model.Content
	request *traverse.Request
	env     *Env
}

func (v view) cache() *memo.Cache {
	if v.request == nil {
		return nil
	}
	return v.request.Cache
}

func (v view) key(method string) string {
	return v.name + "." + method + ":" + v.content.Path
}

// disabled is true on a contents listing page, or for a folder holding an
// index_html item.
func (v view) disabled() bool {
	return memo.Do(v.cache(), v.key("disabled"), func() bool {
		if v.request != nil && v.request.ContentsPage {
			return true
		}
		c := v.content
		if !c.Folderish {
			return false
		}
		return c.HasChild(model.IndexHTML)
	})
}

// selectDefaultViewURL targets the parent when the content is its default page.
func (v view) selectDefaultViewURL() string {
	target := v.content
	if target.IsDefaultPage() && target.Parent() != nil {
		target = target.Parent()
	}
	return target.URL + "/select_default_view"
}

// DisplaySubMenuItem is the generic "Display" entry opening the view
// method menu.
type DisplaySubMenuItem struct {
	view
}

// NewDisplaySubMenuItem returns the display item for c.
func NewDisplaySubMenuItem(env *Env, c *model.Content, req *traverse.Request) *DisplaySubMenuItem {
	return &DisplaySubMenuItem{view{name: "DisplaySubMenuItem", content: c, request: req, env: env}}
}

func (i *DisplaySubMenuItem) Title() string     { return "Display" }
func (i *DisplaySubMenuItem) Order() int        { return 20 }
func (i *DisplaySubMenuItem) SubmenuID() string { return DisplayMenuID }
func (i *DisplaySubMenuItem) Selected() bool    { return false }
func (i *DisplaySubMenuItem) Disabled() bool    { return i.disabled() }

func (i *DisplaySubMenuItem) Extra() Extra {
	return Extra{ID: "plone-contentmenu-display", Disabled: i.Disabled()}
}

func (i *DisplaySubMenuItem) Description() string {
	if i.Disabled() {
		return disabledDescription
	}
	return displayDescription
}

func (i *DisplaySubMenuItem) Action() string {
	if i.Disabled() {
		return ""
	}
	return i.selectDefaultViewURL()
}

// Available is true when there is a choice to make: several view methods,
// or a folder whose default page can be picked.
func (i *DisplaySubMenuItem) Available() bool {
	return memo.Do(i.cache(), i.key("available"), func() bool {
		if i.Disabled() {
			return false
		}
		if i.content.Folderish {
			return true
		}
		info, ok := i.env.Types.Get(i.content.Type)
		return ok && len(info.ViewMethods) > 1
	})
}

// HiddenDisplaySubMenuItem replaces the display item for layout-aware
// content. It is never available.
type HiddenDisplaySubMenuItem struct {
	*DisplaySubMenuItem
}

func (i *HiddenDisplaySubMenuItem) Available() bool {
	return memo.Do(i.cache(), "HiddenDisplaySubMenuItem.available:"+i.content.Path, func() bool {
		return false
	})
}

// DisplayLayoutSubMenuItem is the "Display" entry opening the layout menu.
type DisplayLayoutSubMenuItem struct {
	view
}

// NewDisplayLayoutSubMenuItem returns the layout item for c.
func NewDisplayLayoutSubMenuItem(env *Env, c *model.Content, req *traverse.Request) *DisplayLayoutSubMenuItem {
	return &DisplayLayoutSubMenuItem{view{name: "DisplayLayoutSubMenuItem", content: c, request: req, env: env}}
}

// Order places the item between the display menu (20) and the factories
// menu (30).
func (i *DisplayLayoutSubMenuItem) Order() int        { return 25 }
func (i *DisplayLayoutSubMenuItem) Title() string     { return "Display" }
func (i *DisplayLayoutSubMenuItem) SubmenuID() string { return LayoutMenuID }
func (i *DisplayLayoutSubMenuItem) Selected() bool    { return false }
func (i *DisplayLayoutSubMenuItem) Disabled() bool    { return i.disabled() }

func (i *DisplayLayoutSubMenuItem) Extra() Extra {
	return Extra{ID: "plone-contentmenu-layout", Disabled: i.Disabled()}
}

func (i *DisplayLayoutSubMenuItem) Description() string {
	if i.Disabled() {
		return disabledDescription
	}
	return layoutDescription
}

func (i *DisplayLayoutSubMenuItem) Action() string {
	if i.Disabled() {
		return ""
	}
	return i.selectDefaultViewURL()
}

// Available is true when the item is enabled and some display layout exists
// for the content.
func (i *DisplayLayoutSubMenuItem) Available() bool {
	return memo.Do(i.cache(), i.key("available"), func() bool {
		if i.Disabled() {
			return false
		}
		return i.env.Vocabularies.Lookup(vocab.DisplayLayouts, i.content).Len() > 0
	})
}
