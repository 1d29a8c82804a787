package menu

import (
	"strings"

	"github.com/Bitlatte/mosaic/internal/model"
	"github.com/Bitlatte/mosaic/internal/traverse"
	"github.com/Bitlatte/mosaic/internal/vocab"
)

// DisplayMenu lists the view methods of the content's type. Folders also
// get an entry for choosing a default page.
type DisplayMenu struct {
	env *Env
}

// Items returns the view method entries.
func (m *DisplayMenu) Items(c *model.Content, _ *traverse.Request) []Item {
	s := model.AsSelectable(c)
	if s == nil {
		return []Item{}
	}
	layout := s.Layout()
	items := []Item{}

	if info, ok := m.env.Types.Get(c.Type); ok {
		current := layout
		if current == "" {
			current = info.DefaultView
		}
		for _, method := range info.ViewMethods {
			if strings.HasPrefix(method, vocab.LayoutAliasPrefix) {
				continue
			}
			selected := method == current
			items = append(items, Item{
				Title:    method,
				Action:   selectViewTemplateURL(s.AbsoluteURL(), method),
				Selected: selected,
				Extra: Extra{
					ID:    "plone-contentmenu-display-" + method,
					Class: selectedClass(selected),
				},
			})
		}
	}

	if c.Folderish {
		items = append(items, Item{
			Title:       "Select a content item as default view...",
			Description: "Select an item to be used as default view in this folder.",
			Action:      s.AbsoluteURL() + "/select_default_page",
			Selected:    c.DefaultPage != "",
			Extra: Extra{
				ID:        "contextDefaultPageDisplay",
				Separator: "actionSeparator",
				Class:     selectedClass(c.DefaultPage != ""),
			},
		})
	}
	return items
}

// DisplayLayoutMenu extends the Base menu with one entry per available
// display layout.
type DisplayLayoutMenu struct {
	Base string

	env *Env
}

// Items returns the base menu items followed by the display layouts in
// vocabulary order. Terms sharing a value are all marked selected when
// that value is the current layout.
func (m *DisplayLayoutMenu) Items(c *model.Content, req *traverse.Request) []Item {
	layouts := m.env.Vocabularies.Lookup(vocab.DisplayLayouts, c)
	s := model.AsSelectable(c)
	if s == nil {
		return []Item{}
	}
	layout := s.Layout()

	results := []Item{}
	if base, ok := m.env.Menus.Get(m.Base); ok {
		results = append(results, base.Items(c, req)...)
	}

	for _, term := range layouts {
		selected := term.Value == layout
		results = append(results, Item{
			Title:    term.Title,
			Action:   selectViewTemplateURL(s.AbsoluteURL(), term.Value),
			Selected: selected,
			Extra: Extra{
				ID:    "layout-" + layoutID(term.Value),
				Class: selectedClass(selected),
			},
		})
	}
	return results
}

// layoutID drops everything up to the last "++" of a term value.
func layoutID(value string) string {
	parts := strings.Split(value, "++")
	return parts[len(parts)-1]
}

func selectedClass(selected bool) string {
	if selected {
		return SelectedClass
	}
	return ""
}
