package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPrefersFirstCapability(t *testing.T) {
	var table Table[string]
	table.Register("content", "contentlayout", "resource")
	table.Register("layout-aware", "contentlayout", "vocabulary")

	h, ok := table.Lookup([]Capability{"layout-aware", "content"}, "contentlayout")
	assert.True(t, ok)
	assert.Equal(t, "vocabulary", h)

	h, ok = table.Lookup([]Capability{"content"}, "contentlayout")
	assert.True(t, ok)
	assert.Equal(t, "resource", h)
}

func TestLookupMissing(t *testing.T) {
	var table Table[func() int]
	h, ok := table.Lookup([]Capability{"content"}, "layout")
	assert.False(t, ok)
	assert.Nil(t, h)
	assert.False(t, table.Has([]Capability{"content"}, "layout"))
}

func TestRegisterReplaces(t *testing.T) {
	var table Table[int]
	table.Register("content", "layout", 1)
	table.Register("content", "layout", 2)

	h, _ := table.Lookup([]Capability{"content"}, "layout")
	assert.Equal(t, 2, h)
}
