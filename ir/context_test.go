package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablor21/cirbind/config"
)

func TestNewContextHasRootModule(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	root := ctx.RootModule()
	it := ctx.ResolveItem(root)
	assert.True(t, it.IsModule())
	assert.Equal(t, root, it.ParentID())
	assert.Equal(t, ModuleKindRoot, it.Module().Kind)
	assert.Equal(t, root, ctx.CurrentModule())
}

func TestNextItemIdIsMonotonic(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	a := ctx.NextItemId()
	b := ctx.NextItemId()
	assert.Less(t, a, b)
}

func TestResolveItemPanicsOnUnknownID(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	assert.Panics(t, func() { ctx.ResolveItem(ItemId(99999)) })
}

func TestResolveItemFallibleReturnsFalse(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	_, ok := ctx.ResolveItemFallible(ItemId(99999))
	assert.False(t, ok)
}

func TestBeginFinishParsingRoundtrip(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	pt := PartialType{ID: ItemId(42)}
	ctx.BeginParsing(pt)
	require.Len(t, ctx.CurrentlyParsedTypes(), 1)
	got := ctx.FinishParsing()
	assert.Equal(t, pt.ID, got.ID)
	assert.Empty(t, ctx.CurrentlyParsedTypes())
}

func TestFinishParsingOnEmptyStackPanics(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	assert.Panics(t, func() { ctx.FinishParsing() })
}

func TestReplaceAndResolveReplacement(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	ctx.Replace([]string{"n", "Real"}, ItemId(7))
	id, ok := ctx.ResolveReplacement([]string{"n", "Real"})
	require.True(t, ok)
	assert.Equal(t, ItemId(7), id)

	_, ok = ctx.ResolveReplacement([]string{"n", "Other"})
	assert.False(t, ok)
}

func TestCollectedTyperefsClosesOnce(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	assert.False(t, ctx.CollectedTyperefs())
	ctx.CloseTyperefCollection()
	assert.True(t, ctx.CollectedTyperefs())
}

func TestEnterCodegenPhaseRequiresClosedCollection(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	assert.Panics(t, func() { ctx.EnterCodegenPhase() })
	ctx.CloseTyperefCollection()
	assert.NotPanics(t, func() { ctx.EnterCodegenPhase() })
	assert.True(t, ctx.InCodegenPhase())
}

func TestRequireCodegenPhasePanicsBeforePhase(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	assert.Panics(t, func() { ctx.RequireCodegenPhase() })
}

func TestRustMangleEscapesReservedWords(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	assert.Equal(t, "type_", ctx.RustMangle("type"))
	assert.Equal(t, "Widget", ctx.RustMangle("Widget"))
}

func TestHiddenByNameChecksAnnotationAndPattern(t *testing.T) {
	opts := config.Default()
	opts.HiddenByName = []string{"Detail::*"}
	ctx := NewContext(opts, nil, nil)

	id := ctx.NextItemId()
	ctx.NewModuleItem(id, ctx.RootModule(), "n", ModuleKindNormal, "", Annotations{Hide: true}, nil)
	assert.True(t, ctx.HiddenByName(nil, id))

	id2 := ctx.NextItemId()
	ctx.NewModuleItem(id2, ctx.RootModule(), "m", ModuleKindNormal, "", Annotations{}, nil)
	assert.True(t, ctx.HiddenByName([]string{"Detail", "Impl"}, id2))
	assert.False(t, ctx.HiddenByName([]string{"Public", "Impl"}, id2))
}

func TestAddItemPanicsOnDuplicateID(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	id := ctx.NextItemId()
	it := newItem(id, ctx.RootModule(), ItemKindModule)
	it.module = &Module{Kind: ModuleKindNormal}
	ctx.AddItem(it, nil)
	assert.Panics(t, func() { ctx.AddItem(it, nil) })
}
