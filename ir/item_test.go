package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalIDAssignsSequentiallyPerParent(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	root := ctx.RootModule()
	a := ctx.NextItemId()
	ctx.NewModuleItem(a, root, "a", ModuleKindNormal, "", Annotations{}, nil)
	b := ctx.NextItemId()
	ctx.NewModuleItem(b, root, "b", ModuleKindNormal, "", Annotations{}, nil)

	itemA := ctx.ResolveItem(a)
	itemB := ctx.ResolveItem(b)
	assert.Equal(t, 0, itemA.LocalID(ctx))
	assert.Equal(t, 1, itemB.LocalID(ctx))
}

func TestLocalIDIsStableAcrossCalls(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	root := ctx.RootModule()
	a := ctx.NextItemId()
	ctx.NewModuleItem(a, root, "a", ModuleKindNormal, "", Annotations{}, nil)

	itemA := ctx.ResolveItem(a)
	first := itemA.LocalID(ctx)
	second := itemA.LocalID(ctx)
	assert.Equal(t, first, second)
}

func TestLocalIDOfRootIsZero(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	root := ctx.ResolveItem(ctx.RootModule())
	assert.Equal(t, 0, root.LocalID(ctx))
}

func TestCanonicalNameCacheComputesOnce(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	id := ctx.NextItemId()
	ctx.NewModuleItem(id, ctx.RootModule(), "n", ModuleKindNormal, "", Annotations{}, nil)
	it := ctx.ResolveItem(id)

	calls := 0
	compute := func() string {
		calls++
		return "n"
	}
	first := it.CanonicalNameCache(compute)
	second := it.CanonicalNameCache(compute)
	assert.Equal(t, "n", first)
	assert.Equal(t, "n", second)
	assert.Equal(t, 1, calls, "the second call must not re-invoke fn")
}

func TestDeriveCycleFlagsAreIndependentPerKind(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	id := ctx.NextItemId()
	ctx.NewTypeItem(id, ctx.RootModule(), &Type{Kind: Bool{}}, "", Annotations{}, nil)
	it := ctx.ResolveItem(id)

	debugFlag := it.DeriveCycleFlag(DeriveFlagDebug)
	copyFlag := it.DeriveCycleFlag(DeriveFlagCopy)
	*debugFlag = true
	assert.True(t, *it.DeriveCycleFlag(DeriveFlagDebug))
	assert.False(t, *copyFlag, "setting the debug flag must not affect the copy flag")
}

func TestReplaceTypeKindOverwritesInPlace(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	id := ctx.NextItemId()
	ctx.NewTypeItem(id, ctx.RootModule(), &Type{Kind: UnresolvedTypeRef{}}, "", Annotations{}, nil)
	it := ctx.ResolveItem(id)

	it.replaceTypeKind(ResolvedTypeRef{Target: ItemId(7)})
	ref, ok := it.AsType().Kind.(ResolvedTypeRef)
	require.True(t, ok)
	assert.Equal(t, ItemId(7), ref.Target)
}

func TestReplaceTypeKindPanicsOnNonTypeItem(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	id := ctx.NextItemId()
	ctx.NewModuleItem(id, ctx.RootModule(), "n", ModuleKindNormal, "", Annotations{}, nil)
	it := ctx.ResolveItem(id)

	assert.Panics(t, func() { it.replaceTypeKind(Bool{}) })
}

func TestItemKindPredicatesAreMutuallyExclusive(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	id := ctx.NextItemId()
	ctx.NewFunctionItem(id, ctx.RootModule(), &Function{Name: "f"}, "", Annotations{}, nil)
	it := ctx.ResolveItem(id)

	assert.True(t, it.IsFunction())
	assert.False(t, it.IsModule())
	assert.False(t, it.IsType())
	assert.False(t, it.IsVariable())
}

func TestItemKindStringNamesKnownKinds(t *testing.T) {
	assert.Equal(t, "Module", ItemKindModule.String())
	assert.Equal(t, "Type", ItemKindType.String())
	assert.Equal(t, "Function", ItemKindFunction.String())
	assert.Equal(t, "Variable", ItemKindVariable.String())
	assert.Equal(t, "Unknown", ItemKind(99).String())
}

func TestIsHiddenAndIsOpaqueAnnotatedReflectAnnotations(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	id := ctx.NextItemId()
	ctx.NewTypeItem(id, ctx.RootModule(), &Type{Kind: Bool{}}, "", Annotations{Hide: true, Opaque: true}, nil)
	it := ctx.ResolveItem(id)

	assert.True(t, it.IsHidden())
	assert.True(t, it.IsOpaqueAnnotated())
}
