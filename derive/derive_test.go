package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pablor21/cirbind/config"
	"github.com/pablor21/cirbind/ir"
)

func readyContext(t *testing.T) *ir.Context {
	t.Helper()
	opts := config.Default()
	opts.DeriveDebug = true
	opts.DeriveDefault = true
	ctx := ir.NewContext(opts, nil, nil)
	ctx.CloseTyperefCollection()
	ctx.EnterCodegenPhase()
	return ctx
}

func TestPrimitivesDeriveEverything(t *testing.T) {
	ctx := readyContext(t)
	root := ctx.RootModule()
	intID := ctx.NextItemId()
	ctx.NewTypeItem(intID, root, &ir.Type{Kind: ir.Int{Width: 32, Signed: true}}, "", ir.Annotations{}, nil)

	d := New(ctx)
	assert.True(t, d.CanDeriveDebug(intID))
	assert.True(t, d.CanDeriveDefault(intID))
	assert.True(t, d.CanDeriveCopy(intID))
	assert.True(t, d.CanDeriveCopyInArray(intID))
}

func TestPointerAlwaysDerivesRegardlessOfPointee(t *testing.T) {
	ctx := readyContext(t)
	root := ctx.RootModule()

	sig := ctx.NextItemId()
	ctx.NewTypeItem(sig, root, &ir.Type{Kind: ir.FunctionSig{}}, "", ir.Annotations{}, nil)
	ptr := ctx.NextItemId()
	ctx.NewTypeItem(ptr, root, &ir.Type{Kind: ir.Pointer{Inner: sig}}, "", ir.Annotations{}, nil)

	d := New(ctx)
	assert.False(t, d.CanDeriveDebug(sig), "function signatures are never derivable")
	assert.True(t, d.CanDeriveDebug(ptr), "a pointer derives regardless of what it points to")
}

func TestReferenceNeverDerivesDefault(t *testing.T) {
	ctx := readyContext(t)
	root := ctx.RootModule()
	intID := ctx.NextItemId()
	ctx.NewTypeItem(intID, root, &ir.Type{Kind: ir.Int{Width: 32, Signed: true}}, "", ir.Annotations{}, nil)
	ref := ctx.NextItemId()
	ctx.NewTypeItem(ref, root, &ir.Type{Kind: ir.Reference{Inner: intID}}, "", ir.Annotations{}, nil)

	d := New(ctx)
	assert.True(t, d.CanDeriveDebug(ref))
	assert.False(t, d.CanDeriveDefault(ref))
}

func TestDirectlyRecursiveCompBreaksCycleOptimistically(t *testing.T) {
	ctx := readyContext(t)
	root := ctx.RootModule()

	node := ctx.NextItemId()
	ctx.NewTypeItem(node, root, &ir.Type{
		Name: "Node",
		Kind: ir.Comp{Kind: ir.CompStruct, Fields: []ir.Field{{Name: "self", Type: node}}},
	}, "", ir.Annotations{}, nil)

	d := New(ctx)
	assert.True(t, d.CanDeriveDebug(node), "Debug optimistically allows cyclic self-reference")
	assert.False(t, d.CanDeriveDefault(node), "Default pessimistically rejects cyclic self-reference")
	assert.True(t, d.CanDeriveCopy(node))
}

func TestForwardDeclaredCompNeverDerivesDefault(t *testing.T) {
	ctx := readyContext(t)
	root := ctx.RootModule()
	fwd := ctx.NextItemId()
	ctx.NewTypeItem(fwd, root, &ir.Type{
		Name: "Incomplete",
		Kind: ir.Comp{Kind: ir.CompStruct, IsForwardDeclaration: true},
	}, "", ir.Annotations{}, nil)

	d := New(ctx)
	assert.True(t, d.CanDeriveDebug(fwd))
	assert.False(t, d.CanDeriveDefault(fwd))
}

func TestOpaqueSubstitutesLayoutDerivability(t *testing.T) {
	ctx := readyContext(t)
	root := ctx.RootModule()
	op := ctx.NextItemId()
	ctx.NewTypeItem(op, root, &ir.Type{
		Name:   "Blob",
		Kind:   ir.Comp{Kind: ir.CompStruct},
		Layout: &ir.Layout{Size: 16, Align: 8},
	}, "", ir.Annotations{}, nil)
	it := ctx.ResolveItem(op)
	it.AsType().Kind = ir.Opaque{Layout: ir.Layout{Size: 16, Align: 8}}

	d := New(ctx)
	assert.False(t, d.CanDeriveDefault(op), "an opaque blob has no zero representation")
	assert.True(t, d.CanDeriveCopy(op))
}

func TestDeriveDebugOptionGatesQuery(t *testing.T) {
	opts := config.Default()
	opts.DeriveDebug = false
	ctx := ir.NewContext(opts, nil, nil)
	ctx.CloseTyperefCollection()
	ctx.EnterCodegenPhase()
	root := ctx.RootModule()
	intID := ctx.NextItemId()
	ctx.NewTypeItem(intID, root, &ir.Type{Kind: ir.Int{Width: 32, Signed: true}}, "", ir.Annotations{}, nil)

	d := New(ctx)
	assert.False(t, d.CanDeriveDebug(intID), "derive_debug=false disables the Debug query")
}

func TestDeriveQueriesRequireCodegenPhase(t *testing.T) {
	ctx := ir.NewContext(nil, nil, nil)
	root := ctx.RootModule()
	intID := ctx.NextItemId()
	ctx.NewTypeItem(intID, root, &ir.Type{Kind: ir.Int{Width: 32, Signed: true}}, "", ir.Annotations{}, nil)

	d := New(ctx)
	assert.Panics(t, func() { d.CanDeriveCopy(intID) })
}
