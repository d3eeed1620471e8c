package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablor21/cirbind/config"
	"github.com/pablor21/cirbind/ir"
)

func readyContext(opts *config.Options) *ir.Context {
	ctx := ir.NewContext(opts, nil, nil)
	ctx.CloseTyperefCollection()
	ctx.EnterCodegenPhase()
	return ctx
}

// TestCrossNamespaceStructFieldNaming reproduces scenario S1: two sibling
// namespaces, one referencing the other's struct by pointer.
func TestCrossNamespaceStructFieldNaming(t *testing.T) {
	opts := config.Default()
	ctx := ir.NewContext(opts, nil, nil)
	root := ctx.RootModule()

	foo := ctx.NextItemId()
	ctx.NewModuleItem(foo, root, "foo", ir.ModuleKindNormal, "", ir.Annotations{}, nil)
	bar := ctx.NextItemId()
	ctx.NewModuleItem(bar, root, "bar", ir.ModuleKindNormal, "", ir.Annotations{}, nil)

	intTy := ctx.NextItemId()
	ctx.NewTypeItem(intTy, foo, &ir.Type{Kind: ir.Int{Width: 32, Signed: true}}, "", ir.Annotations{}, nil)
	boolTy := ctx.NextItemId()
	ctx.NewTypeItem(boolTy, foo, &ir.Type{Kind: ir.Bool{}}, "", ir.Annotations{}, nil)

	barStruct := ctx.NextItemId()
	ctx.NewTypeItem(barStruct, foo, &ir.Type{
		Name: "Bar",
		Kind: ir.Comp{Kind: ir.CompStruct, Fields: []ir.Field{
			{Name: "a", Type: intTy},
			{Name: "b", Type: boolTy},
		}},
	}, "", ir.Annotations{}, nil)

	ptrToBar := ctx.NextItemId()
	ctx.NewTypeItem(ptrToBar, bar, &ir.Type{Kind: ir.Pointer{Inner: barStruct}}, "", ir.Annotations{}, nil)

	fooStruct := ctx.NextItemId()
	ctx.NewTypeItem(fooStruct, bar, &ir.Type{
		Name: "Foo",
		Kind: ir.Comp{Kind: ir.CompStruct, Fields: []ir.Field{{Name: "p", Type: ptrToBar}}},
	}, "", ir.Annotations{}, nil)

	ctx.CloseTyperefCollection()
	ctx.EnterCodegenPhase()
	n := New(ctx)

	path := n.CanonicalPath(fooStruct)
	assert.Equal(t, []string{"root", "bar", "Foo"}, path)

	ctx.Options().EnableCXXNamespaces = false
	assert.Equal(t, "bar_Foo", n.RealCanonicalName(fooStruct, NameTargetOptions{WithinNamespaces: false}))
}

// TestAnonymousStructBaseName reproduces scenario S2.
func TestAnonymousStructBaseName(t *testing.T) {
	ctx := readyContext(nil)
	root := ctx.RootModule()
	nMod := ctx.NextItemId()
	ctx.NewModuleItem(nMod, root, "n", ir.ModuleKindNormal, "", ir.Annotations{}, nil)

	anon := ctx.NextItemId()
	ctx.NewTypeItem(anon, nMod, &ir.Type{Kind: ir.Comp{Kind: ir.CompStruct}}, "", ir.Annotations{}, nil)

	n := New(ctx)
	assert.Contains(t, n.BaseName(anon), "_bindgen_ty_")
	assert.Contains(t, n.CanonicalName(anon), "n_")
}

// TestNamedTemplateParameterHasBareName reproduces scenario S3.
func TestNamedTemplateParameterHasBareName(t *testing.T) {
	ctx := readyContext(nil)
	root := ctx.RootModule()
	tParam := ctx.NextItemId()
	ctx.NewTypeItem(tParam, root, &ir.Type{Kind: ir.Named{Name: "T"}, Name: "T"}, "", ir.Annotations{}, nil)

	n := New(ctx)
	assert.Equal(t, "T", n.BaseName(tParam))
	assert.Equal(t, "T", n.CanonicalName(tParam))
}

// TestOverloadedMethodsGetIndexedBaseNames reproduces scenario S5.
func TestOverloadedMethodsGetIndexedBaseNames(t *testing.T) {
	ctx := readyContext(nil)
	root := ctx.RootModule()

	recID := ctx.NextItemId()
	ctx.NewTypeItem(recID, root, &ir.Type{Name: "C", Kind: ir.Comp{Kind: ir.CompStruct}}, "", ir.Annotations{}, nil)

	sigID := ctx.NextItemId()
	ctx.NewTypeItem(sigID, recID, &ir.Type{Kind: ir.FunctionSig{IsMethod: true}}, "", ir.Annotations{}, nil)

	m0 := ctx.NextItemId()
	ctx.NewFunctionItem(m0, recID, &ir.Function{Name: "m", Signature: sigID, Variant: ir.FunctionVariantMethod}, "", ir.Annotations{}, nil)
	m1 := ctx.NextItemId()
	ctx.NewFunctionItem(m1, recID, &ir.Function{Name: "m", Signature: sigID, Variant: ir.FunctionVariantMethod}, "", ir.Annotations{}, nil)

	c0 := ctx.NextItemId()
	ctx.NewFunctionItem(c0, recID, &ir.Function{Name: "C", Signature: sigID, Variant: ir.FunctionVariantConstructor}, "", ir.Annotations{}, nil)
	c1 := ctx.NextItemId()
	ctx.NewFunctionItem(c1, recID, &ir.Function{Name: "C", Signature: sigID, Variant: ir.FunctionVariantConstructor}, "", ir.Annotations{}, nil)

	n := New(ctx)
	assert.Equal(t, "m", n.BaseName(m0))
	assert.Equal(t, "m1", n.BaseName(m1))
	assert.Equal(t, "C", n.BaseName(c0))
	assert.Equal(t, "C1", n.BaseName(c1))
}

// TestUseInsteadOfOverride reproduces scenario S6.
func TestUseInsteadOfOverride(t *testing.T) {
	ctx := readyContext(nil)
	root := ctx.RootModule()
	nMod := ctx.NextItemId()
	ctx.NewModuleItem(nMod, root, "n", ir.ModuleKindNormal, "", ir.Annotations{}, nil)

	fake := ctx.NextItemId()
	ctx.NewTypeItem(fake, nMod, &ir.Type{
		Name: "Fake",
		Kind: ir.Comp{Kind: ir.CompStruct},
	}, "", ir.Annotations{UseInsteadOf: "n::Fake"}, nil)

	n := New(ctx)

	ctx.Options().EnableCXXNamespaces = true
	assert.Equal(t, "Fake", n.RealCanonicalName(fake, NameTargetOptions{WithinNamespaces: true}))

	ctx.Options().EnableCXXNamespaces = false
	assert.Equal(t, "n_Fake", n.RealCanonicalName(fake, NameTargetOptions{WithinNamespaces: false}))
}

func TestResolvedTypeRefIsUnwrappedByNameTarget(t *testing.T) {
	ctx := readyContext(nil)
	root := ctx.RootModule()

	real := ctx.NextItemId()
	ctx.NewTypeItem(real, root, &ir.Type{Name: "Real", Kind: ir.Comp{Kind: ir.CompStruct}}, "", ir.Annotations{}, nil)

	alias := ctx.NextItemId()
	ctx.NewTypeItem(alias, root, &ir.Type{Kind: ir.ResolvedTypeRef{Target: real}}, "", ir.Annotations{}, nil)

	n := New(ctx)
	require.Equal(t, real, n.NameTarget(alias))
	assert.Equal(t, "Real", n.BaseName(n.NameTarget(alias)))
}

func TestBaseNamePanicsOnRawResolvedTypeRef(t *testing.T) {
	ctx := readyContext(nil)
	root := ctx.RootModule()
	real := ctx.NextItemId()
	ctx.NewTypeItem(real, root, &ir.Type{Name: "Real", Kind: ir.Comp{Kind: ir.CompStruct}}, "", ir.Annotations{}, nil)
	alias := ctx.NextItemId()
	ctx.NewTypeItem(alias, root, &ir.Type{Kind: ir.ResolvedTypeRef{Target: real}}, "", ir.Annotations{}, nil)

	n := New(ctx)
	assert.Panics(t, func() { n.BaseName(alias) })
}
