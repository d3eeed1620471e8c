// Package traversal implements a typed-edge graph walk: a Trace protocol
// that lets a Tracer visit each outgoing edge of an item, filtered by
// hidden/opaque policy. The shape is grounded on golangsnmp-gomib's
// internal/graph.Graph (nodes with typed edges, a visitor-style walk)
// adapted from gomib's batch dependency/dependent adjacency model to a
// single-item, on-demand edge enumeration driven by the item's own
// payload.
package traversal

import "github.com/pablor21/cirbind/ir"

// EdgeKind identifies what role an outgoing edge plays.
type EdgeKind int

const (
	EdgeVarType EdgeKind = iota
	EdgeFunctionSignature
	EdgeFunctionReturnType
	EdgeFunctionParameter
	EdgeTypeStructural
	EdgeBaseClass
	EdgeModuleChild
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeVarType:
		return "VarType"
	case EdgeFunctionSignature:
		return "FunctionSignature"
	case EdgeFunctionReturnType:
		return "FunctionReturnType"
	case EdgeFunctionParameter:
		return "FunctionParameter"
	case EdgeTypeStructural:
		return "TypeStructural"
	case EdgeBaseClass:
		return "BaseClass"
	case EdgeModuleChild:
		return "ModuleChild"
	default:
		return "Unknown"
	}
}

// Tracer receives each outgoing edge from Trace. Visit has no return
// value: Trace enumerates every edge of the item eagerly, so callers that
// want early exit must track that themselves.
type Tracer interface {
	Visit(from ir.ItemId, kind EdgeKind, to ir.ItemId)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(from ir.ItemId, kind EdgeKind, to ir.ItemId)

func (f TracerFunc) Visit(from ir.ItemId, kind EdgeKind, to ir.ItemId) {
	f(from, kind, to)
}

// Trace visits every outgoing edge of item, honoring the following
// policy:
//   - hidden items are not traced at all.
//   - opaque items are not traced, except that a ResolvedTypeRef must
//     still produce its edge to the target even when the item carrying it
//     is opaque.
//   - module-to-child edges are only emitted when includeModuleChildren
//     is set, since the default whitelisting walk must not make
//     whitelisting transitive over entire namespaces.
func Trace(ctx *ir.Context, item ir.ItemId, t Tracer, includeModuleChildren bool) {
	it, ok := ctx.ResolveItemFallible(item)
	if !ok {
		return
	}
	if ctx.HiddenByName(nil, item) {
		return
	}

	switch {
	case it.IsVariable():
		v := it.AsVariable()
		t.Visit(item, EdgeVarType, v.Type)

	case it.IsFunction():
		fn := it.AsFunction()
		t.Visit(item, EdgeFunctionSignature, fn.Signature)

	case it.IsType():
		traceType(ctx, item, it, t)

	case it.IsModule():
		if includeModuleChildren {
			for _, child := range moduleChildren(ctx, item) {
				t.Visit(item, EdgeModuleChild, child)
			}
		}
	}
}

func traceType(ctx *ir.Context, item ir.ItemId, it *ir.Item, t Tracer) {
	ty := it.AsType()

	if ref, ok := ty.Kind.(ir.ResolvedTypeRef); ok {
		// Unconditional: must be traced even through an opaque item.
		t.Visit(item, EdgeTypeStructural, ref.Target)
		return
	}

	if ty.IsOpaque() {
		return
	}

	switch k := ty.Kind.(type) {
	case ir.Pointer:
		t.Visit(item, EdgeTypeStructural, k.Inner)
	case ir.Reference:
		t.Visit(item, EdgeTypeStructural, k.Inner)
	case ir.Array:
		t.Visit(item, EdgeTypeStructural, k.Element)
	case ir.Comp:
		for _, f := range k.Fields {
			t.Visit(item, EdgeTypeStructural, f.Type)
		}
		for _, b := range k.Bases {
			t.Visit(item, EdgeBaseClass, b)
		}
	case ir.Enum:
		t.Visit(item, EdgeTypeStructural, k.UnderlyingType)
	case ir.FunctionSig:
		t.Visit(item, EdgeFunctionReturnType, k.ReturnType)
		for _, param := range k.Parameters {
			t.Visit(item, EdgeFunctionParameter, param)
		}
	case ir.TypedefAlias:
		t.Visit(item, EdgeTypeStructural, k.Inner)
	case ir.TemplateDecl:
		for _, param := range k.Parameters {
			t.Visit(item, EdgeTypeStructural, param)
		}
		t.Visit(item, EdgeTypeStructural, k.Definition)
	case ir.TemplateInstantiation:
		t.Visit(item, EdgeTypeStructural, k.Definition)
		for _, arg := range k.Arguments {
			t.Visit(item, EdgeTypeStructural, arg)
		}
	}
}

// moduleChildren scans the whole item table for items directly parented
// to moduleID. The core keeps no reverse-edge index, so consumers that need
// this walk often are expected to maintain their own index; this is the
// reference, always-correct implementation.
func moduleChildren(ctx *ir.Context, moduleID ir.ItemId) []ir.ItemId {
	var out []ir.ItemId
	for _, id := range ctx.AllItemIDs() {
		it, ok := ctx.ResolveItemFallible(id)
		if ok && it.ParentID() == moduleID && id != moduleID {
			out = append(out, id)
		}
	}
	return out
}
