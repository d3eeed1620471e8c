// Package derive implements cycle-protected derivability queries:
// can_derive_debug, can_derive_default, can_derive_copy, and
// can_derive_copy_in_array. Each walks the type graph, consulting the
// option flags and substituting an Opaque item's layout for derivability
// when structure isn't available.
package derive

import "github.com/pablor21/cirbind/ir"

// Deriver answers derivability queries against a single Context.
type Deriver struct {
	ctx *ir.Context
}

// New returns a Deriver bound to ctx.
func New(ctx *ir.Context) *Deriver {
	return &Deriver{ctx: ctx}
}

// query is one of the four derive questions, each with its own optimistic
// default: true for Debug/Copy/CopyInArray, false for Default. Debug uses
// the Item's Debug re-entrance flag; Default, Copy and CopyInArray share
// its Copy flag (see deriveFlagKind).
type query int

const (
	queryDebug query = iota
	queryDefault
	queryCopy
	queryCopyInArray
)

func (q query) optimisticAnswer() bool {
	return q != queryDefault
}

// CanDeriveDebug reports whether item can derive the Debug-equivalent
// trait.
func (d *Deriver) CanDeriveDebug(item ir.ItemId) bool {
	d.ctx.RequireCodegenPhase()
	if !d.ctx.Options().DeriveDebug {
		return false
	}
	return d.evaluate(item, queryDebug)
}

// CanDeriveDefault reports whether item can derive the Default-equivalent
// trait.
func (d *Deriver) CanDeriveDefault(item ir.ItemId) bool {
	d.ctx.RequireCodegenPhase()
	if !d.ctx.Options().DeriveDefault {
		return false
	}
	return d.evaluate(item, queryDefault)
}

// CanDeriveCopy reports whether item can derive the Copy-equivalent
// trait.
func (d *Deriver) CanDeriveCopy(item ir.ItemId) bool {
	d.ctx.RequireCodegenPhase()
	return d.evaluate(item, queryCopy)
}

// CanDeriveCopyInArray reports whether an array of item can derive the
// Copy-equivalent trait.
func (d *Deriver) CanDeriveCopyInArray(item ir.ItemId) bool {
	d.ctx.RequireCodegenPhase()
	return d.evaluate(item, queryCopyInArray)
}

func (d *Deriver) evaluate(item ir.ItemId, q query) bool {
	it, ok := d.ctx.ResolveItemFallible(item)
	if !ok {
		return q.optimisticAnswer()
	}

	reentering, clear := d.enterGuard(it, q)
	if reentering {
		return q.optimisticAnswer()
	}
	defer clear()

	if !it.IsType() {
		return q.optimisticAnswer()
	}
	t := it.AsType()

	if t.IsOpaque() {
		return d.deriveOpaque(t, q)
	}

	switch k := t.Kind.(type) {
	case ir.Void, ir.Int, ir.Float, ir.Bool, ir.Named:
		return true
	case ir.Pointer:
		return true // pointers are always Debug/Copy/Default-derivable regardless of pointee
	case ir.Reference:
		return q != queryDefault // references have no meaningful default value
	case ir.Array:
		if q == queryCopyInArray || q == queryCopy {
			return d.evaluate(k.Element, queryCopyInArray)
		}
		return d.evaluate(k.Element, q)
	case ir.Comp:
		return d.deriveComp(k, q)
	case ir.Enum:
		return q != queryDefault // enums need an explicit default variant to derive Default
	case ir.FunctionSig:
		return false
	case ir.TypedefAlias:
		return d.evaluate(k.Inner, q)
	case ir.ResolvedTypeRef:
		return d.evaluate(k.Target, q)
	case ir.TemplateInstantiation:
		return d.evaluate(k.Definition, q)
	case ir.TemplateDecl:
		return d.evaluate(k.Definition, q)
	case ir.UnresolvedTypeRef:
		return q.optimisticAnswer() // unresolved at this point is a parse bug, not a derive answer worth failing over
	default:
		return q.optimisticAnswer()
	}
}

func (d *Deriver) deriveComp(c ir.Comp, q query) bool {
	if c.IsForwardDeclaration {
		return q != queryDefault
	}
	for _, f := range c.Fields {
		fieldQuery := q
		if q == queryCopy {
			fieldQuery = queryCopyInArray
		}
		if !d.evaluate(f.Type, fieldQuery) {
			return false
		}
	}
	for _, b := range c.Bases {
		if !d.evaluate(b, q) {
			return false
		}
	}
	return true
}

func (d *Deriver) deriveOpaque(t *ir.Type, q query) bool {
	op := t.Kind.(ir.Opaque)
	switch q {
	case queryDefault:
		return false // an opaque blob has no known-zero representation to default to
	default:
		return op.Layout.Size >= 0 // always true today; kept as the hook layout-aware emitters would refine
	}
}

// enterGuard flips the per-item, per-query re-entrance flag, returning
// whether the call is itself a re-entry (cycle) and a func to clear the
// flag on exit.
func (d *Deriver) enterGuard(it *ir.Item, q query) (reentering bool, clear func()) {
	flag := it.DeriveCycleFlag(deriveFlagKind(q))
	if *flag {
		return true, func() {}
	}
	*flag = true
	return false, func() { *flag = false }
}

func deriveFlagKind(q query) ir.DeriveFlagKind {
	switch q {
	case queryDebug:
		return ir.DeriveFlagDebug
	default:
		return ir.DeriveFlagCopy
	}
}
