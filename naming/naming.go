// Package naming computes canonical names and paths for items. Every
// query here is legal only in the codegen phase and is deterministic
// given the Context's state, matching rust-bindgen's own
// ItemCanonicalName/ItemCanonicalPath traits, reimagined as a Go Namer
// value rather than methods directly on Item so the Context dependency
// stays explicit.
package naming

import (
	"strconv"
	"strings"

	"github.com/pablor21/cirbind/diag"
	"github.com/pablor21/cirbind/internal/cyclecheck"
	"github.com/pablor21/cirbind/ir"
)

// Namer computes names and paths against a single Context.
type Namer struct {
	ctx *ir.Context
}

// New returns a Namer bound to ctx.
func New(ctx *ir.Context) *Namer {
	return &Namer{ctx: ctx}
}

// NameTargetOptions controls ancestor folding for RealCanonicalName.
type NameTargetOptions struct {
	WithinNamespaces bool
}

// NameTarget follows identity-preserving aliases to the nameable item
//: ResolvedTypeRef and TemplateInstantiation (to its
// definition) are transparent, stopping at the first item with a
// use_instead_of override or that is not such an alias.
func (n *Namer) NameTarget(item ir.ItemId) ir.ItemId {
	n.ctx.RequireCodegenPhase()

	var guard *cyclecheck.Guard[ir.ItemId]
	if n.ctx.DebugCycleChecks {
		guard = cyclecheck.NewGuard(item)
	}

	current := item
	for {
		it := n.ctx.ResolveItem(current)
		if it.Annotations().HasUseInsteadOf() {
			return current
		}
		if it.IsType() {
			switch k := it.AsType().Kind.(type) {
			case ir.ResolvedTypeRef:
				if guard != nil {
					guard.Visit(k.Target)
				}
				current = k.Target
				continue
			case ir.TemplateInstantiation:
				if guard != nil {
					guard.Visit(k.Definition)
				}
				current = k.Definition
				continue
			}
		}
		return current
	}
}

// ExposedID returns local_id as decimal for Comp/Enum types, and
// id_<global_id> otherwise.
func (n *Namer) ExposedID(item ir.ItemId) string {
	it := n.ctx.ResolveItem(item)
	if it.IsType() {
		switch it.AsType().Kind.(type) {
		case ir.Comp, ir.Enum:
			return strconv.Itoa(it.LocalID(n.ctx))
		}
	}
	return "id_" + strconv.Itoa(int(item))
}

// BaseName computes an item's unqualified name.
func (n *Namer) BaseName(item ir.ItemId) string {
	it := n.ctx.ResolveItem(item)
	switch it.Kind() {
	case ir.ItemKindVariable:
		return it.AsVariable().Name

	case ir.ItemKindModule:
		if it.Module().Name != "" {
			return it.Module().Name
		}
		return "_bindgen_mod_" + n.ExposedID(item)

	case ir.ItemKindType:
		t := it.AsType()
		if t.IsResolvedTypeRef() {
			diag.Fatalf("naming: base_name reached an un-unwrapped ResolvedTypeRef; call NameTarget first")
		}
		if t.Name != "" {
			return t.Name
		}
		return "_bindgen_ty_" + n.ExposedID(item)

	case ir.ItemKindFunction:
		fn := it.AsFunction()
		idx := n.overloadIndex(item, fn)
		if idx == 0 {
			return fn.Name
		}
		return fn.Name + strconv.Itoa(idx)

	default:
		panic("naming: base_name: unknown item kind")
	}
}

// overloadIndex returns a constructor's position among its parent's
// constructors, or any other function's position among its parent's
// functions of the same name. Indexing is scoped to the immediate parent
// only.
func (n *Namer) overloadIndex(item ir.ItemId, fn *ir.Function) int {
	siblings := n.siblingFunctions(n.ctx.ResolveItem(item).ParentID(), fn)
	for i, id := range siblings {
		if id == item {
			return i
		}
	}
	return 0
}

// siblingFunctions lists function items directly parented to parentID
// that share fn's name and constructor-ness, in item-table iteration
// order stabilized by ID (insertion order), matching declaration order
// from a single translation-unit walk.
func (n *Namer) siblingFunctions(parentID ir.ItemId, fn *ir.Function) []ir.ItemId {
	var candidates []ir.ItemId
	isCtor := fn.Variant == ir.FunctionVariantConstructor
	for _, id := range n.ctx.AllItemIDs() {
		it, ok := n.ctx.ResolveItemFallible(id)
		if !ok || !it.IsFunction() || it.ParentID() != parentID {
			continue
		}
		other := it.AsFunction()
		otherIsCtor := other.Variant == ir.FunctionVariantConstructor
		if otherIsCtor != isCtor {
			continue
		}
		if !isCtor && other.Name != fn.Name {
			continue
		}
		candidates = append(candidates, id)
	}
	sortByID(candidates)
	return candidates
}

func sortByID(ids []ir.ItemId) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// RealCanonicalName computes item's mangled, underscore-joined name from
// its ancestor chain, exclusive of the root module.
func (n *Namer) RealCanonicalName(item ir.ItemId, opts NameTargetOptions) string {
	target := n.NameTarget(item)
	targetItem := n.ctx.ResolveItem(target)

	if ann := targetItem.Annotations(); ann.HasUseInsteadOf() {
		parts := strings.Split(ann.UseInsteadOf, "::")
		if n.ctx.Options().EnableCXXNamespaces {
			return parts[len(parts)-1]
		}
		return n.ctx.RustMangle(strings.Join(parts, "_"))
	}

	if targetItem.IsType() && targetItem.AsType().IsNamed() {
		return n.BaseName(target)
	}

	var segments []string
	iter := n.ctx.Ancestors(target)
	for {
		id, ok := iter.Next()
		if !ok {
			break
		}
		anc, ok := n.ctx.ResolveItemFallible(id)
		if !ok {
			break
		}
		isRoot := anc.ParentID() == id
		if isRoot {
			break
		}
		if opts.WithinNamespaces && anc.IsModule() {
			break
		}
		name := n.BaseName(n.NameTarget(id))
		if name != "" {
			segments = append(segments, name)
		}
	}
	reverseStrings(segments)
	segments = append(segments, n.BaseName(target))
	return n.ctx.RustMangle(strings.Join(segments, "_"))
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// CanonicalPath computes item's full ancestor path, inclusive of the
// root module.
func (n *Namer) CanonicalPath(item ir.ItemId) []string {
	target := n.NameTarget(item)
	targetItem := n.ctx.ResolveItem(target)

	if ann := targetItem.Annotations(); ann.HasUseInsteadOf() {
		rootName := n.BaseName(n.ctx.RootModule())
		return append([]string{rootName}, strings.Split(ann.UseInsteadOf, "::")...)
	}

	conservative := n.ctx.Options().ConservativeInlineNamespaces

	var path []ir.ItemId
	iter := n.ctx.Ancestors(target)
	for {
		id, ok := iter.Next()
		if !ok {
			break
		}
		anc, ok := n.ctx.ResolveItemFallible(id)
		if !ok {
			break
		}
		isRoot := anc.ParentID() == id
		if !conservative && anc.IsModule() && anc.Module().Kind == ir.ModuleKindInline {
			if isRoot {
				path = append(path, id)
				break
			}
			continue
		}
		path = append(path, id)
		if isRoot {
			break
		}
	}

	segments := make([]string, 0, len(path)+1)
	for i := len(path) - 1; i >= 0; i-- {
		segments = append(segments, n.BaseName(n.NameTarget(path[i])))
	}
	segments = append(segments, n.BaseName(target))
	return segments
}

// NamespaceAwareCanonicalPath folds CanonicalPath's segments according
// to the configured namespace-naming mode.
func (n *Namer) NamespaceAwareCanonicalPath(item ir.ItemId) []string {
	full := n.CanonicalPath(item)
	opts := n.ctx.Options()
	switch {
	case opts.EnableCXXNamespaces:
		return full
	case opts.DisableNameNamespacing:
		return full[len(full)-1:]
	default:
		nonRoot := full[1:]
		return []string{strings.Join(nonRoot, "_")}
	}
}

// CanonicalName returns the cached canonical name for item, computing and
// caching it via RealCanonicalName on first access.
func (n *Namer) CanonicalName(item ir.ItemId) string {
	n.ctx.RequireCodegenPhase()
	it := n.ctx.ResolveItem(item)
	return it.CanonicalNameCache(func() string {
		return n.RealCanonicalName(item, NameTargetOptions{WithinNamespaces: n.ctx.Options().EnableCXXNamespaces})
	})
}
