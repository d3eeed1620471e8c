package ir

import "github.com/pablor21/cirbind/internal/cyclecheck"

// AncestorIter walks parent_id links from an item up to the root module
//. It is the Go shape of rust-bindgen's ItemAncestorsIter: a
// real iterator type rather than a callback, so callers can early-exit a
// range loop without extra plumbing.
type AncestorIter struct {
	ctx     *Context
	current ItemId
	done    bool
	guard   *cyclecheck.Guard[ItemId] // non-nil only when DebugCycleChecks is on
}

// Ancestors begins an ancestor walk from item (exclusive: the first value
// produced by Next is item's parent, not item itself).
func (ctx *Context) Ancestors(item ItemId) *AncestorIter {
	it := &AncestorIter{ctx: ctx, current: item}
	if ctx.DebugCycleChecks {
		it.guard = cyclecheck.NewGuard(item)
	}
	return it
}

// Next returns the next ancestor and true, or the zero ItemId and false
// once the root has been produced or a dangling parent was hit: the walk
// terminates when an item's own parent_id resolves to itself, or when
// the parent ID no longer resolves to any item.
func (it *AncestorIter) Next() (ItemId, bool) {
	if it.done {
		return InvalidItemId, false
	}
	cur, ok := it.ctx.resolveItemFallibleLocked(it.current)
	if !ok {
		it.done = true
		return InvalidItemId, false
	}
	parent := cur.parentID
	if parent == it.current {
		// Reached the root's fixpoint: produce it once, then stop.
		it.done = true
		return parent, true
	}
	if it.guard != nil {
		it.guard.Visit(parent)
	}
	if p, ok := it.ctx.resolveItemFallibleLocked(parent); ok && p.parentID == parent {
		// parent is the root: produce it once, then stop.
		it.done = true
	}
	it.current = parent
	return parent, true
}

// Collect drains the iterator into a slice, root-last (the order Next
// produces them in).
func (it *AncestorIter) Collect() []ItemId {
	var out []ItemId
	for {
		id, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, id)
	}
}

// IsTopLevel reports whether item's ancestor chain reaches the root
// without crossing any non-module boundary. Modules on the chain are
// passed through in both modes; when namespaces are enabled, a module
// other than the root is itself never top-level.
func (ctx *Context) IsTopLevel(item ItemId) bool {
	namespacesEnabled := ctx.Options().EnableCXXNamespaces
	it, ok := ctx.resolveItemFallibleLocked(item)
	if !ok {
		return false
	}
	if it.parentID == item {
		return true // the root itself
	}
	if namespacesEnabled && it.IsModule() {
		return false // "only the root module is top-level among modules"
	}
	iter := ctx.Ancestors(item)
	for {
		id, ok := iter.Next()
		if !ok {
			return true
		}
		anc, ok := ctx.resolveItemFallibleLocked(id)
		if !ok {
			return true
		}
		if anc.parentID == id {
			return true // reached root without crossing a non-module boundary
		}
		if !anc.IsModule() {
			return false
		}
	}
}
