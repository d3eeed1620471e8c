// Package parser implements the cursor-driven dispatcher that turns
// clangcursor.Cursor values into ir.Item insertions. The
// Continue/Recurse/Success triad is modeled as a tagged Outcome rather
// than three separate return channels, the same shape
// pablor21-goscanner's scanner package uses for its own
// dispatch-with-fallback calls, generalized here to the three-way split
// the cursor-visitor protocol needs.
package parser

import (
	"github.com/pablor21/cirbind/clangcursor"
	"github.com/pablor21/cirbind/ir"
)

// OutcomeKind discriminates an Outcome's payload.
type OutcomeKind int

const (
	// OutcomeNew means a fresh Item was created and inserted.
	OutcomeNew OutcomeKind = iota
	// OutcomeAlreadyResolved means an existing Item satisfies the request.
	OutcomeAlreadyResolved
	// OutcomeContinue means this cursor is not the dispatcher's concern;
	// the outer visitor should move on to siblings.
	OutcomeContinue
	// OutcomeRecurse means this cursor must be decomposed into children;
	// the outer visitor should descend and retry from within.
	OutcomeRecurse
)

// Outcome is the result of one dispatch attempt: New(item,
// declaration-cursor), AlreadyResolved(existing-id), Continue, or Recurse.
type Outcome struct {
	Kind       OutcomeKind
	ID         ir.ItemId
	DeclCursor clangcursor.Cursor
}

func newOutcome(id ir.ItemId, declCursor clangcursor.Cursor) Outcome {
	return Outcome{Kind: OutcomeNew, ID: id, DeclCursor: declCursor}
}

func alreadyResolved(id ir.ItemId) Outcome {
	return Outcome{Kind: OutcomeAlreadyResolved, ID: id}
}

func cont() Outcome {
	return Outcome{Kind: OutcomeContinue}
}

func recurse() Outcome {
	return Outcome{Kind: OutcomeRecurse}
}

// ResolvedID returns the outcome's item ID and true for New/AlreadyResolved, or
// the zero ID and false otherwise.
func (o Outcome) ResolvedID() (ir.ItemId, bool) {
	if o.Kind == OutcomeNew || o.Kind == OutcomeAlreadyResolved {
		return o.ID, true
	}
	return ir.InvalidItemId, false
}
