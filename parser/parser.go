package parser

import (
	"regexp"
	"strings"

	"github.com/pablor21/cirbind/clangcursor"
	"github.com/pablor21/cirbind/diag"
	"github.com/pablor21/cirbind/ir"
)

// Parser dispatches cursors to Item constructors in a fixed order. It
// holds no state of its own beyond the shared Context; every mutation
// goes through ctx so the single-threaded cooperative model holds
// without extra locking.
type Parser struct {
	ctx *ir.Context
}

// New returns a Parser bound to ctx.
func New(ctx *ir.Context) *Parser {
	return &Parser{ctx: ctx}
}

// Dispatch implements the six-step cursor classification.
// parent is the enclosing item new items should be parented to absent a
// more specific one (normally ctx.CurrentModule()).
func (p *Parser) Dispatch(cursor clangcursor.Cursor, parent ir.ItemId) Outcome {
	if o, ok := p.tryModule(cursor, parent); ok {
		return o
	}
	if o, ok := p.tryFunction(cursor, parent); ok {
		return o
	}
	if o, ok := p.tryVariable(cursor, parent); ok {
		return o
	}
	if o, ok := p.tryType(cursor, parent); ok {
		return o
	}
	if cursor.Kind() == clangcursor.KindUnexposedDecl {
		return recurse()
	}
	return p.classifyUnhandled(cursor)
}

func (p *Parser) tryModule(cursor clangcursor.Cursor, parent ir.ItemId) (Outcome, bool) {
	switch cursor.Kind() {
	case clangcursor.KindNamespace:
		if id, ok := p.ctx.BuiltinOrResolvedTy(cursor.CurType()); ok {
			return alreadyResolved(id), true
		}
		ann := ir.ParseAnnotations(cursor.RawComment())
		id := p.ctx.NextItemId()
		p.ctx.NewModuleItem(id, parent, cursor.Spelling(), ir.ModuleKindNormal, cursor.RawComment(), ann, cursor)
		return newOutcome(id, cursor), true
	default:
		return Outcome{}, false
	}
}

func (p *Parser) tryFunction(cursor clangcursor.Cursor, parent ir.ItemId) (Outcome, bool) {
	variant, ok := functionVariantOf(cursor.Kind())
	if !ok {
		return Outcome{}, false
	}

	if existing, ok := p.ctx.InFlightParse(cursor); ok {
		return alreadyResolved(existing.ID), true
	}

	ann := ir.ParseAnnotations(cursor.RawComment())
	if ann.HasUseInsteadOf() {
		p.ctx.Replace(strings.Split(ann.UseInsteadOf, "::"), parent)
	}

	sigID := p.ctx.NextItemId()
	p.ctx.BeginParsing(ir.PartialType{DeclCursor: cursor, ID: sigID})
	returnTypeID := p.ctx.NextItemId()
	rOutcome := p.FromTyOrRefWithID(returnTypeID, cursor.CurType(), cursor, parent)
	resolvedReturnID, _ := rOutcome.ResolvedID()
	sig := decodeFunctionSignature(p, cursor, parent, variant)
	sig.ReturnType = resolvedReturnID
	p.ctx.NewTypeItem(sigID, parent, &ir.Type{Kind: sig}, "", ir.Annotations{}, nil)
	p.ctx.FinishParsing()

	id := p.ctx.NextItemId()
	fn := &ir.Function{Name: cursor.Spelling(), Signature: sigID, Variant: variant}
	p.ctx.NewFunctionItem(id, parent, fn, cursor.RawComment(), ann, cursor)
	return newOutcome(id, cursor), true
}

func functionVariantOf(k clangcursor.Kind) (ir.FunctionVariant, bool) {
	switch k {
	case clangcursor.KindFunctionDecl, clangcursor.KindFunctionTemplate:
		return ir.FunctionVariantFree, true
	case clangcursor.KindCXXMethod, clangcursor.KindConversionFunction:
		return ir.FunctionVariantMethod, true
	case clangcursor.KindConstructor:
		return ir.FunctionVariantConstructor, true
	case clangcursor.KindDestructor:
		return ir.FunctionVariantDestructor, true
	default:
		return 0, false
	}
}

func decodeFunctionSignature(p *Parser, cursor clangcursor.Cursor, parent ir.ItemId, variant ir.FunctionVariant) ir.FunctionSig {
	sig := ir.FunctionSig{
		IsMethod: variant == ir.FunctionVariantMethod || variant == ir.FunctionVariantConstructor || variant == ir.FunctionVariantDestructor,
	}
	cursor.Visit(func(child, _ clangcursor.Cursor) clangcursor.ChildVisitResult {
		if child.Kind() == clangcursor.KindParmDecl {
			paramID := p.ctx.NextItemId()
			o := p.FromTyOrRefWithID(paramID, child.CurType(), child, parent)
			resolved, _ := o.ResolvedID()
			sig.Parameters = append(sig.Parameters, resolved)
		}
		return clangcursor.ChildVisitContinue
	})
	return sig
}

func (p *Parser) tryVariable(cursor clangcursor.Cursor, parent ir.ItemId) (Outcome, bool) {
	if cursor.Kind() != clangcursor.KindVarDecl {
		return Outcome{}, false
	}
	if existing, ok := p.ctx.InFlightParse(cursor); ok {
		return alreadyResolved(existing.ID), true
	}

	ann := ir.ParseAnnotations(cursor.RawComment())
	typeID := p.ctx.NextItemId()
	outcome := p.FromTyOrRefWithID(typeID, cursor.CurType(), cursor, parent)
	if outcome.Kind != OutcomeNew && outcome.Kind != OutcomeAlreadyResolved {
		return outcome, true
	}
	resolvedTypeID, _ := outcome.ResolvedID()

	id := p.ctx.NextItemId()
	v := &ir.Variable{Name: cursor.Spelling(), Type: resolvedTypeID}
	p.ctx.NewVariableItem(id, parent, v, cursor.RawComment(), ann, cursor)
	return newOutcome(id, cursor), true
}

func (p *Parser) tryType(cursor clangcursor.Cursor, parent ir.ItemId) (Outcome, bool) {
	switch cursor.Kind() {
	case clangcursor.KindStructDecl, clangcursor.KindUnionDecl, clangcursor.KindClassDecl,
		clangcursor.KindEnumDecl, clangcursor.KindTypedefDecl, clangcursor.KindClassTemplate,
		clangcursor.KindClassTemplatePartialSpecialization, clangcursor.KindTypeAliasDecl,
		clangcursor.KindTypeAliasTemplateDecl, clangcursor.KindTemplateTypeParameter:
		declCursor := cursor.Definition()
		if declCursor == nil || !declCursor.IsValid() {
			declCursor = cursor
		}
		id := p.ctx.NextItemId()
		return p.FromTyWithID(id, declCursor.CurType(), declCursor, parent), true
	default:
		return Outcome{}, false
	}
}

// knownIgnorableKinds log at debug rather than warn.
var knownIgnorableKinds = map[clangcursor.Kind]struct{}{
	clangcursor.KindMacroDefinition:    {},
	clangcursor.KindMacroExpansion:     {},
	clangcursor.KindUsingDeclaration:   {},
	clangcursor.KindUsingDirective:     {},
	clangcursor.KindStaticAssert:       {},
	clangcursor.KindInclusionDirective: {},
}

func (p *Parser) classifyUnhandled(cursor clangcursor.Cursor) Outcome {
	if _, known := knownIgnorableKinds[cursor.Kind()]; known {
		p.ctx.Logger().Debugf("ignoring known-noise cursor kind %s (%s)", cursor.Kind(), cursor.Spelling())
		return cont()
	}
	p.ctx.Logger().Warnf("unhandled cursor kind %s (%s)", cursor.Kind(), cursor.Spelling())
	p.ctx.Diagnostics().Warnf(diag.CodeUnhandledCursor, "", "unhandled cursor kind %s (%s)", cursor.Kind(), cursor.Spelling())
	return cont()
}

// FromTyWithID parses a concrete (non-forward-referencing) type into an
// already-allocated item ID.
func (p *Parser) FromTyWithID(id ir.ItemId, clangType clangcursor.Type, location clangcursor.Cursor, parent ir.ItemId) Outcome {
	if clangType.IsAssociatedType() || isUnexposedTemplateParam(clangType) {
		if matched, named := p.recognizeNamedType(location, clangType.Spelling()); matched {
			return p.materializeNamed(id, named, parent)
		}
		return newOutcome(p.materializeOpaqueUnknown(id, parent), location)
	}

	declCursor := clangType.Declaration()
	rawComment := location.RawComment()
	annSource := location
	if declCursor != nil && declCursor.IsValid() {
		if c := declCursor.RawComment(); c != "" {
			rawComment = c
			annSource = declCursor
		}
	}
	ann := ir.ParseAnnotations(annSource.RawComment())
	if ann.HasUseInsteadOf() {
		p.ctx.Replace(strings.Split(ann.UseInsteadOf, "::"), id)
	}

	if existingID, ok := p.ctx.BuiltinOrResolvedTy(clangType); ok {
		return alreadyResolved(existingID)
	}

	if inFlight, ok := p.ctx.InFlightParse(declCursor); ok {
		return alreadyResolved(inFlight.ID)
	}

	p.ctx.BeginParsing(ir.PartialType{DeclCursor: declCursor, ID: id})
	tk, outcomeKind := decodeTypeKind(p, clangType, location, parent)
	p.ctx.FinishParsing()

	switch outcomeKind {
	case OutcomeRecurse:
		p.ctx.BeginParsing(ir.PartialType{DeclCursor: declCursor, ID: id})
		var resolved bool
		location.Visit(func(child, _ clangcursor.Cursor) clangcursor.ChildVisitResult {
			if resolved {
				return clangcursor.ChildVisitBreak
			}
			if o := p.Dispatch(child, parent); o.Kind == OutcomeNew || o.Kind == OutcomeAlreadyResolved {
				if rid, ok := o.ResolvedID(); ok {
					tk = ir.ResolvedTypeRef{Target: rid}
					resolved = true
				}
			}
			return clangcursor.ChildVisitContinue
		})
		p.ctx.FinishParsing()
		if !resolved {
			tk = ir.Named{Name: clangType.Spelling()}
		}
	}

	t := &ir.Type{Kind: tk, Name: clangType.Spelling(), IsConst: clangType.IsConst()}
	p.ctx.NewTypeItem(id, parent, t, rawComment, ann, declCursor)
	p.ctx.RegisterPrimitive(clangType, id)
	return newOutcome(id, declCursor)
}

func isUnexposedTemplateParam(t clangcursor.Type) bool {
	return t.Kind() == clangcursor.KindUnexposedDecl && t.IsAssociatedType()
}

func (p *Parser) materializeNamed(id ir.ItemId, namedUnder clangcursor.Cursor, parent ir.ItemId) Outcome {
	if existing, ok := p.ctx.GetNamedType(namedUnder); ok {
		return p.wrapNamed(id, existing, parent)
	}
	name := namedUnder.Spelling()
	t := &ir.Type{Kind: ir.Named{Name: name}, Name: name}
	root := p.ctx.RootModule()
	p.ctx.NewTypeItem(id, root, t, "", ir.Annotations{}, namedUnder)
	p.ctx.AddNamedType(id, namedUnder)
	return newOutcome(id, namedUnder)
}

func (p *Parser) wrapNamed(withID, canonical, parent ir.ItemId) Outcome {
	p.ctx.BuildTyWrapper(withID, canonical, parent)
	return newOutcome(withID, nil)
}

func (p *Parser) materializeOpaqueUnknown(id, parent ir.ItemId) ir.ItemId {
	t := &ir.Type{Kind: ir.Opaque{Layout: ir.Layout{Size: 0, Align: 1}}}
	p.ctx.NewTypeItem(id, parent, t, "", ir.Annotations{}, nil)
	return id
}

// FromTyOrRefWithID implements the forward-reference path: while the typeref-collection phase is open,
// always produce a placeholder; once closed, fully parse, falling back
// to an opaque type on failure.
func (p *Parser) FromTyOrRefWithID(id ir.ItemId, clangType clangcursor.Type, location clangcursor.Cursor, parent ir.ItemId) Outcome {
	if !p.ctx.CollectedTyperefs() {
		t := &ir.Type{Kind: ir.UnresolvedTypeRef{Cursor: location, Type: clangType, Parent: parent}}
		p.ctx.NewTypeItem(id, parent, t, "", ir.Annotations{}, nil)
		return newOutcome(id, nil)
	}
	o := p.FromTyWithID(id, clangType, location, parent)
	if rid, ok := o.ResolvedID(); ok {
		return newOutcome(rid, o.DeclCursor)
	}
	return newOutcome(p.newOpaqueType(id, parent), nil)
}

// newOpaqueType is the last-resort recovery path once the typeref
// collection phase has closed.
func (p *Parser) newOpaqueType(id, parent ir.ItemId) ir.ItemId {
	t := &ir.Type{Kind: ir.Opaque{Layout: ir.Layout{Size: 0, Align: 1}}}
	p.ctx.NewTypeItem(id, parent, t, "", ir.Annotations{}, nil)
	return id
}

// ResolvePlaceholders runs the typeref-resolution pass: every UnresolvedTypeRef item still in the table is
// replaced in place with a ResolvedTypeRef to resolveFn's answer, falling
// back to Opaque when resolveFn cannot find a target.
func ResolvePlaceholders(ctx *ir.Context, allIDs []ir.ItemId, resolveFn func(clangcursor.Cursor, clangcursor.Type) (ir.ItemId, bool)) {
	for _, id := range allIDs {
		it, ok := ctx.ResolveItemFallible(id)
		if !ok || !it.IsType() {
			continue
		}
		t := it.AsType()
		ref, ok := t.Kind.(ir.UnresolvedTypeRef)
		if !ok {
			continue
		}
		if target, found := resolveFn(ref.Cursor, ref.Type); found {
			t.Kind = ir.ResolvedTypeRef{Target: target}
		} else {
			t.Kind = ir.Opaque{Layout: ir.Layout{Size: 0, Align: 1}}
		}
	}
	ctx.CloseTyperefCollection()
}

// decodeTypeKind maps a concrete clang type to a TypeKind. Returns
// OutcomeRecurse when neither the type's kind nor location's kind is one
// it decodes (e.g. a template type parameter cursor), so the caller
// visits location's children instead, matching the Parser's Recurse path
// for type declarations.
func decodeTypeKind(p *Parser, t clangcursor.Type, location clangcursor.Cursor, parent ir.ItemId) (ir.TypeKind, OutcomeKind) {
	if tk, ok := decodePrimitiveOrIndirect(p, t, location, parent); ok {
		return tk, OutcomeNew
	}

	switch location.Kind() {
	case clangcursor.KindStructDecl, clangcursor.KindClassDecl:
		return decodeComp(p, location, parent, ir.CompStruct), OutcomeNew
	case clangcursor.KindUnionDecl:
		return decodeComp(p, location, parent, ir.CompUnion), OutcomeNew
	case clangcursor.KindEnumDecl:
		return decodeEnum(location), OutcomeNew
	case clangcursor.KindTypedefDecl, clangcursor.KindTypeAliasDecl:
		innerID := p.ctx.NextItemId()
		o := p.FromTyOrRefWithID(innerID, t, location, parent)
		resolved, _ := o.ResolvedID()
		return ir.TypedefAlias{Inner: resolved}, OutcomeNew
	case clangcursor.KindClassTemplate, clangcursor.KindClassTemplatePartialSpecialization, clangcursor.KindTypeAliasTemplateDecl:
		return decodeTemplateDecl(p, location, parent), OutcomeNew
	default:
		return nil, OutcomeRecurse
	}
}

// decodePrimitiveOrIndirect handles the clang type kinds that carry no
// declaring cursor and so cannot be classified by decodeTypeKind's
// decl-shaped switch: builtins, pointers, references, and arrays,
// producing the corresponding Void/Int/Float/Bool/Pointer/Reference/Array
// TypeKind variant.
func decodePrimitiveOrIndirect(p *Parser, t clangcursor.Type, location clangcursor.Cursor, parent ir.ItemId) (ir.TypeKind, bool) {
	switch t.Kind() {
	case clangcursor.KindVoidType:
		return ir.Void{}, true
	case clangcursor.KindBoolType:
		return ir.Bool{}, true
	case clangcursor.KindIntType:
		return ir.Int{Width: 32, Signed: true}, true
	case clangcursor.KindUIntType:
		return ir.Int{Width: 32, Signed: false}, true
	case clangcursor.KindFloatType:
		return ir.Float{Width: 32}, true
	case clangcursor.KindPointerType:
		innerID := p.ctx.NextItemId()
		o := p.FromTyOrRefWithID(innerID, t.Pointee(), location, parent)
		resolved, _ := o.ResolvedID()
		return ir.Pointer{Inner: resolved}, true
	case clangcursor.KindLValueRefType, clangcursor.KindRValueRefType:
		innerID := p.ctx.NextItemId()
		o := p.FromTyOrRefWithID(innerID, t.Pointee(), location, parent)
		resolved, _ := o.ResolvedID()
		return ir.Reference{Inner: resolved, RValue: t.Kind() == clangcursor.KindRValueRefType}, true
	case clangcursor.KindConstantArrayType, clangcursor.KindIncompleteArrayType:
		elemID := p.ctx.NextItemId()
		o := p.FromTyOrRefWithID(elemID, t.Element(), location, parent)
		resolved, _ := o.ResolvedID()
		length := -1
		if t.Kind() == clangcursor.KindConstantArrayType {
			length = int(t.ArraySize())
		}
		return ir.Array{Element: resolved, Length: length}, true
	default:
		return nil, false
	}
}

func decodeComp(p *Parser, location clangcursor.Cursor, parent ir.ItemId, kind ir.CompKind) ir.TypeKind {
	comp := ir.Comp{Kind: kind}
	location.Visit(func(child, _ clangcursor.Cursor) clangcursor.ChildVisitResult {
		if child.Kind() == clangcursor.KindFieldDecl {
			fieldTypeID := p.ctx.NextItemId()
			o := p.FromTyOrRefWithID(fieldTypeID, child.CurType(), child, parent)
			resolved, _ := o.ResolvedID()
			comp.Fields = append(comp.Fields, ir.Field{Name: child.Spelling(), Type: resolved})
		}
		return clangcursor.ChildVisitContinue
	})
	return comp
}

func decodeEnum(location clangcursor.Cursor) ir.TypeKind {
	e := ir.Enum{}
	location.Visit(func(child, _ clangcursor.Cursor) clangcursor.ChildVisitResult {
		// Enumerator values are not modeled by the clangcursor interface
		// at this level of fidelity; position is preserved, values default
		// to their ordinal.
		e.Variants = append(e.Variants, ir.EnumVariant{Name: child.Spelling(), Value: int64(len(e.Variants))})
		return clangcursor.ChildVisitContinue
	})
	return e
}

func decodeTemplateDecl(p *Parser, location clangcursor.Cursor, parent ir.ItemId) ir.TypeKind {
	td := ir.TemplateDecl{}
	location.Visit(func(child, _ clangcursor.Cursor) clangcursor.ChildVisitResult {
		if child.Kind() == clangcursor.KindTemplateTypeParameter {
			paramID := p.ctx.NextItemId()
			o := p.materializeNamed(paramID, child, parent)
			if rid, ok := o.ResolvedID(); ok {
				td.Parameters = append(td.Parameters, rid)
			}
		}
		return clangcursor.ChildVisitContinue
	})
	return td
}

// anonymousTemplateParamPattern matches libclang's synthetic spelling for
// unnamed template parameters.
var anonymousTemplateParamPattern = regexp.MustCompile(`^type-parameter-\d+-\d+$`)

// recognizeNamedType implements the three structural patterns for
// identifying a template type parameter, returning the defining cursor
// to register/look up in the named-type map.
func (p *Parser) recognizeNamedType(cursor clangcursor.Cursor, querySpelling string) (bool, clangcursor.Cursor) {
	if cursor == nil || !cursor.IsValid() {
		return false, nil
	}

	// Pattern 1: the cursor is itself a template-type-parameter decl
	// whose spelling matches.
	if cursor.Kind() == clangcursor.KindTemplateTypeParameter && spellingMatches(cursor.Spelling(), querySpelling) {
		return true, cursor
	}

	// Pattern 2: the cursor is a type-reference whose referent matches (1).
	if cursor.Kind() == clangcursor.KindTypeRef {
		ref := cursor.Referenced()
		if ref != nil && ref.IsValid() && ref.Kind() == clangcursor.KindTemplateTypeParameter && spellingMatches(ref.Spelling(), querySpelling) {
			return true, ref
		}
	}

	// Pattern 3: the cursor has a child that is a type-reference matching
	// (2), with the child's spelling equal to the parent's type spelling.
	var matched bool
	var defining clangcursor.Cursor
	cursor.Visit(func(child, _ clangcursor.Cursor) clangcursor.ChildVisitResult {
		if matched {
			return clangcursor.ChildVisitBreak
		}
		if child.Kind() != clangcursor.KindTypeRef {
			return clangcursor.ChildVisitContinue
		}
		if child.Spelling() != cursor.Spelling() {
			return clangcursor.ChildVisitContinue
		}
		ref := child.Referenced()
		if ref != nil && ref.IsValid() && ref.Kind() == clangcursor.KindTemplateTypeParameter && spellingMatches(ref.Spelling(), querySpelling) {
			matched = true
			defining = ref
			return clangcursor.ChildVisitBreak
		}
		return clangcursor.ChildVisitContinue
	})
	return matched, defining
}

// spellingMatches allows an anonymous `type-parameter-N-M` spelling to
// match an empty referent spelling.
func spellingMatches(candidate, query string) bool {
	if candidate == query {
		return true
	}
	return query == "" && anonymousTemplateParamPattern.MatchString(candidate)
}
