// Package clangcursor declares the libclang-shaped surface the core
// depends on: cursors and types with just enough methods to
// drive the parser. It is a pure interface package, grounded on the real
// shape of github.com/go-clang/clang-v14/clang as used by
// daedaleanai-reqtraq's code/parsers/clang.go — Cursor.Kind/Spelling/
// Visit/SemanticParent, ChildVisitResult, Type.Kind/Spelling — without
// importing go-clang itself or any cgo binding, since wiring a real
// libclang is explicitly out of scope.
//
// A production binary would implement Cursor/Type against go-clang; tests
// and the core implement or consume these interfaces directly.
package clangcursor

import "strconv"

// Kind identifies what a Cursor points at. Only the kinds the core's
// dispatch and named-type recognizer care about are named; anything else
// round-trips through Kind's numeric value for comparison and logging.
type Kind int

const (
	KindUnexposedDecl Kind = iota
	KindStructDecl
	KindUnionDecl
	KindClassDecl
	KindEnumDecl
	KindFieldDecl
	KindFunctionDecl
	KindVarDecl
	KindParmDecl
	KindTypedefDecl
	KindCXXMethod
	KindNamespace
	KindConstructor
	KindDestructor
	KindConversionFunction
	KindTemplateTypeParameter
	KindNonTypeTemplateParameter
	KindTemplateTemplateParameter
	KindFunctionTemplate
	KindClassTemplate
	KindClassTemplatePartialSpecialization
	KindNamespaceAlias
	KindUsingDirective
	KindUsingDeclaration
	KindTypeAliasDecl
	KindTypeAliasTemplateDecl
	KindCXXBaseSpecifier
	KindTypeRef
	KindTemplateRef
	KindNamespaceRef
	KindMacroDefinition
	KindMacroExpansion
	KindInclusionDirective
	KindStaticAssert
	KindUnknown

	// The following identify a Type's own shape rather than a Cursor's.
	// A real CXTypeKind is a distinct enum from CXCursorKind; this package
	// shares one Kind type across both interfaces for simplicity, since a
	// Cursor and a Type are never compared against each other's kinds.
	KindVoidType
	KindBoolType
	KindIntType
	KindUIntType
	KindFloatType
	KindPointerType
	KindLValueRefType
	KindRValueRefType
	KindConstantArrayType
	KindIncompleteArrayType
)

// String names a Kind for logging; unnamed kinds fall back to their
// numeric value, as "Kind(N)", which is how the core logs truly
// unrecognized cursors.
func (k Kind) String() string {
	switch k {
	case KindUnexposedDecl:
		return "UnexposedDecl"
	case KindStructDecl:
		return "StructDecl"
	case KindUnionDecl:
		return "UnionDecl"
	case KindClassDecl:
		return "ClassDecl"
	case KindEnumDecl:
		return "EnumDecl"
	case KindFieldDecl:
		return "FieldDecl"
	case KindFunctionDecl:
		return "FunctionDecl"
	case KindVarDecl:
		return "VarDecl"
	case KindParmDecl:
		return "ParmDecl"
	case KindTypedefDecl:
		return "TypedefDecl"
	case KindCXXMethod:
		return "CXXMethod"
	case KindNamespace:
		return "Namespace"
	case KindConstructor:
		return "Constructor"
	case KindDestructor:
		return "Destructor"
	case KindConversionFunction:
		return "ConversionFunction"
	case KindTemplateTypeParameter:
		return "TemplateTypeParameter"
	case KindNonTypeTemplateParameter:
		return "NonTypeTemplateParameter"
	case KindTemplateTemplateParameter:
		return "TemplateTemplateParameter"
	case KindFunctionTemplate:
		return "FunctionTemplate"
	case KindClassTemplate:
		return "ClassTemplate"
	case KindClassTemplatePartialSpecialization:
		return "ClassTemplatePartialSpecialization"
	case KindNamespaceAlias:
		return "NamespaceAlias"
	case KindUsingDirective:
		return "UsingDirective"
	case KindUsingDeclaration:
		return "UsingDeclaration"
	case KindTypeAliasDecl:
		return "TypeAliasDecl"
	case KindTypeAliasTemplateDecl:
		return "TypeAliasTemplateDecl"
	case KindCXXBaseSpecifier:
		return "CXXBaseSpecifier"
	case KindTypeRef:
		return "TypeRef"
	case KindTemplateRef:
		return "TemplateRef"
	case KindNamespaceRef:
		return "NamespaceRef"
	case KindMacroDefinition:
		return "MacroDefinition"
	case KindMacroExpansion:
		return "MacroExpansion"
	case KindInclusionDirective:
		return "InclusionDirective"
	case KindStaticAssert:
		return "StaticAssert"
	case KindVoidType:
		return "Void"
	case KindBoolType:
		return "Bool"
	case KindIntType:
		return "Int"
	case KindUIntType:
		return "UInt"
	case KindFloatType:
		return "Float"
	case KindPointerType:
		return "Pointer"
	case KindLValueRefType:
		return "LValueReference"
	case KindRValueRefType:
		return "RValueReference"
	case KindConstantArrayType:
		return "ConstantArray"
	case KindIncompleteArrayType:
		return "IncompleteArray"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ChildVisitResult is the outer AST-walk control flow a Visit callback
// returns, matching clang.ChildVisit_Continue/_Recurse/_Break one-for-one.
type ChildVisitResult int

const (
	ChildVisitBreak ChildVisitResult = iota
	ChildVisitContinue
	ChildVisitRecurse
)

// VisitFunc is called for each direct child of the cursor passed to
// Cursor.Visit.
type VisitFunc func(cursor, parent Cursor) ChildVisitResult

// Type is the libclang type surface the core consumes: enough to decide
// constness, spelling, associated-type-ness, and the declaring cursor.
type Type interface {
	Kind() Kind
	Spelling() string
	IsConst() bool
	IsAssociatedType() bool
	Declaration() Cursor

	// Pointee returns the pointed-to or referred-to type for
	// KindPointerType/KindLValueRefType/KindRValueRefType; nil otherwise.
	Pointee() Type

	// Element returns the element type for KindConstantArrayType and
	// KindIncompleteArrayType; nil otherwise.
	Element() Type

	// ArraySize returns the element count for KindConstantArrayType, or a
	// negative number for an incomplete array.
	ArraySize() int64
}

// Cursor is the libclang cursor surface the core consumes.
// IsValid distinguishes a null cursor (the clang.Cursor.IsNull()
// convention, inverted to match Go's "ok" idiom).
type Cursor interface {
	Kind() Kind
	Spelling() string
	RawComment() string
	Definition() Cursor
	Referenced() Cursor
	Canonical() Cursor
	SemanticParent() Cursor
	CurType() Type
	IsValid() bool

	// Visit walks direct children, matching clang.Cursor.Visit's
	// signature and return-driven control flow.
	Visit(fn VisitFunc)

	// USR returns a stable cross-translation-unit identifier for the
	// entity, used as the map key for declaration-cursor deduplication
	//.
	USR() string
}
