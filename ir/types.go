package ir

import "github.com/pablor21/cirbind/clangcursor"

// Layout is a size/alignment pair, the minimum an ABI-preserving emitter
// needs for any type.
type Layout struct {
	Size  int
	Align int
}

// TypeKind is the sealed set of shapes a Type item's payload may take
//. The unexported method seals
// the interface to this package's variants.
type TypeKind interface {
	isTypeKind()
}

// Void is C's void.
type Void struct{}

// Int is a fixed-width integer.
type Int struct {
	Width  int
	Signed bool
}

// Float is a fixed-width floating point type.
type Float struct {
	Width int
}

// Bool is a one-byte boolean.
type Bool struct{}

// Pointer refers to another item by ID, the inner pointee type.
type Pointer struct {
	Inner ItemId
}

// Reference is a C++ lvalue/rvalue reference to another item.
type Reference struct {
	Inner   ItemId
	RValue  bool
}

// Array is a fixed- or unknown-length array. Length < 0 means unknown
// (incomplete array type, e.g. `int[]` as a parameter).
type Array struct {
	Element ItemId
	Length  int
}

// CompKind distinguishes struct/class from union within Comp.
type CompKind int

const (
	CompStruct CompKind = iota
	CompUnion
)

// Field is one member of a Comp type.
type Field struct {
	Name       string
	Type       ItemId
	BitOffset  int
	BitWidth   int // 0 means "not a bitfield"
}

// Comp is a record (struct/class) or union.
type Comp struct {
	Kind                CompKind
	Fields              []Field
	Bases               []ItemId // base classes, in declaration order
	IsForwardDeclaration bool
	IsAbstract          bool
}

// EnumVariant is one enumerator.
type EnumVariant struct {
	Name  string
	Value int64
}

// Enum is an enumeration with its underlying integer type.
type Enum struct {
	Variants       []EnumVariant
	UnderlyingType ItemId
}

// FunctionSig is a function signature, referenced by ID from Function
// items.
type FunctionSig struct {
	ReturnType  ItemId
	Parameters  []ItemId
	IsVariadic  bool
	IsMethod    bool
	IsConst     bool // method is const-qualified
}

// TypedefAlias is a `typedef`/`using` alias to another type.
type TypedefAlias struct {
	Inner ItemId
}

// TemplateDecl is a class or function template declaration, carrying its
// formal parameters (each a Named item) and the templated definition.
type TemplateDecl struct {
	Parameters []ItemId
	Definition ItemId
}

// TemplateInstantiation binds a TemplateDecl's parameters to concrete
// type arguments.
type TemplateInstantiation struct {
	Definition ItemId
	Arguments  []ItemId
}

// ResolvedTypeRef is an indirect alias that has been resolved to its
// target item. name_target must unwrap these; base_name must never see
// one directly.
type ResolvedTypeRef struct {
	Target ItemId
}

// UnresolvedTypeRef is a placeholder inserted during the typeref
// collection phase. It
// carries the unresolved cursor/type pair needed to complete the parse
// once the collection phase closes.
type UnresolvedTypeRef struct {
	Cursor clangcursor.Cursor
	Type   clangcursor.Type
	Parent ItemId
}

// Named is a template type parameter.
type Named struct {
	Name string
}

// Opaque models an ABI-only blob of known size and alignment, the
// fallback used when the core cannot or should not decompose a type
// further.
type Opaque struct {
	Layout Layout
}

func (Void) isTypeKind()                  {}
func (Int) isTypeKind()                   {}
func (Float) isTypeKind()                 {}
func (Bool) isTypeKind()                  {}
func (Pointer) isTypeKind()               {}
func (Reference) isTypeKind()             {}
func (Array) isTypeKind()                 {}
func (Comp) isTypeKind()                  {}
func (Enum) isTypeKind()                  {}
func (FunctionSig) isTypeKind()           {}
func (TypedefAlias) isTypeKind()          {}
func (TemplateDecl) isTypeKind()          {}
func (TemplateInstantiation) isTypeKind() {}
func (ResolvedTypeRef) isTypeKind()       {}
func (UnresolvedTypeRef) isTypeKind()     {}
func (Named) isTypeKind()                 {}
func (Opaque) isTypeKind()                {}

// Type is the payload of a Type-kind Item: a TypeKind plus the fields
// common to every variant.
type Type struct {
	Kind    TypeKind
	Name    string // empty when anonymous
	Layout  *Layout
	IsConst bool
}

// IsUnresolvedTypeRef reports whether this Type is still a placeholder.
func (t *Type) IsUnresolvedTypeRef() bool {
	_, ok := t.Kind.(UnresolvedTypeRef)
	return ok
}

// IsOpaque reports whether this Type is the Opaque fallback variant.
func (t *Type) IsOpaque() bool {
	_, ok := t.Kind.(Opaque)
	return ok
}

// IsNamed reports whether this Type is a template type parameter.
func (t *Type) IsNamed() bool {
	_, ok := t.Kind.(Named)
	return ok
}

// IsResolvedTypeRef reports whether this Type is an indirect alias.
func (t *Type) IsResolvedTypeRef() bool {
	_, ok := t.Kind.(ResolvedTypeRef)
	return ok
}

// IsComp reports whether this Type is a record or union.
func (t *Type) IsComp() bool {
	_, ok := t.Kind.(Comp)
	return ok
}
