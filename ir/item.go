package ir

// ItemKind discriminates which payload an Item carries.
type ItemKind int

const (
	ItemKindModule ItemKind = iota
	ItemKindType
	ItemKindFunction
	ItemKindVariable
)

func (k ItemKind) String() string {
	switch k {
	case ItemKindModule:
		return "Module"
	case ItemKindType:
		return "Type"
	case ItemKindFunction:
		return "Function"
	case ItemKindVariable:
		return "Variable"
	default:
		return "Unknown"
	}
}

// ModuleKind distinguishes the different flavors of lexical scope the
// original C/C++ AST can produce: a named or anonymous C++ namespace
// (inline or not), the synthetic root, or an extern "C" block.
type ModuleKind int

const (
	ModuleKindNormal ModuleKind = iota
	ModuleKindInline
	ModuleKindImplicitNamespace // extern "C" blocks and similar
	ModuleKindRoot
)

// Module is the payload of a Module-kind Item.
type Module struct {
	Name string // empty for anonymous namespaces; "root" for the root
	Kind ModuleKind
}

// FunctionVariant distinguishes free functions from methods and
// constructors.
type FunctionVariant int

const (
	FunctionVariantFree FunctionVariant = iota
	FunctionVariantMethod
	FunctionVariantConstructor
	FunctionVariantDestructor
)

// Function is the payload of a Function-kind Item. Signature references
// a Type item carrying a FunctionSig.
type Function struct {
	Name      string
	Signature ItemId
	Variant   FunctionVariant
	Mangled   string // empty when unknown
}

// Variable is the payload of a Variable-kind Item.
type Variable struct {
	Name string
	Type ItemId
	// Mangled is the linker symbol name, when it differs from Name.
	Mangled string
}

// Item is a node in the IR graph.
type Item struct {
	id       ItemId
	parentID ItemId
	kind     ItemKind

	module   *Module
	typ      *Type
	function *Function
	variable *Variable

	comment     string
	annotations Annotations

	// DebugLocation is a human-readable source location used only for
	// diagnostics; it carries no semantic weight.
	DebugLocation string

	localID            writeOnceCache[int]
	nextChildLocalID   int
	canonicalNameCache writeOnceCache[string]

	detectDeriveDebugCycle bool
	detectDeriveCopyCycle  bool
}

// newItem builds an Item in the given kind with no payload; callers set
// exactly one of module/typ/function/variable immediately after.
func newItem(id, parentID ItemId, kind ItemKind) *Item {
	return &Item{id: id, parentID: parentID, kind: kind}
}

func (it *Item) ID() ItemId       { return it.id }
func (it *Item) ParentID() ItemId { return it.parentID }
func (it *Item) Kind() ItemKind   { return it.kind }

func (it *Item) Comment() string          { return it.comment }
func (it *Item) SetComment(c string)      { it.comment = c }
func (it *Item) Annotations() Annotations { return it.annotations }
func (it *Item) SetAnnotations(a Annotations) {
	it.annotations = a
}

// Module returns the Module payload, or nil if this item is not a Module.
func (it *Item) Module() *Module { return it.module }

// AsType returns the Type payload, or nil if this item is not a Type.
func (it *Item) AsType() *Type { return it.typ }

// AsFunction returns the Function payload, or nil if this item is not a
// Function.
func (it *Item) AsFunction() *Function { return it.function }

// AsVariable returns the Variable payload, or nil if this item is not a
// Variable.
func (it *Item) AsVariable() *Variable { return it.variable }

// IsHidden reports whether the `hide` annotation is present. Context's
// hidden_by_name policy is a separate, path-based predicate;
// this only covers the per-item flag.
func (it *Item) IsHidden() bool {
	return it.annotations.Hide
}

// IsOpaqueAnnotated reports whether the `opaque` annotation is present.
// Context's opaque_by_name policy, and the Opaque TypeKind, are separate
// mechanisms; this only covers the per-item flag.
func (it *Item) IsOpaqueAnnotated() bool {
	return it.annotations.Opaque
}

// IsModule, IsType, IsFunction, IsVariable are kind predicates.
func (it *Item) IsModule() bool   { return it.kind == ItemKindModule }
func (it *Item) IsType() bool     { return it.kind == ItemKindType }
func (it *Item) IsFunction() bool { return it.kind == ItemKindFunction }
func (it *Item) IsVariable() bool { return it.kind == ItemKindVariable }

// LocalID returns this item's position among its parent's children,
// assigning it lazily on first call.
func (it *Item) LocalID(ctx *Context) int {
	return it.localID.GetOrCompute(func() int {
		parent, ok := ctx.resolveItemFallibleLocked(it.parentID)
		if !ok || parent == it {
			return 0
		}
		id := parent.nextChildLocalID
		parent.nextChildLocalID++
		return id
	})
}

// DeriveFlagKind selects which of an item's two re-entrance guards
// a derive query uses. Default and Copy-in-array derivability share the
// Copy flag, since only two flags exist total.
type DeriveFlagKind int

const (
	DeriveFlagDebug DeriveFlagKind = iota
	DeriveFlagCopy
)

// DeriveCycleFlag returns a pointer to the requested re-entrance flag so
// the derive package can flip it on entry and reset it on exit without
// this package exposing its fields directly.
func (it *Item) DeriveCycleFlag(kind DeriveFlagKind) *bool {
	if kind == DeriveFlagDebug {
		return &it.detectDeriveDebugCycle
	}
	return &it.detectDeriveCopyCycle
}

// CanonicalNameCache returns the cached canonical name, computing and
// storing it via fn on first access. The naming package is the only intended caller.
func (it *Item) CanonicalNameCache(fn func() string) string {
	return it.canonicalNameCache.GetOrCompute(fn)
}

// replaceTypeKind overwrites this Type item's TypeKind in place, keeping
// the same ID, for turning an UnresolvedTypeRef into its resolved target.
func (it *Item) replaceTypeKind(tk TypeKind) {
	if it.typ == nil {
		panic("ir: replaceTypeKind called on a non-Type item")
	}
	it.typ.Kind = tk
}
