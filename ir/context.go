package ir

import (
	"strings"

	"github.com/pablor21/cirbind/clangcursor"
	"github.com/pablor21/cirbind/config"
	"github.com/pablor21/cirbind/diag"
	"github.com/pablor21/cirbind/logger"
)

// PartialType is a stack entry recording a declaration currently being
// parsed, used to detect and break parse-time recursion.
type PartialType struct {
	DeclCursor clangcursor.Cursor
	ID         ItemId
}

// replacement is one registered `replace(path, id)` override.
type replacement struct {
	path []string
	id   ItemId
}

// Context is the single mutable aggregate the whole core shares. It owns
// the item table, ID minting, parse-time state, and the codegen-phase
// flag. The design mirrors pablor21-goscanner's ScanningContext in
// spirit (a single struct the driver threads through the whole
// pipeline) but drops ScanningContext's goroutine-oriented package stack
// and context.Context embedding, since this core is single-threaded and
// non-cancellable.
type Context struct {
	alloc *idAllocator
	items map[ItemId]*Item

	rootModuleID ItemId
	moduleStack  []ItemId

	parsingStack []PartialType

	typerefCollectionOpen bool
	codegenPhase          bool

	// declToItem deduplicates items by their declaration cursor's USR,
	// backing builtin_or_resolved_ty's "previously parsed declaration"
	// case.
	declToItem map[string]ItemId

	// primitiveCache deduplicates built-in types (void, int, float, ...)
	// by a cheap structural key, backing builtin_or_resolved_ty's
	// "primitive" case.
	primitiveCache map[string]ItemId

	namedTypeRegistry map[string]ItemId // keyed by defining cursor's USR

	replacements []replacement

	opts *config.Options
	log  logger.Logger
	diag *diag.Collector

	// DebugCycleChecks enables the ancestor/name-target cycle guards
	//. Off by default; a caller
	// building a debug binary turns it on.
	DebugCycleChecks bool
}

// NewContext builds a Context with a freshly minted root module and the
// given options/logger/diagnostics collector. A nil logger.Logger or
// diag.Collector defaults to a no-op/empty instance so callers that don't
// care about observability don't have to wire anything.
func NewContext(opts *config.Options, log logger.Logger, collector *diag.Collector) *Context {
	if opts == nil {
		opts = config.Default()
	}
	if log == nil {
		log = logger.Noop()
	}
	if collector == nil {
		collector = diag.NewCollector()
	}

	ctx := &Context{
		alloc:                 newIDAllocator(),
		items:                 make(map[ItemId]*Item),
		declToItem:            make(map[string]ItemId),
		primitiveCache:        make(map[string]ItemId),
		namedTypeRegistry:     make(map[string]ItemId),
		typerefCollectionOpen: true,
		opts:                  opts,
		log:                   log,
		diag:                  collector,
	}

	root := ctx.alloc.alloc()
	rootItem := newItem(root, root, ItemKindModule)
	rootItem.module = &Module{Name: "root", Kind: ModuleKindRoot}
	ctx.items[root] = rootItem
	ctx.rootModuleID = root
	ctx.moduleStack = []ItemId{root}

	return ctx
}

// NextItemId mints a fresh, strictly monotonic ID.
func (ctx *Context) NextItemId() ItemId {
	return ctx.alloc.alloc()
}

// NewModuleItem allocates and inserts a Module item.
func (ctx *Context) NewModuleItem(id, parentID ItemId, name string, kind ModuleKind, comment string, ann Annotations, declCursor clangcursor.Cursor) ItemId {
	it := newItem(id, parentID, ItemKindModule)
	it.module = &Module{Name: name, Kind: kind}
	it.comment = comment
	it.annotations = ann
	ctx.AddItem(it, declCursor)
	return id
}

// NewTypeItem allocates and inserts a Type item.
func (ctx *Context) NewTypeItem(id, parentID ItemId, t *Type, comment string, ann Annotations, declCursor clangcursor.Cursor) ItemId {
	it := newItem(id, parentID, ItemKindType)
	it.typ = t
	it.comment = comment
	it.annotations = ann
	ctx.AddItem(it, declCursor)
	return id
}

// NewFunctionItem allocates and inserts a Function item.
func (ctx *Context) NewFunctionItem(id, parentID ItemId, fn *Function, comment string, ann Annotations, declCursor clangcursor.Cursor) ItemId {
	it := newItem(id, parentID, ItemKindFunction)
	it.function = fn
	it.comment = comment
	it.annotations = ann
	ctx.AddItem(it, declCursor)
	return id
}

// NewVariableItem allocates and inserts a Variable item.
func (ctx *Context) NewVariableItem(id, parentID ItemId, v *Variable, comment string, ann Annotations, declCursor clangcursor.Cursor) ItemId {
	it := newItem(id, parentID, ItemKindVariable)
	it.variable = v
	it.comment = comment
	it.annotations = ann
	ctx.AddItem(it, declCursor)
	return id
}

// AddItem inserts an already-constructed item. If declCursor is non-nil
// and valid, its USR is recorded for deduplication in
// BuiltinOrResolvedTy.
func (ctx *Context) AddItem(item *Item, declCursor clangcursor.Cursor) {
	if _, exists := ctx.items[item.id]; exists {
		diag.Fatalf("item %d inserted twice", item.id)
	}
	ctx.items[item.id] = item
	if declCursor != nil && declCursor.IsValid() {
		if usr := declCursor.USR(); usr != "" {
			if _, dup := ctx.declToItem[usr]; dup {
				ctx.diag.Warnf(diag.CodeDuplicateItem, "", "declaration %s inserted under a second item id", usr)
			}
			ctx.declToItem[usr] = item.id
		}
	}
}

// ResolveItem is the infallible lookup: an unknown ID is a
// programmer error, not an input error.
func (ctx *Context) ResolveItem(id ItemId) *Item {
	it, ok := ctx.items[id]
	if !ok {
		diag.Fatalf("resolve_item: unknown item id %d", id)
	}
	return it
}

// ResolveItemFallible returns (item, true) or (nil, false) for an unknown
// ID, used by walks that tolerate dangling parents.
func (ctx *Context) ResolveItemFallible(id ItemId) (*Item, bool) {
	return ctx.resolveItemFallibleLocked(id)
}

func (ctx *Context) resolveItemFallibleLocked(id ItemId) (*Item, bool) {
	it, ok := ctx.items[id]
	return it, ok
}

// AllItemIDs returns every item ID currently in the table, in no
// particular order. Used by consumers (traversal's module-children scan,
// tests) that need to enumerate the whole graph; the core itself never
// relies on table iteration order.
func (ctx *Context) AllItemIDs() []ItemId {
	out := make([]ItemId, 0, len(ctx.items))
	for id := range ctx.items {
		out = append(out, id)
	}
	return out
}

// RootModule returns the synthetic root's ID.
func (ctx *Context) RootModule() ItemId { return ctx.rootModuleID }

// CurrentModule returns the top of the module stack, the default parent
// for items without an explicit one.
func (ctx *Context) CurrentModule() ItemId {
	return ctx.moduleStack[len(ctx.moduleStack)-1]
}

// PushModule enters a module scope, making it the new CurrentModule until
// PopModule is called.
func (ctx *Context) PushModule(id ItemId) {
	ctx.moduleStack = append(ctx.moduleStack, id)
}

// PopModule leaves the current module scope.
func (ctx *Context) PopModule() {
	if len(ctx.moduleStack) <= 1 {
		diag.Fatalf("pop_module: cannot pop the root module scope")
	}
	ctx.moduleStack = ctx.moduleStack[:len(ctx.moduleStack)-1]
}

// BeginParsing pushes a PartialType onto the currently-parsing stack
//.
func (ctx *Context) BeginParsing(pt PartialType) {
	ctx.parsingStack = append(ctx.parsingStack, pt)
}

// FinishParsing pops and returns the most recently pushed PartialType.
func (ctx *Context) FinishParsing() PartialType {
	if len(ctx.parsingStack) == 0 {
		diag.Fatalf("finish_parsing: stack is empty")
	}
	pt := ctx.parsingStack[len(ctx.parsingStack)-1]
	ctx.parsingStack = ctx.parsingStack[:len(ctx.parsingStack)-1]
	return pt
}

// CurrentlyParsedTypes returns the live currently-parsing stack, bottom
// first.
func (ctx *Context) CurrentlyParsedTypes() []PartialType {
	return ctx.parsingStack
}

// InFlightParse returns the PartialType for declCursor if it is already
// on the currently-parsing stack.
func (ctx *Context) InFlightParse(declCursor clangcursor.Cursor) (PartialType, bool) {
	if declCursor == nil || !declCursor.IsValid() {
		return PartialType{}, false
	}
	usr := declCursor.USR()
	for _, pt := range ctx.parsingStack {
		if pt.DeclCursor != nil && pt.DeclCursor.IsValid() && pt.DeclCursor.USR() == usr {
			return pt, true
		}
	}
	return PartialType{}, false
}

// BuiltinOrResolvedTy returns an existing ID if clangType has already
// been modeled: either because its declaration was already
// parsed, or because it is a builtin primitive already cached under a
// structural key.
func (ctx *Context) BuiltinOrResolvedTy(clangType clangcursor.Type) (ItemId, bool) {
	if decl := clangType.Declaration(); decl != nil && decl.IsValid() {
		if usr := decl.USR(); usr != "" {
			if id, ok := ctx.declToItem[usr]; ok {
				return id, true
			}
		}
	}
	key := primitiveKey(clangType)
	if key == "" {
		return InvalidItemId, false
	}
	id, ok := ctx.primitiveCache[key]
	return id, ok
}

// primitiveKey returns a cache key for built-in, declaration-less types
// (void, int, float, bool, pointers to already-known types), or "" for
// types that must go through full parsing.
func primitiveKey(t clangcursor.Type) string {
	switch t.Kind() {
	case clangcursor.KindTypeRef, clangcursor.KindTemplateRef:
		return "" // these always need full resolution
	}
	decl := t.Declaration()
	if decl != nil && decl.IsValid() {
		return "" // has a declaration; goes through declToItem instead
	}
	key := t.Spelling()
	if t.IsConst() {
		key = "const " + key
	}
	return key
}

// RegisterPrimitive caches id under clangType's structural key so later
// references to the same builtin type reuse it (the write side of
// BuiltinOrResolvedTy's primitive branch).
func (ctx *Context) RegisterPrimitive(clangType clangcursor.Type, id ItemId) {
	if key := primitiveKey(clangType); key != "" {
		ctx.primitiveCache[key] = id
	}
}

// BuildTyWrapper creates a new Type item at withID that re-exports inner
// under a new identity.
func (ctx *Context) BuildTyWrapper(withID, innerID, parent ItemId) ItemId {
	return ctx.NewTypeItem(withID, parent, &Type{Kind: ResolvedTypeRef{Target: innerID}}, "", Annotations{}, nil)
}

// CollectedTyperefs reports whether the typeref-collection phase has
// closed. After it flips to true, the parser must never emit new
// placeholders.
func (ctx *Context) CollectedTyperefs() bool {
	return !ctx.typerefCollectionOpen
}

// CloseTyperefCollection flips the typeref-collection-open flag, run by
// the driver once the initial AST walk completes and before the
// typeref-resolution pass begins.
func (ctx *Context) CloseTyperefCollection() {
	ctx.typerefCollectionOpen = false
}

// Replace registers that the item named by path should logically be
// replaced by id.
func (ctx *Context) Replace(path []string, id ItemId) {
	cp := append([]string(nil), path...)
	ctx.replacements = append(ctx.replacements, replacement{path: cp, id: id})
}

// ResolveReplacement returns the override id registered for path, if any.
func (ctx *Context) ResolveReplacement(path []string) (ItemId, bool) {
	for i := len(ctx.replacements) - 1; i >= 0; i-- {
		r := ctx.replacements[i]
		if pathsEqual(r.path, path) {
			return r.id, true
		}
	}
	return InvalidItemId, false
}

func pathsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetNamedType looks up a previously registered template parameter by
// its defining cursor.
func (ctx *Context) GetNamedType(cursor clangcursor.Cursor) (ItemId, bool) {
	if cursor == nil || !cursor.IsValid() {
		return InvalidItemId, false
	}
	id, ok := ctx.namedTypeRegistry[cursor.USR()]
	return id, ok
}

// AddNamedType registers item as the canonical named type for cursor.
func (ctx *Context) AddNamedType(item ItemId, cursor clangcursor.Cursor) {
	if cursor == nil || !cursor.IsValid() {
		return
	}
	ctx.namedTypeRegistry[cursor.USR()] = item
}

// InCodegenPhase gates naming, derive, and hidden/opaque queries; calling
// a codegen-only query before the codegen phase begins is a fatal
// programmer error.
func (ctx *Context) InCodegenPhase() bool {
	return ctx.codegenPhase
}

// EnterCodegenPhase flips the codegen-phase flag. Run by the driver after
// the typeref-resolution pass completes.
func (ctx *Context) EnterCodegenPhase() {
	if ctx.typerefCollectionOpen {
		diag.Fatalf("enter_codegen_phase: typeref collection is still open")
	}
	ctx.codegenPhase = true
}

// RequireCodegenPhase panics with a ProgrammerError if the codegen phase
// has not started.
func (ctx *Context) RequireCodegenPhase() {
	if !ctx.codegenPhase {
		diag.Fatalf("query requires codegen phase, but parsing is not finished")
	}
}

// Options returns the recognized configuration.
func (ctx *Context) Options() *config.Options {
	return ctx.opts
}

// Logger returns the injected logger.
func (ctx *Context) Logger() logger.Logger {
	return ctx.log
}

// Diagnostics returns the non-fatal diagnostic collector.
func (ctx *Context) Diagnostics() *diag.Collector {
	return ctx.diag
}

// HiddenByName reports whether path (or id's annotation) marks the item
// hidden.
func (ctx *Context) HiddenByName(path []string, id ItemId) bool {
	if it, ok := ctx.resolveItemFallibleLocked(id); ok && it.IsHidden() {
		return true
	}
	return matchesConfiguredPatterns(ctx.opts.HiddenByName, path)
}

// OpaqueByName reports whether path matches the configured opaque
// pattern set.
func (ctx *Context) OpaqueByName(path []string) bool {
	return matchesConfiguredPatterns(ctx.opts.OpaqueByName, path)
}

func matchesConfiguredPatterns(raw []string, path []string) bool {
	if len(raw) == 0 {
		return false
	}
	compiled, err := config.CompileAll(raw)
	if err != nil {
		return false
	}
	joined := strings.Join(path, "::")
	return config.MatchAny(compiled, joined)
}

// rustReservedWords are the target language's (Go's) reserved identifiers
// that RustMangle must escape. Named after rust-bindgen's historical
// rust_mangle function, even though the target language here is Go.
var rustReservedWords = map[string]struct{}{
	"break": {}, "default": {}, "func": {}, "interface": {}, "select": {},
	"case": {}, "defer": {}, "go": {}, "map": {}, "struct": {},
	"chan": {}, "else": {}, "goto": {}, "package": {}, "switch": {},
	"const": {}, "fallthrough": {}, "if": {}, "range": {}, "type": {},
	"continue": {}, "for": {}, "import": {}, "return": {}, "var": {},
}

// RustMangle escapes target-language reserved words by appending an
// underscore, the simplest of rust-bindgen's own mangling strategies
//.
func (ctx *Context) RustMangle(name string) string {
	if !ctx.opts.MangleReservedWords {
		return name
	}
	if _, reserved := rustReservedWords[name]; reserved {
		return name + "_"
	}
	return name
}
