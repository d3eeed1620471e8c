package parser

import "github.com/pablor21/cirbind/clangcursor"

// fakeType is a minimal clangcursor.Type used to drive the parser in
// tests without a real libclang binding.
type fakeType struct {
	kind        clangcursor.Kind
	spelling    string
	isConst     bool
	isAssocType bool
	decl        clangcursor.Cursor
	pointee     clangcursor.Type
	element     clangcursor.Type
	arraySize   int64
}

func (t *fakeType) Kind() clangcursor.Kind          { return t.kind }
func (t *fakeType) Spelling() string                { return t.spelling }
func (t *fakeType) IsConst() bool                   { return t.isConst }
func (t *fakeType) IsAssociatedType() bool          { return t.isAssocType }
func (t *fakeType) Declaration() clangcursor.Cursor { return t.decl }
func (t *fakeType) Pointee() clangcursor.Type       { return t.pointee }
func (t *fakeType) Element() clangcursor.Type       { return t.element }
func (t *fakeType) ArraySize() int64                { return t.arraySize }

// fakeCursor is a minimal clangcursor.Cursor used to drive the parser in
// tests. Tests in this package build trees with struct literals over its
// unexported fields.
type fakeCursor struct {
	kind       clangcursor.Kind
	spelling   string
	rawComment string
	usr        string
	curType    *fakeType
	children   []*fakeCursor
	definition clangcursor.Cursor
	referenced clangcursor.Cursor
	canonical  clangcursor.Cursor
	parent     clangcursor.Cursor
	invalid    bool
}

func (c *fakeCursor) Kind() clangcursor.Kind   { return c.kind }
func (c *fakeCursor) Spelling() string         { return c.spelling }
func (c *fakeCursor) RawComment() string       { return c.rawComment }
func (c *fakeCursor) USR() string              { return c.usr }
func (c *fakeCursor) IsValid() bool            { return !c.invalid }
func (c *fakeCursor) SemanticParent() clangcursor.Cursor { return c.parent }

func (c *fakeCursor) Definition() clangcursor.Cursor {
	if c.definition != nil {
		return c.definition
	}
	return c
}

func (c *fakeCursor) Referenced() clangcursor.Cursor { return c.referenced }
func (c *fakeCursor) Canonical() clangcursor.Cursor  { return c.canonical }

func (c *fakeCursor) CurType() clangcursor.Type {
	if c.curType == nil {
		return &fakeType{kind: clangcursor.KindUnknown}
	}
	return c.curType
}

func (c *fakeCursor) Visit(fn clangcursor.VisitFunc) {
	for _, child := range c.children {
		if fn(child, c) == clangcursor.ChildVisitBreak {
			return
		}
	}
}

// primitiveType builds a fakeType for a builtin with no declaring cursor,
// the shape FromTyWithID treats as immediately resolvable.
func primitiveType(kind clangcursor.Kind, spelling string) *fakeType {
	return &fakeType{kind: kind, spelling: spelling}
}
