package medm

// BlockID is the index of a Block in the arena of its Tree.
type BlockID int

// NoBlock is the parent of the root block.
const NoBlock BlockID = -1

// Assignment is a "key = value" pair. The colors block is stored as a single
// assignment with key "colors" and the decoded table in Colors.
type Assignment struct {
	Key    string
	Value  string
	Colors []Color
	Line   int
	Column int
}

// Child is an element of a block body: either a nested block or an assignment.
type Child struct {
	Block      BlockID
	Assignment *Assignment
}

// IsBlock reports whether the child is a nested block.
func (c Child) IsBlock() bool {
	return c.Assignment == nil
}

// Block is a named section of an .adl file delimited by braces.
type Block struct {
	Name     string
	Kind     Kind
	Parent   BlockID
	Depth    int
	Line     int
	Column   int
	Geometry *Rectangle
	Children []Child
}

// Tree is the result of parsing one .adl file. Blocks live in a flat arena and
// refer to each other by index. The root block has index 0 and stands for the
// whole file.
type Tree struct {
	FileName string
	Blocks   []Block
	Warnings []*SyntaxError
}

// Root returns the id of the block representing the whole file.
func (t *Tree) Root() BlockID {
	return 0
}

// Block returns the block with the given id.
func (t *Tree) Block(id BlockID) *Block {
	return &t.Blocks[id]
}

// ChildBlocks returns the ids of the blocks nested directly in id, in file order.
func (t *Tree) ChildBlocks(id BlockID) []BlockID {
	var ids []BlockID
	for _, c := range t.Blocks[id].Children {
		if c.IsBlock() {
			ids = append(ids, c.Block)
		}
	}
	return ids
}

// Find returns the first block of the given kind nested directly in id.
func (t *Tree) Find(id BlockID, kind Kind) (BlockID, bool) {
	for _, c := range t.Blocks[id].Children {
		if c.IsBlock() && t.Blocks[c.Block].Kind == kind {
			return c.Block, true
		}
	}
	return NoBlock, false
}

// FindNamed returns the first block with the given name nested directly in id.
func (t *Tree) FindNamed(id BlockID, name string) (BlockID, bool) {
	for _, c := range t.Blocks[id].Children {
		if c.IsBlock() && t.Blocks[c.Block].Name == name {
			return c.Block, true
		}
	}
	return NoBlock, false
}

// Assignments returns the assignments of a block in file order.
func (t *Tree) Assignments(id BlockID) []*Assignment {
	var list []*Assignment
	for _, c := range t.Blocks[id].Children {
		if !c.IsBlock() {
			list = append(list, c.Assignment)
		}
	}
	return list
}

// Lookup returns the value assigned to key in block id. When the key is
// assigned more than once the first assignment wins.
func (t *Tree) Lookup(id BlockID, key string) (*Assignment, bool) {
	if id == NoBlock {
		return nil, false
	}
	for _, c := range t.Blocks[id].Children {
		if !c.IsBlock() && c.Assignment.Key == key {
			return c.Assignment, true
		}
	}
	return nil, false
}

// Value returns the value assigned to key in block id, or "" if there is none.
func (t *Tree) Value(id BlockID, key string) string {
	if a, ok := t.Lookup(id, key); ok {
		return a.Value
	}
	return ""
}

// ColorTable returns the colors of the first color map of the file.
func (t *Tree) ColorTable() []Color {
	cmap, ok := t.Find(t.Root(), KindColorMap)
	if !ok {
		return nil
	}
	if a, ok := t.Lookup(cmap, "colors"); ok {
		return a.Colors
	}
	return nil
}

// Display returns the display block of the file.
func (t *Tree) Display() (BlockID, bool) {
	return t.Find(t.Root(), KindDisplay)
}

// Walk calls fn for every block below id in depth-first order. If fn returns
// false the children of that block are skipped.
func (t *Tree) Walk(id BlockID, fn func(id BlockID) bool) {
	for _, child := range t.ChildBlocks(id) {
		if fn(child) {
			t.Walk(child, fn)
		}
	}
}

// Label names the kind of block id for messages: the kind itself, the block
// name when the kind is not known, or "file" for the root.
func (t *Tree) Label(id BlockID) string {
	if id == NoBlock || id == t.Root() {
		return "file"
	}
	b := t.Block(id)
	if b.Kind == KindGeneric {
		return b.Name
	}
	return b.Kind.String()
}
