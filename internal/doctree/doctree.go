package doctree

import "strings"

// Element and attribute names used by the versioned title XML. Chapters are
// DIV3 elements tagged TYPE=CHAPTER, identified by their N attribute, with an
// optional HEAD child carrying the chapter heading.
const (
	chapterLabel = "DIV3"
	chapterType  = "CHAPTER"
	headLabel    = "HEAD"
	attrType     = "TYPE"
	attrCode     = "N"
)

// Node is one element of a parsed title document. A node's Text is the
// character data appearing before its first child element.
type Node struct {
	Label    string            // element name, e.g. "DIV3"
	Attrs    map[string]string // attribute map (nil when the element has none)
	Text     string            // leading text content
	Children []*Node           // child elements in document order
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// IsChapter reports whether this node is a chapter subtree.
func (n *Node) IsChapter() bool {
	return n.Label == chapterLabel && n.Attr(attrType) == chapterType
}

// ChapterCode returns the chapter code in canonical upper-case form.
// Chapter codes compare case-insensitively.
func (n *Node) ChapterCode() string {
	return strings.ToUpper(strings.TrimSpace(n.Attr(attrCode)))
}

// Heading returns the stripped text of the node's HEAD child, or "" when the
// node has no heading.
func (n *Node) Heading() string {
	for _, c := range n.Children {
		if c.Label == headLabel {
			return strings.TrimSpace(c.Text)
		}
	}
	return ""
}

// Walk visits n and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Chapters returns every chapter node under n in document order.
func (n *Node) Chapters() []*Node {
	var chapters []*Node
	n.Walk(func(node *Node) {
		if node.IsChapter() {
			chapters = append(chapters, node)
		}
	})
	return chapters
}
