package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/regmeter/regmeter/internal/doctree"
	"golang.org/x/net/html/charset"
)

// ErrEmptyDocument is returned when the input contains no root element.
var ErrEmptyDocument = errors.New("empty document")

// Parse reads one title XML document into a node tree. Character data before
// a node's first child element becomes that node's text; fragments between
// sibling elements are discarded. Malformed XML fails the whole parse with no
// partial recovery, because extracted text feeds checksums.
func Parse(r io.Reader) (*doctree.Node, error) {
	dec := xml.NewDecoder(r)
	// Historical titles declare non-UTF-8 encodings.
	dec.CharsetReader = charset.NewReaderLabel

	var root *doctree.Node
	var stack []*doctree.Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse title xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &doctree.Node{Label: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parse title xml: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				n := stack[len(stack)-1]
				if len(n.Children) == 0 {
					n.Text += string(t)
				}
			}
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// Extract returns the flat text of the document: the stripped text of every
// node in document order, joined by single spaces. When chapters is non-empty
// only the matching chapter subtrees contribute; chapter codes compare
// case-insensitively. Repeated calls on the same tree yield byte-identical
// output.
func Extract(root *doctree.Node, chapters []string) string {
	if len(chapters) == 0 {
		return flatten(root)
	}

	want := codeSet(chapters)
	var parts []string
	for _, ch := range root.Chapters() {
		if _, ok := want[ch.ChapterCode()]; ok {
			collect(ch, &parts)
		}
	}
	return strings.Join(parts, " ")
}

// ExtractSections returns one entry per matching chapter node, keyed by the
// chapter heading (or a synthesized "Chapter <code>" label when the chapter
// has no HEAD), with that chapter's flat text as the value. A nil filter
// includes every chapter in the document.
func ExtractSections(root *doctree.Node, chapters []string) map[string]string {
	var want map[string]struct{}
	if len(chapters) > 0 {
		want = codeSet(chapters)
	}

	sections := make(map[string]string)
	for _, ch := range root.Chapters() {
		code := ch.ChapterCode()
		if want != nil {
			if _, ok := want[code]; !ok {
				continue
			}
		}
		heading := ch.Heading()
		if heading == "" {
			heading = "Chapter " + code
		}
		sections[heading] = flatten(ch)
	}
	return sections
}

func flatten(n *doctree.Node) string {
	var parts []string
	collect(n, &parts)
	return strings.Join(parts, " ")
}

func collect(n *doctree.Node, parts *[]string) {
	if t := strings.TrimSpace(n.Text); t != "" {
		*parts = append(*parts, t)
	}
	for _, c := range n.Children {
		collect(c, parts)
	}
}

func codeSet(chapters []string) map[string]struct{} {
	set := make(map[string]struct{}, len(chapters))
	for _, c := range chapters {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}
