package document

import (
	"encoding/xml"

	"github.com/antchfx/xmlquery"
)

// Helpers for working with xmlquery trees. OOXML parts use namespace
// prefixes freely, so element and attribute lookups match on local names.

// newElement creates a detached element node with the given prefix and
// local name. The prefix must already be declared on the part's root.
func newElement(prefix, local string) *xmlquery.Node {
	return &xmlquery.Node{
		Type:   xmlquery.ElementNode,
		Data:   local,
		Prefix: prefix,
	}
}

// setAttr appends an attribute. space is the namespace prefix, empty for
// unprefixed attributes.
func setAttr(n *xmlquery.Node, space, local, value string) {
	n.Attr = append(n.Attr, xmlquery.Attr{
		Name:  xml.Name{Space: space, Local: local},
		Value: value,
	})
}

// attrLocal returns the value of the first attribute whose local name
// matches, regardless of prefix.
func attrLocal(n *xmlquery.Node, local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// childElement returns the first direct child element with the given local
// name, or nil.
func childElement(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

// childElements returns all direct child elements with the given local name
// in document order.
func childElements(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			out = append(out, c)
		}
	}
	return out
}

// appendChild links n as the last child of parent.
func appendChild(parent, n *xmlquery.Node) {
	n.Parent = parent
	n.NextSibling = nil
	if parent.FirstChild == nil {
		parent.FirstChild = n
		n.PrevSibling = nil
	} else {
		last := parent.LastChild
		last.NextSibling = n
		n.PrevSibling = last
	}
	parent.LastChild = n
}

// insertBefore links n into parent directly before ref. ref must be a child
// of parent.
func insertBefore(parent, n, ref *xmlquery.Node) {
	n.Parent = parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else {
		parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// removeNode detaches n from its parent.
func removeNode(n *xmlquery.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	if parent.FirstChild == n {
		parent.FirstChild = n.NextSibling
	}
	if parent.LastChild == n {
		parent.LastChild = n.PrevSibling
	}
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	}
	n.Parent = nil
	n.PrevSibling = nil
	n.NextSibling = nil
}

// newText creates a detached text node.
func newText(data string) *xmlquery.Node {
	return &xmlquery.Node{
		Type: xmlquery.TextNode,
		Data: data,
	}
}

// CloneNode returns a deep copy of n, detached from any tree. Attribute
// slices are copied so later edits to the original do not leak into the
// clone.
func CloneNode(n *xmlquery.Node) *xmlquery.Node {
	if n == nil {
		return nil
	}
	clone := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	if len(n.Attr) > 0 {
		clone.Attr = make([]xmlquery.Attr, len(n.Attr))
		copy(clone.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendChild(clone, CloneNode(c))
	}
	return clone
}

// ReplaceNode splices replacement into the tree at the position of old. The
// old node is detached.
func ReplaceNode(old, replacement *xmlquery.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	replacement.Parent = parent
	replacement.PrevSibling = old.PrevSibling
	replacement.NextSibling = old.NextSibling
	if old.PrevSibling != nil {
		old.PrevSibling.NextSibling = replacement
	}
	if old.NextSibling != nil {
		old.NextSibling.PrevSibling = replacement
	}
	if parent.FirstChild == old {
		parent.FirstChild = replacement
	}
	if parent.LastChild == old {
		parent.LastChild = replacement
	}
	old.Parent = nil
	old.PrevSibling = nil
	old.NextSibling = nil
}
