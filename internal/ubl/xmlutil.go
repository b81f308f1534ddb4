package ubl

import "github.com/beevik/etree"

// UBL 2.1 namespace set
const (
	NamespaceInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NamespaceCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NamespaceCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NamespaceXMLDSig = "http://www.w3.org/2000/09/xmldsig#"
)

// child returns the first child of parent with the given namespace URI and
// local name, regardless of the prefix the document chose.
func child(parent *etree.Element, ns, local string) *etree.Element {
	for _, c := range parent.ChildElements() {
		if c.Tag == local && c.NamespaceURI() == ns {
			return c
		}
	}
	return nil
}

// children returns all direct children matching namespace URI and local name,
// in document order.
func children(parent *etree.Element, ns, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range parent.ChildElements() {
		if c.Tag == local && c.NamespaceURI() == ns {
			out = append(out, c)
		}
	}
	return out
}

// childText returns the trimmed text of a matching child, or "" if absent
func childText(parent *etree.Element, ns, local string) string {
	if c := child(parent, ns, local); c != nil {
		return c.Text()
	}
	return ""
}

// findDescendant walks the subtree depth-first for the first element with the
// given namespace URI and local name.
func findDescendant(el *etree.Element, ns, local string) *etree.Element {
	if el.Tag == local && el.NamespaceURI() == ns {
		return el
	}
	for _, c := range el.ChildElements() {
		if found := findDescendant(c, ns, local); found != nil {
			return found
		}
	}
	return nil
}
