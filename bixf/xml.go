package bixf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/relo/errs"
)

// ToXML renders doc as indented XML text, one element per node.
func ToXML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	for _, n := range doc.Nodes {
		if err := encodeXMLNode(enc, n); err != nil {
			return nil, err
		}
	}

	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

func encodeXMLNode(enc *xml.Encoder, n *Node) error {
	if n.Name == "" {
		return errs.ErrEmptyName
	}

	start := xml.StartElement{Name: xml.Name{Local: n.Name}}
	for _, a := range n.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}

	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("xml element %q: %w", n.Name, err)
	}

	for _, c := range n.Children {
		if err := encodeXMLNode(enc, c); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// FromXML parses XML text into a Document. Whitespace between elements is
// ignored; any other character data is rejected.
func FromXML(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	doc := &Document{}

	var stack []*Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrMalformedFormat, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := NewNode(t.Name.Local)
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}

			if len(stack) == 0 {
				doc.Nodes = append(doc.Nodes, n)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: text content %q", errs.ErrUnexpectedNode, bytes.TrimSpace(t))
			}
		}
	}

	return doc, nil
}
