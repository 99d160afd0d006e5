package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/relo/bixf"
	"github.com/arloliu/relo/errs"
)

// MaterialToTree converts a material into an attributed tree node:
//
//	<material name="..." shader="...">
//	  <parameter name="..." values="1 0.5 0 1"/>
//	  <texture name="..." unit="0" wrapU="repeat" wrapV="clamp" minFilter="linear" magFilter="linear"/>
//	</material>
func MaterialToTree(m *Material) *bixf.Node {
	n := bixf.NewNode("material").SetAttr("name", m.Name)
	if m.Shader != "" {
		n.SetAttr("shader", m.Shader)
	}

	for _, p := range m.Parameters {
		vs := make([]string, len(p.Values))
		for i, v := range p.Values {
			vs[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
		}
		n.AddChild(bixf.NewNode("parameter").
			SetAttr("name", p.Name).
			SetAttr("values", strings.Join(vs, " ")))
	}

	for _, t := range m.Textures {
		n.AddChild(bixf.NewNode("texture").
			SetAttr("name", t.Name).
			SetAttr("unit", strconv.FormatUint(uint64(t.Unit), 10)).
			SetAttr("wrapU", t.WrapU.String()).
			SetAttr("wrapV", t.WrapV.String()).
			SetAttr("minFilter", t.MinFilter.String()).
			SetAttr("magFilter", t.MagFilter.String()))
	}

	return n
}

// MaterialFromTree rebuilds a material from a node produced by MaterialToTree.
// Missing texture modes default to repeat and point.
func MaterialFromTree(n *bixf.Node) (*Material, error) {
	if n.Name != "material" {
		return nil, fmt.Errorf("%w: <%s>, want <material>", errs.ErrUnexpectedNode, n.Name)
	}

	m := &Material{}
	m.Name, _ = n.Attr("name")
	m.Shader, _ = n.Attr("shader")

	for _, c := range n.Children {
		switch c.Name {
		case "parameter":
			p, err := parameterFromTree(c)
			if err != nil {
				return nil, err
			}
			m.Parameters = append(m.Parameters, p)
		case "texture":
			t, err := textureFromTree(c)
			if err != nil {
				return nil, err
			}
			m.Textures = append(m.Textures, t)
		default:
			return nil, fmt.Errorf("%w: <%s> in <material>", errs.ErrUnexpectedNode, c.Name)
		}
	}

	return m, nil
}

// MaterialsToTree wraps every material under a <materials> node.
func MaterialsToTree(ms []*Material) *bixf.Document {
	root := bixf.NewNode("materials")
	for _, m := range ms {
		root.AddChild(MaterialToTree(m))
	}

	return &bixf.Document{Nodes: []*bixf.Node{root}}
}

// MaterialsFromTree is the inverse of MaterialsToTree.
func MaterialsFromTree(doc *bixf.Document) ([]*Material, error) {
	if len(doc.Nodes) != 1 || doc.Nodes[0].Name != "materials" {
		return nil, fmt.Errorf("%w: want a single <materials> root", errs.ErrUnexpectedNode)
	}

	var ms []*Material
	for _, n := range doc.Nodes[0].Children {
		m, err := MaterialFromTree(n)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}

	return ms, nil
}

func parameterFromTree(n *bixf.Node) (*Parameter, error) {
	p := &Parameter{}
	p.Name, _ = n.Attr("name")

	raw, _ := n.Attr("values")
	for _, field := range strings.Fields(raw) {
		v, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q value %q: %w", errs.ErrMalformedFormat, p.Name, field, err)
		}
		p.Values = append(p.Values, float32(v))
	}

	return p, nil
}

func textureFromTree(n *bixf.Node) (*Texture, error) {
	t := &Texture{}
	t.Name, _ = n.Attr("name")

	if raw, ok := n.Attr("unit"); ok {
		u, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: texture %q unit %q: %w", errs.ErrMalformedFormat, t.Name, raw, err)
		}
		t.Unit = uint32(u)
	}

	var err error
	if t.WrapU, err = modeAttr(n, "wrapU", wrapNames[:], WrapRepeat); err != nil {
		return nil, err
	}

	if t.WrapV, err = modeAttr(n, "wrapV", wrapNames[:], WrapRepeat); err != nil {
		return nil, err
	}

	if t.MinFilter, err = modeAttr(n, "minFilter", filterNames[:], FilterPoint); err != nil {
		return nil, err
	}

	if t.MagFilter, err = modeAttr(n, "magFilter", filterNames[:], FilterPoint); err != nil {
		return nil, err
	}

	return t, nil
}

func modeAttr[T ~uint8](n *bixf.Node, attr string, names []string, def T) (T, error) {
	raw, ok := n.Attr(attr)
	if !ok {
		return def, nil
	}

	for i, name := range names {
		if name == raw {
			return T(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %s=%q", errs.ErrMalformedFormat, attr, raw)
}
