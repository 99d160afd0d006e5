package bixf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/relo/errs"
)

func TestXML_RoundTrip(t *testing.T) {
	doc := sampleDocument()

	text, err := ToXML(doc)
	require.NoError(t, err)
	require.Contains(t, string(text), `<emitter name="sparks" rate="12.5" blendMode="additive" loop="true" customFlag="false">`)

	got, err := FromXML(text)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestXML_ThroughBinary(t *testing.T) {
	text := []byte(`<?xml version="1.0"?>
<!-- effect library -->
<effect id="3">
  <emitter name="smoke" blendMode="alpha">
    <particle lifetime="2"/>
  </emitter>
</effect>
<effect id="4"/>
`)

	doc, err := FromXML(text)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)

	data, err := Encode(doc)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, doc, decoded)

	particle := decoded.Nodes[0].Find("emitter")[0].Find("particle")[0]
	v, ok := particle.Attr("lifetime")
	require.True(t, ok)
	require.Equal(t, "2", v)
}

func TestXML_Errors(t *testing.T) {
	_, err := FromXML([]byte(`<effect><emitter></effect>`))
	require.ErrorIs(t, err, errs.ErrMalformedFormat)

	_, err = FromXML([]byte(`<effect>text</effect>`))
	require.ErrorIs(t, err, errs.ErrUnexpectedNode)

	_, err = ToXML(&Document{Nodes: []*Node{{}}})
	require.ErrorIs(t, err, errs.ErrEmptyName)
}

func TestDocument_Helpers(t *testing.T) {
	root := NewNode("effect")
	root.AddChild(NewNode("emitter").SetAttr("name", "a"))
	root.AddChild(NewNode("particle"))
	root.AddChild(NewNode("emitter").SetAttr("name", "b").SetAttr("name", "c"))

	emitters := root.Find("emitter")
	require.Len(t, emitters, 2)

	v, ok := emitters[1].Attr("name")
	require.True(t, ok)
	require.Equal(t, "c", v)
	require.Len(t, emitters[1].Attrs, 1)

	_, ok = emitters[0].Attr("rate")
	require.False(t, ok)

	doc := &Document{Nodes: []*Node{root, NewNode("material")}}

	var visited []string
	doc.Walk(func(n *Node, depth int) bool {
		visited = append(visited, n.Name)
		return true
	})
	require.Equal(t, []string{"effect", "emitter", "particle", "emitter", "material"}, visited)

	visited = visited[:0]
	doc.Walk(func(n *Node, depth int) bool {
		visited = append(visited, n.Name)
		return n.Name != "particle"
	})
	require.Equal(t, []string{"effect", "emitter", "particle"}, visited)
}
