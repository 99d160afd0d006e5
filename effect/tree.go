package effect

import (
	"fmt"
	"strconv"

	"github.com/arloliu/relo/bixf"
	"github.com/arloliu/relo/errs"
)

// Tree element and attribute names. All of them are in the fixed Node-ID table.
const (
	treeRoot         = "effects"
	treeEmitter      = "emitter"
	treeParticle     = "particle"
	treeSpawn        = "spawn"
	treeChildEmitter = "childEmitter"
	attrID           = "id"
	attrName         = "name"
	attrRate         = "rate"
	attrLifetime     = "lifetime"
)

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func refNodes(kind string, ids []uint32) []*bixf.Node {
	out := make([]*bixf.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, bixf.NewNode(kind).SetAttr(attrID, strconv.FormatUint(uint64(id), 10)))
	}

	return out
}

// ToTree converts the set into an attributed tree:
//
//	<effects name="...">
//	  <emitter id="1" name="..." rate="..."><spawn id="2"/></emitter>
//	  <particle id="2" name="..." lifetime="..."><childEmitter id="1"/></particle>
//	</effects>
func ToTree(s *EffectSet) *bixf.Document {
	root := bixf.NewNode(treeRoot)
	if s.Name != "" {
		root.SetAttr(attrName, s.Name)
	}

	for _, e := range s.Emitters {
		n := root.AddChild(bixf.NewNode(treeEmitter).
			SetAttr(attrID, strconv.FormatUint(uint64(e.ID), 10)).
			SetAttr(attrName, e.Name).
			SetAttr(attrRate, formatFloat(e.Rate)))
		n.Children = refNodes(treeSpawn, e.ParticleIDs)
	}

	for _, p := range s.Particles {
		n := root.AddChild(bixf.NewNode(treeParticle).
			SetAttr(attrID, strconv.FormatUint(uint64(p.ID), 10)).
			SetAttr(attrName, p.Name).
			SetAttr(attrLifetime, formatFloat(p.Lifetime)))
		n.Children = refNodes(treeChildEmitter, p.ChildEmitterIDs)
	}

	return &bixf.Document{Nodes: []*bixf.Node{root}}
}

// FromTree rebuilds an unresolved set from a tree produced by ToTree.
func FromTree(doc *bixf.Document) (*EffectSet, error) {
	if len(doc.Nodes) != 1 || doc.Nodes[0].Name != treeRoot {
		return nil, fmt.Errorf("%w: want a single <%s> root", errs.ErrUnexpectedNode, treeRoot)
	}
	root := doc.Nodes[0]

	s := &EffectSet{}
	s.Name, _ = root.Attr(attrName)

	for _, n := range root.Children {
		switch n.Name {
		case treeEmitter:
			e := &Emitter{}
			var err error
			if e.ID, err = uintAttr(n, attrID); err != nil {
				return nil, err
			}
			e.Name, _ = n.Attr(attrName)
			if e.Rate, err = floatAttr(n, attrRate); err != nil {
				return nil, err
			}
			if e.ParticleIDs, err = refIDs(n, treeSpawn); err != nil {
				return nil, err
			}
			s.Emitters = append(s.Emitters, e)
		case treeParticle:
			p := &Particle{}
			var err error
			if p.ID, err = uintAttr(n, attrID); err != nil {
				return nil, err
			}
			p.Name, _ = n.Attr(attrName)
			if p.Lifetime, err = floatAttr(n, attrLifetime); err != nil {
				return nil, err
			}
			if p.ChildEmitterIDs, err = refIDs(n, treeChildEmitter); err != nil {
				return nil, err
			}
			s.Particles = append(s.Particles, p)
		default:
			return nil, fmt.Errorf("%w: <%s> in <%s>", errs.ErrUnexpectedNode, n.Name, treeRoot)
		}
	}

	return s, nil
}

func uintAttr(n *bixf.Node, name string) (uint32, error) {
	v, ok := n.Attr(name)
	if !ok {
		return 0, fmt.Errorf("%w: <%s> without %s", errs.ErrUnexpectedNode, n.Name, name)
	}

	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: <%s %s=%q>: %w", errs.ErrMalformedFormat, n.Name, name, v, err)
	}

	return uint32(u), nil
}

func floatAttr(n *bixf.Node, name string) (float32, error) {
	v, ok := n.Attr(name)
	if !ok {
		return 0, nil
	}

	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: <%s %s=%q>: %w", errs.ErrMalformedFormat, n.Name, name, v, err)
	}

	return float32(f), nil
}

func refIDs(n *bixf.Node, kind string) ([]uint32, error) {
	var ids []uint32
	for _, c := range n.Children {
		if c.Name != kind {
			return nil, fmt.Errorf("%w: <%s> in <%s>", errs.ErrUnexpectedNode, c.Name, n.Name)
		}

		id, err := uintAttr(c, attrID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
