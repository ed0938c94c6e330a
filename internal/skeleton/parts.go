package skeleton

import (
	"encoding/json"

	"cp77-rig-tools/internal/rig"
)

// Collection is a named bone group derived from a rig part.
type Collection struct {
	Name                          string
	Bones                         []string
	BonesWithRotationInModelSpace []string
	Mask                          map[int]float64
	MaskRotMS                     json.RawMessage
	Missing                       []string // referenced names not in the rig
}

func collections(d *rig.Data, s *Skeleton) []Collection {
	if len(d.Parts) == 0 {
		return nil
	}
	kids := s.Children()

	var out []Collection
	for _, p := range d.Parts {
		if p.Name == "" {
			continue
		}
		c := Collection{
			Name:                          p.Name,
			BonesWithRotationInModelSpace: p.BonesWithRotationInModelSpace,
			Mask:                          p.Mask,
			MaskRotMS:                     p.MaskRotMS,
		}
		seen := make(map[int]bool)
		add := func(i int) {
			if !seen[i] {
				seen[i] = true
				c.Bones = append(c.Bones, d.BoneNames[i])
			}
		}

		for _, name := range p.SingleBones {
			if i, ok := d.BoneIndex(name); ok {
				add(i)
			} else {
				c.Missing = append(c.Missing, name)
			}
		}

		for _, tree := range p.TreeBones {
			for _, root := range treeRoots(tree) {
				i, ok := d.BoneIndex(root)
				if !ok {
					c.Missing = append(c.Missing, root)
					continue
				}
				add(i)
				for _, k := range descendants(i, kids) {
					add(k)
				}
			}
		}

		out = append(out, c)
	}
	return out
}

// treeRoots flattens a tree and its nested subtrees into root bone names.
func treeRoots(t rig.Tree) []string {
	var roots []string
	if t.Root != "" {
		roots = append(roots, t.Root)
	}
	for _, sub := range t.Subtrees {
		roots = append(roots, treeRoots(sub)...)
	}
	return roots
}

// descendants walks the child table depth-first, in bone order.
func descendants(root int, kids [][]int) []int {
	var out []int
	visited := map[int]bool{root: true}
	stack := append([]int(nil), kids[root]...)
	for len(stack) > 0 {
		i := stack[0]
		stack = stack[1:]
		if visited[i] {
			continue
		}
		visited[i] = true
		out = append(out, i)
		stack = append(append([]int(nil), kids[i]...), stack...)
	}
	return out
}
