package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"cp77-rig-tools/internal/skeleton"

	"github.com/qmuntal/gltf"
)

// Generator is written into the glTF asset block.
const Generator = "cp77-rig-tools"

// BuildGLTF builds a glTF document with one node per bone. Node matrices are
// parent-relative in target space; the scene lists the roots and a single skin
// lists every bone as a joint.
func BuildGLTF(s *skeleton.Skeleton) (*gltf.Document, error) {
	if len(s.Bones) == 0 {
		return nil, fmt.Errorf("export: gltf %s: no bones", s.Name)
	}

	kids := s.Children()
	nodes := make([]*gltf.Node, len(s.Bones))
	joints := make([]int, len(s.Bones))
	for i, b := range s.Bones {
		local, err := s.LocalMatrix(i)
		if err != nil {
			return nil, fmt.Errorf("export: gltf %s: %w", s.Name, err)
		}
		nodes[i] = &gltf.Node{
			Name:     b.Name,
			Matrix:   local.ColumnMajor(),
			Children: kids[i],
		}
		joints[i] = i
	}

	roots := s.Roots()
	skin := &gltf.Skin{Name: s.Name, Joints: joints}
	if len(roots) == 1 {
		skin.Skeleton = gltf.Index(roots[0])
	}

	return &gltf.Document{
		Asset:  gltf.Asset{Version: "2.0", Generator: Generator},
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Name: s.Name, Nodes: roots}},
		Nodes:  nodes,
		Skins:  []*gltf.Skin{skin},
	}, nil
}

// WriteGLTF saves the skeleton as .gltf, or binary .glb when the path says so.
func WriteGLTF(path string, s *skeleton.Skeleton) error {
	doc, err := BuildGLTF(s)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
