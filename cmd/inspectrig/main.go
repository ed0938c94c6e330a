package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"cp77-rig-tools/internal/rig"
	"cp77-rig-tools/internal/skeleton"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: inspectrig <file.rig.json>")
		os.Exit(1)
	}
	d, err := rig.Load(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rig: %s, Bones: %d, Parts: %d, Tracks: %d\n", d.Name, d.BoneCount(), len(d.Parts), len(d.TrackNames))
	if d.CookingPlatform != "" {
		fmt.Printf("  Platform: %s\n", d.CookingPlatform)
	}
	fmt.Printf("  A-pose: MS=%d LS=%d\n", len(d.APoseMS), len(d.APoseLS))

	res, err := skeleton.NewResolver(d.Transforms, d.Parents)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	minX, minY, minZ := math.Inf(1), math.Inf(1), math.Inf(1)
	maxX, maxY, maxZ := math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for i, name := range d.BoneNames {
		depth := 0
		for p := d.Parents[i]; p >= 0 && p < len(d.Parents) && depth < len(d.Parents); p = d.Parents[p] {
			depth++
		}
		g, err := res.Resolve(i)
		if err != nil {
			var cyc *skeleton.CyclicHierarchyError
			if errors.As(err, &cyc) {
				fmt.Printf("  [%3d] %-32s CYCLE %v\n", i, name, cyc.Cycle)
			} else {
				fmt.Printf("  [%3d] %-32s ERROR %v\n", i, name, err)
			}
			continue
		}
		t := g.Translation()
		minX, maxX = math.Min(minX, t[0]), math.Max(maxX, t[0])
		minY, maxY = math.Min(minY, t[1]), math.Max(maxY, t[1])
		minZ, maxZ = math.Min(minZ, t[2]), math.Max(maxZ, t[2])

		flag := ""
		if skeleton.IsHelperBone(name) {
			flag = " helper"
		}
		fmt.Printf("  [%3d] %-32s parent=%-4d pos=(%.4f, %.4f, %.4f)%s\n",
			i, strings.Repeat(" ", depth)+name, d.Parents[i], t[0], t[1], t[2], flag)
	}
	fmt.Printf("  Resolved: %d/%d\n", res.Computed(), res.Len())
	if res.Computed() > 0 {
		fmt.Printf("  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", minX, maxX, minY, maxY, minZ, maxZ)
	}
}
