package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"jetblack-anim/internal/anm"
	"jetblack-anim/internal/mathutil"
	"jetblack-anim/internal/skeleton"
)

// engineList names the supported engines grouped by encoding.
func engineList() string {
	var groups []string
	for _, v := range []anm.Variant{anm.CompactByteDelta, anm.PackedBitDelta} {
		var names []string
		for _, e := range v.EngineVersions() {
			names = append(names, e.String())
		}
		groups = append(groups, fmt.Sprintf("%s (%s)", strings.Join(names, ", "), v))
	}
	return strings.Join(groups, "; ")
}

// printFrames lists each bone's local pose next to its world origin, taken
// from the bone's world matrix.
func printFrames(a *anm.Animation) {
	for f := 0; f < a.NumFrames; f++ {
		fmt.Printf("--- frame %d ---\n", f)
		worlds := skeleton.BuildWorldMatrices(a, f)
		for b, l := range a.LocalFrame(f) {
			o := worlds[b].MulPoint(mathutil.Vec3{})
			w := a.World(f, b)
			fmt.Printf("  Bone[%d] local=(%.4f, %.4f, %.4f) world=(%.4f, %.4f, %.4f) rot=(%.4f, %.4f, %.4f, %.4f)\n",
				b, l.Position[0], l.Position[1], l.Position[2], o[0], o[1], o[2],
				w.Rotation[0], w.Rotation[1], w.Rotation[2], w.Rotation[3])
		}
	}
}

func main() {
	engine := flag.String("engine", "dark-alliance", "Engine: "+engineList())
	offset := flag.Int("offset", 0, "Byte offset of the animation inside the file")
	dump := flag.Bool("dump", false, "Print the full dump (header, joints, every sparse pose)")
	frames := flag.Bool("frames", false, "Print local and world bone poses for every frame")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-engine name] [-offset n] [-dump] [-frames] file.anm ...")
		fmt.Fprintf(os.Stderr, "engines: %s\n", engineList())
		os.Exit(2)
	}
	version, err := anm.ParseEngineVersion(*engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (engines: %s)\n", err, engineList())
		os.Exit(2)
	}

	p := message.NewPrinter(language.English)
	failed := 0
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read error %s: %v\n", path, err)
			failed++
			continue
		}
		a, err := anm.DecodeAt(version, data, *offset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Decode error %s: %v\n", path, err)
			failed++
			continue
		}

		p.Printf("\n=== %s (%s, %d bytes) ===\n", path, a.Variant, len(data)-*offset)
		p.Printf("Bones: %d, Frames: %d, Sparse poses: %d, Flags: %#x\n",
			a.NumBones, a.NumFrames, len(a.Events), a.Header.Flags())

		min, max := skeleton.Bounds(a)
		fmt.Printf("Bounds: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n",
			min[0], max[0], min[1], max[1], min[2], max[2])

		if *dump {
			fmt.Print(a)
		} else {
			fmt.Printf("Skeleton: %v\n", a.SkeletonDef)
		}

		if *frames {
			printFrames(a)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
