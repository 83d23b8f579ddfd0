// Package anm decodes skeletal animations from the Dark Alliance and Return
// to Arms engines into per-frame local and world-space bone poses.
//
// Decoding is a pure function of its input: no package state, no I/O, and
// the caller's buffer is never modified. Animations are safe for concurrent
// readers once returned.
package anm

import (
	"fmt"
	"strings"

	"jetblack-anim/internal/mathutil"
)

// Animation is a decoded animation. All fields and grids are read-only.
type Animation struct {
	Variant   Variant
	Header    Header
	NumBones  int
	NumFrames int

	// BindingPose is the rest offset of each bone.
	BindingPose []mathutil.Vec3
	// SkeletonDef is the parent slot of each bone (0 = world root).
	SkeletonDef []int
	// Events is the sparse pose list in decode order, frame-0 poses first.
	Events []Pose

	local [][]Pose
	world [][]Transform
}

func newAnimation(v Variant, h Header, numFrames int, bind []mathutil.Vec3, skel []int, events []Pose) (*Animation, error) {
	if numFrames < 1 {
		return nil, fmt.Errorf("anm: %s: frame count %d: %w", v, numFrames, ErrCorrupt)
	}
	if numFrames > MaxGridCells/h.NumBones {
		return nil, fmt.Errorf("anm: %s: %d frames of %d bones exceeds %d poses: %w",
			v, numFrames, h.NumBones, MaxGridCells, ErrCorrupt)
	}
	local, err := densify(v, events, h.NumBones, numFrames)
	if err != nil {
		return nil, err
	}
	world, err := resolveFK(v, local, skel)
	if err != nil {
		return nil, err
	}
	return &Animation{
		Variant:     v,
		Header:      h,
		NumBones:    h.NumBones,
		NumFrames:   numFrames,
		BindingPose: bind,
		SkeletonDef: skel,
		Events:      events,
		local:       local,
		world:       world,
	}, nil
}

// Local returns the densified local-space pose of bone at frame.
func (a *Animation) Local(frame, bone int) Pose {
	return a.local[frame][bone]
}

// World returns the forward-kinematics resolved pose of bone at frame.
func (a *Animation) World(frame, bone int) Transform {
	return a.world[frame][bone]
}

// LocalFrame returns a copy of every bone's local pose at frame.
func (a *Animation) LocalFrame(frame int) []Pose {
	return append([]Pose(nil), a.local[frame]...)
}

// WorldFrame returns a copy of every bone's world pose at frame.
func (a *Animation) WorldFrame(frame int) []Transform {
	return append([]Transform(nil), a.world[frame]...)
}

func (a *Animation) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Variant = %s\n", a.Variant)
	fmt.Fprintf(&sb, "Num Bones = %d\n", a.NumBones)
	fmt.Fprintf(&sb, "Num Frames = %d\n", a.NumFrames)
	fmt.Fprintf(&sb, "Offset 4 val = %d\n", a.Header.FormatHint)
	fmt.Fprintf(&sb, "Offset 0x14 val = %#x\n", a.Header.Flags14)
	fmt.Fprintf(&sb, "Offset 0x18 val = %#x\n", a.Header.Flags18)

	sb.WriteString("skeleton def = ")
	for i, p := range a.SkeletonDef {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", p)
	}
	sb.WriteString("\nJoint positions:\n")
	for i, p := range a.BindingPose {
		fmt.Fprintf(&sb, "Joint: %d ... %.4f,%.4f,%.4f\n", i, p[0], p[1], p[2])
	}
	for _, ev := range a.Events {
		sb.WriteString(ev.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (p Pose) String() string {
	return fmt.Sprintf("Pose: Bone=%d, Frame=%d, Pos=(%.4f,%.4f,%.4f) Rot=(%.4f,%.4f,%.4f,%.4f) Vel=(%g,%g,%g) AngVel=(%g,%g,%g,%g)",
		p.Bone, p.Frame,
		p.Position[0], p.Position[1], p.Position[2],
		p.Rotation[0], p.Rotation[1], p.Rotation[2], p.Rotation[3],
		p.Velocity[0], p.Velocity[1], p.Velocity[2],
		p.AngularVelocity[0], p.AngularVelocity[1], p.AngularVelocity[2], p.AngularVelocity[3])
}
