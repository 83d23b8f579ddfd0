package anm

import (
	"fmt"

	"jetblack-anim/internal/mathutil"
)

// resolveFK composes every local pose with its parent's world pose.
//
// The parent table is a depth stack: bone b reads its parent from slot
// skel[b] and publishes its own world pose into slot skel[b]+1 for the bones
// that follow it in index order. Slot 0 is the world root (origin, identity).
// The slots are re-seeded at the start of each frame so nothing leaks
// between frames.
func resolveFK(v Variant, local [][]Pose, skel []int) ([][]Transform, error) {
	for bone, slot := range skel {
		if slot < 0 || slot+1 >= MaxDepth {
			return nil, &DecodeError{Variant: v, Bone: bone, Frame: -1, Offset: -1,
				Err: fmt.Errorf("parent slot %d outside depth %d: %w", slot, MaxDepth, ErrCorrupt)}
		}
	}

	numBones := len(skel)
	cells := make([]Transform, len(local)*numBones)
	world := make([][]Transform, len(local))

	var slotPos [MaxDepth]mathutil.Vec3
	var slotRot [MaxDepth]mathutil.Quat
	for frame := range local {
		world[frame] = cells[frame*numBones : (frame+1)*numBones : (frame+1)*numBones]
		for i := range slotPos {
			slotPos[i] = mathutil.Vec3{}
			slotRot[i] = mathutil.QuatIdentity()
		}

		for bone, slot := range skel {
			parentPos, parentRot := slotPos[slot], slotRot[slot]
			lp := local[frame][bone]

			pos := parentRot.Rotate(lp.Position).Add(parentPos)
			rot := mathutil.QuatMul(parentRot, lp.Rotation.Normalize()).Normalize()

			world[frame][bone] = Transform{Position: pos, Rotation: rot}
			slotPos[slot+1] = pos
			slotRot[slot+1] = rot
		}
	}
	return world, nil
}
