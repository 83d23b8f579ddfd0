package anm

import "fmt"

// densify expands the sparse event list into a [frame][bone] grid.
//
// Events are applied in order so a later event for the same (frame, bone)
// supersedes an earlier one. Events outside the frame range are dropped.
// Every empty cell is extrapolated from the bone's nearest preceding
// explicit pose: position by velocity * gap / divisor, rotation by
// angular velocity * gap / 131072, component-wise and without
// re-normalization. Synthesized poses carry the explicit pose's rates.
func densify(v Variant, events []Pose, numBones, numFrames int) ([][]Pose, error) {
	explicit := make([]int, numFrames*numBones)
	for i := range explicit {
		explicit[i] = -1
	}
	for i, ev := range events {
		if ev.Bone < 0 || ev.Bone >= numBones {
			return nil, &DecodeError{Variant: v, Bone: ev.Bone, Frame: ev.Frame, Offset: -1,
				Err: fmt.Errorf("event bone outside %d bones: %w", numBones, ErrCorrupt)}
		}
		if ev.Frame < 0 || ev.Frame >= numFrames {
			continue
		}
		explicit[ev.Frame*numBones+ev.Bone] = i
	}

	cells := make([]Pose, numFrames*numBones)
	grid := make([][]Pose, numFrames)
	for f := range grid {
		grid[f] = cells[f*numBones : (f+1)*numBones : (f+1)*numBones]
	}

	divisor := v.VelocityDivisor()
	for bone := 0; bone < numBones; bone++ {
		var anchor Pose
		seeded := false
		for frame := 0; frame < numFrames; frame++ {
			if i := explicit[frame*numBones+bone]; i >= 0 {
				anchor = events[i]
				grid[frame][bone] = anchor
				seeded = true
				continue
			}
			if !seeded {
				return nil, &DecodeError{Variant: v, Bone: bone, Frame: frame, Offset: -1,
					Err: fmt.Errorf("no frame-0 pose: %w", ErrCorrupt)}
			}
			gap := float64(frame - anchor.Frame)
			grid[frame][bone] = Pose{
				Bone:            bone,
				Frame:           frame,
				Position:        anchor.Position.Add(anchor.Velocity.Scale(gap / divisor)),
				Rotation:        anchor.Rotation.Add(anchor.AngularVelocity.Scale(gap / angVelDivisor)),
				Velocity:        anchor.Velocity,
				AngularVelocity: anchor.AngularVelocity,
			}
		}
	}
	return grid, nil
}
