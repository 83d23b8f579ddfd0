package anm

import "jetblack-anim/internal/mathutil"

// Pose is the state of one bone at one frame.
//
// Velocity and AngularVelocity are not physical rates. They are the raw
// values of the most recent event for the bone, used only to extrapolate
// position and rotation until the next event arrives.
type Pose struct {
	Bone            int
	Frame           int
	Position        mathutil.Vec3
	Rotation        mathutil.Quat
	Velocity        mathutil.Vec3
	AngularVelocity mathutil.Quat
}

// Transform returns the position and rotation of the pose.
func (p Pose) Transform() Transform {
	return Transform{Position: p.Position, Rotation: p.Rotation}
}

// Transform is a position and rotation pair.
type Transform struct {
	Position mathutil.Vec3
	Rotation mathutil.Quat
}

// timeline accumulates the sparse event list during a single decode pass.
// Consecutive updates to the same (frame, bone) merge into one pose.
type timeline struct {
	cur         []Pose // latest state per bone
	velFrame    []int  // frame of the last position event per bone
	angVelFrame []int  // frame of the last rotation event per bone
	divisor     float64

	pending    Pose
	hasPending bool
	events     []Pose
}

// newTimeline seeds the timeline with the frame-0 poses, one per bone.
func newTimeline(initial []Pose, divisor float64) *timeline {
	t := &timeline{
		cur:         make([]Pose, len(initial)),
		velFrame:    make([]int, len(initial)),
		angVelFrame: make([]int, len(initial)),
		divisor:     divisor,
		events:      make([]Pose, 0, len(initial)*4),
	}
	copy(t.cur, initial)
	t.events = append(t.events, initial...)
	return t
}

// touch makes (frame, bone) the pending pose, flushing any other. The new
// pose starts as a copy of the bone's stored state; only the channel the
// event carries is advanced to frame.
func (t *timeline) touch(frame, bone int) {
	if t.hasPending && t.pending.Frame == frame && t.pending.Bone == bone {
		return
	}
	t.flush()
	t.pending = t.cur[bone]
	t.pending.Frame = frame
	t.pending.Bone = bone
	t.hasPending = true
}

// position advances the bone's position by its previous velocity over the
// gap since its last position event, then installs vel.
func (t *timeline) position(vel mathutil.Vec3) {
	p := &t.pending
	c := &t.cur[p.Bone]
	p.Position = t.extrapolatePosition(*c, p.Frame)
	p.Velocity = vel

	c.Position = p.Position
	c.Velocity = p.Velocity
	t.velFrame[p.Bone] = p.Frame
}

// rotation is the rotational counterpart of position. The update is a raw
// component-wise add and is not re-normalized.
func (t *timeline) rotation(angVel mathutil.Quat) {
	p := &t.pending
	c := &t.cur[p.Bone]
	p.Rotation = t.extrapolateRotation(*c, p.Frame)
	p.AngularVelocity = angVel

	c.Rotation = p.Rotation
	c.AngularVelocity = p.AngularVelocity
	t.angVelFrame[p.Bone] = p.Frame
}

func (t *timeline) extrapolatePosition(c Pose, frame int) mathutil.Vec3 {
	coeff := float64(frame-t.velFrame[c.Bone]) / t.divisor
	return c.Position.Add(c.Velocity.Scale(coeff))
}

func (t *timeline) extrapolateRotation(c Pose, frame int) mathutil.Quat {
	coeff := float64(frame-t.angVelFrame[c.Bone]) / angVelDivisor
	return c.Rotation.Add(c.AngularVelocity.Scale(coeff))
}

func (t *timeline) flush() {
	if t.hasPending {
		t.events = append(t.events, t.pending)
		t.hasPending = false
	}
}

// finish flushes the pending pose and returns the sparse event list.
func (t *timeline) finish() []Pose {
	t.flush()
	return t.events
}
