package mathutil

import "math"

// Preview camera matrices.
var (
	// ModelFlip converts the engine's Z-up space to Y-up screen space: Rx(-90°)
	ModelFlip = RotX(math.Pi / -2)

	// MirrorX converts left-handed to right-handed: diag(-1, 1, 1)
	MirrorX = Mat3Diag(-1, 1, 1)

	// PreviewView is the default three-quarter skeleton view.
	// MIRROR_X @ Rx(-15°) @ Ry(30°) @ MODEL_FLIP
	PreviewView = Mat3Mul(Mat3Mul(Mat3Mul(MirrorX, RotX(Deg2Rad(-15))), RotY(Deg2Rad(30))), ModelFlip)
)
