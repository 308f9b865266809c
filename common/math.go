package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// TwoPi is a full turn in radians.
const TwoPi = 2 * math32.Pi

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// NormalizeAngle wraps an angle in radians into the half-open range (-π, π].
//
// Parameters:
//   - a: angle in radians, any magnitude
//
// Returns:
//   - float32: the equivalent angle in (-π, π]
func NormalizeAngle(a float32) float32 {
	a = math32.Mod(a+math32.Pi, TwoPi)
	if a <= 0 {
		a += TwoPi
	}
	return a - math32.Pi
}

// ShortestAngle returns the signed delta that rotates from one angle to another along the
// shorter arc. Both inputs are normalized first, so the magnitude never exceeds π.
//
// Parameters:
//   - from: the current angle in radians
//   - to: the desired angle in radians
//
// Returns:
//   - float32: the signed rotation in (-π, π]
func ShortestAngle(from, to float32) float32 {
	return NormalizeAngle(NormalizeAngle(to) - NormalizeAngle(from))
}

// SmoothingFactor returns the per-frame blend factor for exponential smoothing.
// When frameIndependent is true the base factor, tuned for 60 frames per second, is rescaled
// so that the perceived convergence speed does not depend on the frame rate.
//
// Parameters:
//   - base: the blend factor for a single 60 Hz frame, in [0, 1]
//   - dt: elapsed frame time in seconds
//   - frameIndependent: whether to rescale base by dt
//
// Returns:
//   - float32: the blend factor to use for this frame, in [0, 1]
func SmoothingFactor(base, dt float32, frameIndependent bool) float32 {
	base = mgl32.Clamp(base, 0, 1)
	if !frameIndependent || dt <= 0 {
		return base
	}
	return 1 - math32.Pow(1-base, dt*60)
}

// Damp moves current toward target by the given factor: current + (target - current) * factor.
func Damp(current, target, factor float32) float32 {
	return current + (target-current)*factor
}

// DampVec3 is Damp applied component-wise to a vector.
func DampVec3(current, target mgl32.Vec3, factor float32) mgl32.Vec3 {
	return current.Add(target.Sub(current).Mul(factor))
}

// DampVec4 is Damp applied component-wise to a four-component vector such as an RGBA color.
func DampVec4(current, target mgl32.Vec4, factor float32) mgl32.Vec4 {
	return current.Add(target.Sub(current).Mul(factor))
}

// DampQuat spherically interpolates current toward target by the given factor.
func DampQuat(current, target mgl32.Quat, factor float32) mgl32.Quat {
	if factor >= 1 {
		return target
	}
	if current.Dot(target) < 0 {
		target = target.Scale(-1)
	}
	return mgl32.QuatNlerp(current, target, factor)
}

// EulerDegToQuat builds an orientation from Euler angles in degrees, applied X first, then Y,
// then Z in the object's local frame.
//
// Parameters:
//   - x, y, z: rotation about each axis in degrees
//
// Returns:
//   - mgl32.Quat: the composed rotation
func EulerDegToQuat(x, y, z float32) mgl32.Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(x), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(mgl32.DegToRad(y), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(mgl32.DegToRad(z), mgl32.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz)
}

// FrictionSteps predicts how many friction frames bring a speed of magnitude initial below
// epsilon when it is multiplied by friction each frame.
//
// Parameters:
//   - initial: the starting speed, any sign
//   - epsilon: the stopping threshold, > 0
//   - friction: the per-frame decay factor in (0, 1)
//
// Returns:
//   - int: the number of frames, 0 when the speed already sits below epsilon or friction is out of range
func FrictionSteps(initial, epsilon, friction float32) int {
	initial = math32.Abs(initial)
	if initial <= epsilon || epsilon <= 0 || friction <= 0 || friction >= 1 {
		return 0
	}
	return int(math32.Ceil(math32.Log(epsilon/initial) / math32.Log(friction)))
}
