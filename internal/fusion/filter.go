// Complementary filter fusing accelerometer tilt with integrated gyro rate.
package fusion

import "math"

// Alpha is the fixed blend weight: gyro integration dominates short-term,
// accelerometer tilt anchors the long-term drift.
const Alpha = 0.98

const radToDeg = 180.0 / math.Pi

// Vec3 is a raw three-axis sensor sample.
type Vec3 struct {
	X, Y, Z float64
}

// Filter holds the fused pitch/roll state across samples. All angles are in
// degrees at the API boundary; gyro input is rad/s.
type Filter struct {
	pitch, roll float64
	lastMillis  int64
	seeded      bool
}

// New returns a filter with zeroed attitude and no time reference.
func New() *Filter {
	return &Filter{}
}

// Update feeds one accelerometer/gyro sample taken at nowMillis and returns
// the fused pitch and roll. The first sample after (re)initialization only
// seeds the time reference: there is no previous timestamp to integrate
// against, so it returns ok=false and leaves the attitude untouched.
func (f *Filter) Update(accel, gyro Vec3, nowMillis int64) (pitch, roll float64, ok bool) {
	if !f.seeded {
		f.lastMillis = nowMillis
		f.seeded = true
		return f.pitch, f.roll, false
	}

	dt := float64(nowMillis-f.lastMillis) / 1000.0
	f.lastMillis = nowMillis

	accPitch := math.Atan2(accel.Y, math.Sqrt(accel.X*accel.X+accel.Z*accel.Z)) * radToDeg
	accRoll := math.Atan2(-accel.X, accel.Z) * radToDeg

	f.pitch = Alpha*(f.pitch+gyro.X*dt*radToDeg) + (1-Alpha)*accPitch
	f.roll = Alpha*(f.roll+gyro.Y*dt*radToDeg) + (1-Alpha)*accRoll
	return f.pitch, f.roll, true
}

// Attitude returns the current fused pitch and roll without advancing state.
func (f *Filter) Attitude() (pitch, roll float64) {
	return f.pitch, f.roll
}

// Reset clears attitude and the time reference; the next Update seeds again.
func (f *Filter) Reset() {
	*f = Filter{}
}
