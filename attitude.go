package analytical

import "time"

// Attitude is the orientation of the spacecraft, sampled at one epoch in one
// frame, as a scalar-first unit quaternion.
type Attitude struct {
	frame Frame
	q     [4]float64
}

// NewAttitude returns an attitude from a scalar-first quaternion.
func NewAttitude(frame Frame, q [4]float64) Attitude {
	return Attitude{frame, q}
}

// Frame returns the frame the attitude is expressed in.
func (a Attitude) Frame() Frame {
	return a.frame
}

// Quaternion returns the scalar-first attitude quaternion.
func (a Attitude) Quaternion() [4]float64 {
	return a.q
}

// AttitudeProvider evaluates the attitude law at a propagated orbit. It is
// an external collaborator: failures propagate as wrapped propagation
// failures.
type AttitudeProvider interface {
	Attitude(o Orbit, dt time.Time, frame Frame) (Attitude, error)
}

// InertialAttitude is an AttitudeProvider holding a fixed orientation.
type InertialAttitude struct {
	Q [4]float64
}

// Attitude implements the AttitudeProvider interface.
func (p InertialAttitude) Attitude(o Orbit, dt time.Time, frame Frame) (Attitude, error) {
	return Attitude{frame, p.Q}, nil
}

// DefaultAttitude points the body frame along the inertial frame.
var DefaultAttitude = InertialAttitude{[4]float64{1, 0, 0, 0}}
