package analytical

import (
	"fmt"
	"time"
)

// ZonalField holds the gravity data a closed-form zonal theory needs: the
// equatorial radius, μ and the unnormalized zonal coefficients C20..C60.
type ZonalField struct {
	re float64
	μ  float64
	c  [7]float64 // c[n] = Cn0, n in 2..6
}

// NewZonalField returns a zonal field from the equatorial radius (m), μ
// (m³/s²) and the unnormalized C20..C60 coefficients.
func NewZonalField(re, μ, c20, c30, c40, c50, c60 float64) ZonalField {
	var c [7]float64
	c[2], c[3], c[4], c[5], c[6] = c20, c30, c40, c50, c60
	return ZonalField{re, μ, c}
}

// Re returns the equatorial radius in meters.
func (f ZonalField) Re() float64 {
	return f.re
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (f ZonalField) GM() float64 {
	return f.μ
}

// C returns the unnormalized zonal coefficient Cn0 for n in 2..6.
func (f ZonalField) C(n uint8) float64 {
	if n < 2 || n > 6 {
		return 0
	}
	return f.c[n]
}

// J returns the perturbing J_n factor, i.e. -Cn0.
func (f ZonalField) J(n uint8) float64 {
	return -f.C(n)
}

func (f ZonalField) String() string {
	return fmt.Sprintf("zonal field re=%.0f μ=%.4e J2=%.4e", f.re, f.μ, f.J(2))
}

// EarthGRIM5C1 is the Earth zonal field from the GRIM5-C1 model, the usual
// reference for the Eckstein-Hechler and Brouwer-Lyddane validity studies.
var EarthGRIM5C1 = NewZonalField(6.378136460e6, 3.986004415e14,
	-1.08262631303e-3, 2.53243534e-6, 1.61994537e-6, 2.27888264e-7, -5.40618601e-7)

// GravityProvider serves zonal fields at a given epoch. The kernel treats it
// as read-only and evaluates it once per theory construction.
type GravityProvider interface {
	// Zonal returns the field truncated at the provided degree (2 to 6).
	Zonal(degree uint8, epoch time.Time) (ZonalField, error)
}

// StaticGravity is a GravityProvider serving one fixed field.
type StaticGravity struct {
	Field ZonalField
}

// Zonal implements the GravityProvider interface.
func (g StaticGravity) Zonal(degree uint8, epoch time.Time) (ZonalField, error) {
	if degree < 2 || degree > 6 {
		return ZonalField{}, fmt.Errorf("zonal degree %d out of the supported 2..6 range", degree)
	}
	f := g.Field
	for n := degree + 1; n <= 6; n++ {
		f.c[n] = 0
	}
	return f, nil
}
