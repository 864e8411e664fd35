// Package projection converts between the survey dataset's planar grid
// coordinates and geographic latitude/longitude using a Transverse
// Mercator projection. All functions are pure and do no bounds
// checking; out-of-zone inputs are caught downstream by the store's
// bounding-box validation.
package projection

import (
	"math"
)

// Params holds the full parameter set of a Transverse Mercator zone.
// The values are configuration: different regional grids use different
// ellipsoids, central meridians and offsets.
type Params struct {
	SemiMajorAxis     float64 // a, meters
	InverseFlattening float64 // 1/f
	CentralMeridian   float64 // lambda0, degrees
	LatitudeOrigin    float64 // phi0, degrees
	ScaleFactor       float64 // k0 at the central meridian
	FalseEasting      float64 // meters
	FalseNorthing     float64 // meters
}

// Projector performs forward and inverse Transverse Mercator
// transforms for one fixed parameter set. It is stateless after
// construction and safe for concurrent use.
type Projector struct {
	p Params

	e2  float64 // first eccentricity squared
	ep2 float64 // second eccentricity squared
	e1  float64 // series coefficient for the footpoint latitude

	mf float64 // a * (1 - e2/4 - 3e4/64 - 5e6/256), divisor of the rectifying latitude
	m0 float64 // meridian arc at the latitude of origin
}

// New builds a Projector, precomputing the ellipsoid-derived series
// constants.
func New(p Params) *Projector {
	f := 1 / p.InverseFlattening
	e2 := f * (2 - f)

	pr := &Projector{
		p:   p,
		e2:  e2,
		ep2: e2 / (1 - e2),
		e1:  (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2)),
	}
	pr.mf = p.SemiMajorAxis * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256)
	pr.m0 = pr.meridianArc(deg2rad(p.LatitudeOrigin))
	return pr
}

// Inverse converts planar grid coordinates (meters) to geographic
// latitude/longitude (degrees). The false offsets are removed, the
// footpoint latitude is recovered from the meridian arc, and the
// remaining correction terms follow the standard inverse series.
func (pr *Projector) Inverse(gx, gy float64) (lat, lng float64) {
	a := pr.p.SemiMajorAxis
	k0 := pr.p.ScaleFactor
	e2 := pr.e2
	ep2 := pr.ep2
	e1 := pr.e1

	x := gx - pr.p.FalseEasting
	y := gy - pr.p.FalseNorthing

	// Rectifying latitude from the meridian arc
	m := pr.m0 + y/k0
	mu := m / pr.mf

	// Footpoint latitude
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sin1 := math.Sin(phi1)
	cos1 := math.Cos(phi1)
	tan1 := math.Tan(phi1)

	c1 := ep2 * cos1 * cos1
	t1 := tan1 * tan1
	n1 := a / math.Sqrt(1-e2*sin1*sin1)
	r1 := a * (1 - e2) / math.Pow(1-e2*sin1*sin1, 1.5)
	d := x / (n1 * k0)

	latRad := phi1 - (n1*tan1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)

	lngRad := deg2rad(pr.p.CentralMeridian) + (d-
		(1+2*t1+c1)*d*d*d/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cos1

	return rad2deg(latRad), rad2deg(lngRad)
}

// Forward converts geographic latitude/longitude (degrees) to planar
// grid coordinates (meters). It is the exact counterpart of Inverse
// and exists for validation and round-trip testing.
func (pr *Projector) Forward(lat, lng float64) (gx, gy float64) {
	a := pr.p.SemiMajorAxis
	k0 := pr.p.ScaleFactor
	e2 := pr.e2
	ep2 := pr.ep2

	phi := deg2rad(lat)
	sinP := math.Sin(phi)
	cosP := math.Cos(phi)
	tanP := math.Tan(phi)

	n := a / math.Sqrt(1-e2*sinP*sinP)
	t := tanP * tanP
	c := ep2 * cosP * cosP
	aa := (deg2rad(lng) - deg2rad(pr.p.CentralMeridian)) * cosP
	m := pr.meridianArc(phi)

	gx = pr.p.FalseEasting + k0*n*(aa+
		(1-t+c)*aa*aa*aa/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(aa, 5)/120)

	gy = pr.p.FalseNorthing + k0*(m-pr.m0+n*tanP*(aa*aa/2+
		(5-t+9*c+4*c*c)*math.Pow(aa, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(aa, 6)/720))

	return gx, gy
}

// meridianArc returns the ellipsoidal meridian arc length from the
// equator to latitude phi (radians).
func (pr *Projector) meridianArc(phi float64) float64 {
	a := pr.p.SemiMajorAxis
	e2 := pr.e2
	e4 := e2 * e2
	e6 := e4 * e2

	return a * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func rad2deg(r float64) float64 { return r * 180 / math.Pi }
