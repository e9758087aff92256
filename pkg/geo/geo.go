// Package geo provides great-circle geodesy and the unit conversions shared
// by every other package. All conversion constants live here so the rest of
// the engine never embeds its own copies.
package geo

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles, used for all
// great-circle calculations.
const EarthRadiusNM = 3440.065

// Conversion factors. Multiply by the constant to go left-to-right.
const (
	MpsToKnots = 1.94384 // meters/second -> knots
	MetersToFt = 3.28084 // meters -> feet
	MpsToFpm   = 196.85  // meters/second -> feet/minute
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// MetersPerDegLat is the small-angle meters-per-degree scale for latitude;
// a degree of longitude shrinks by the cosine of the latitude.
const MetersPerDegLat = 111_320.0

// MetersToDegLat converts a northward displacement in meters to degrees of
// latitude.
func MetersToDegLat(m float64) float64 { return m / MetersPerDegLat }

// MetersToDegLon converts an eastward displacement in meters to degrees of
// longitude at the given latitude. At the poles, where a degree of longitude
// has zero extent, the displacement is dropped.
func MetersToDegLon(m, latDeg float64) float64 {
	c := math.Cos(latDeg * degToRad)
	if math.Abs(c) < 1e-12 {
		return 0
	}
	return m / (MetersPerDegLat * c)
}

// DistanceAndBearing returns the haversine great-circle distance in nautical
// miles and the initial bearing in degrees [0,360) from point 1 to point 2.
//
// Behavior for coincident antipodal points is undefined (the bearing is
// ambiguous there); callers in this engine never produce that input.
func DistanceAndBearing(lat1, lon1, lat2, lon2 float64) (nm, bearing float64) {
	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)
	a := sinDPhi*sinDPhi + math.Cos(phi1)*math.Cos(phi2)*sinDLambda*sinDLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	nm = EarthRadiusNM * c

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	bearing = NormalizeHeading(math.Atan2(y, x) * radToDeg)
	return nm, bearing
}

// IntermediatePoint returns the point a fraction f (0..1) of the way along
// the great circle from point 1 to point 2.
func IntermediatePoint(lat1, lon1, lat2, lon2, f float64) (lat, lon float64) {
	phi1 := lat1 * degToRad
	lambda1 := lon1 * degToRad
	phi2 := lat2 * degToRad
	lambda2 := lon2 * degToRad

	nm, _ := DistanceAndBearing(lat1, lon1, lat2, lon2)
	delta := nm / EarthRadiusNM
	if delta == 0 {
		return lat1, lon1
	}

	a := math.Sin((1-f)*delta) / math.Sin(delta)
	b := math.Sin(f*delta) / math.Sin(delta)

	x := a*math.Cos(phi1)*math.Cos(lambda1) + b*math.Cos(phi2)*math.Cos(lambda2)
	y := a*math.Cos(phi1)*math.Sin(lambda1) + b*math.Cos(phi2)*math.Sin(lambda2)
	z := a*math.Sin(phi1) + b*math.Sin(phi2)

	lat = math.Atan2(z, math.Sqrt(x*x+y*y)) * radToDeg
	lon = math.Atan2(y, x) * radToDeg
	return lat, lon
}

// NormalizeHeading wraps a heading in degrees into [0,360).
func NormalizeHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// HeadingError returns the signed shortest-turn difference target-current in
// degrees, in [-180,180].
func HeadingError(target, current float64) float64 {
	err := math.Mod(target-current, 360)
	if err > 180 {
		err -= 360
	} else if err < -180 {
		err += 360
	}
	return err
}

// MpsToKt converts meters/second to knots.
func MpsToKt(mps float64) float64 { return mps * MpsToKnots }

// KtToMps converts knots to meters/second.
func KtToMps(kt float64) float64 { return kt / MpsToKnots }

// MToFt converts meters to feet.
func MToFt(m float64) float64 { return m * MetersToFt }

// FtToM converts feet to meters.
func FtToM(ft float64) float64 { return ft / MetersToFt }

// MpsToFtMin converts meters/second to feet/minute.
func MpsToFtMin(mps float64) float64 { return mps * MpsToFpm }

// FtMinToMps converts feet/minute to meters/second.
func FtMinToMps(fpm float64) float64 { return fpm / MpsToFpm }

// MachFromTAS estimates Mach number from true airspeed in knots and pressure
// altitude in feet, using the ISA lapse-rate approximation of the local speed
// of sound (661.47 kt at sea level, linear to the tropopause at 36089 ft).
func MachFromTAS(tasKt, altFt float64) float64 {
	const (
		soundSpeedSL  = 661.47 // knots
		tropopauseFt  = 36089.0
		soundSpeedTrp = 573.57 // knots, constant above the tropopause
	)
	a := soundSpeedSL
	if altFt >= tropopauseFt {
		a = soundSpeedTrp
	} else if altFt > 0 {
		a = soundSpeedSL + (soundSpeedTrp-soundSpeedSL)*(altFt/tropopauseFt)
	}
	return tasKt / a
}
