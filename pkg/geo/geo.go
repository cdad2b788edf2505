package geo

import "math"

// earthRadiusMeters is the mean Earth radius used for great-circle math.
const earthRadiusMeters = 6371000.0

// DistanceMeters returns the haversine (great-circle) distance in meters
// between two WGS84 lat/lng points given in degrees. Inputs are assumed to
// be valid coordinates; NaN or out-of-range values are a caller error.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180.0
	phi2 := lat2 * math.Pi / 180.0
	dPhi := (lat2 - lat1) * math.Pi / 180.0
	dLambda := (lng2 - lng1) * math.Pi / 180.0

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)

	a := sinDPhi*sinDPhi + math.Cos(phi1)*math.Cos(phi2)*sinDLambda*sinDLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
