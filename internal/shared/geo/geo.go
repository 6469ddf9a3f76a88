package geo

import "math"

const earthRadiusKm = 6371.0

// HaversineKm computes the great-circle distance in kilometers between two
// lat/lng points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// RoundKm rounds a distance to two decimal places for API responses.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// BoundingBox returns the lat/lng deltas covering radiusKm around a point.
// One degree of latitude is ~111 km; longitude degrees shrink with latitude.
// Callers use the box as a cheap SQL prefilter before exact haversine checks.
func BoundingBox(lat, radiusKm float64) (latDelta, lngDelta float64) {
	latDelta = radiusKm / 111.0
	cosLat := math.Cos(radians(lat))
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	lngDelta = radiusKm / (111.0 * cosLat)
	return latDelta, lngDelta
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
