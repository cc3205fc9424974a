package geofence

import "pindrop/internal/config"

// Bounds is an axis-aligned rectangle fixed at process start.
type Bounds struct {
	SouthWest config.Coordinate
	NorthEast config.Coordinate
}

func NewBounds(cfg *config.Config) Bounds {
	return Bounds{
		SouthWest: cfg.Geofence.SouthWest,
		NorthEast: cfg.Geofence.NorthEast,
	}
}

// Contains reports whether the point lies strictly inside the rectangle.
// Boundary points are excluded on purpose.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat > b.SouthWest.Lat && lat < b.NorthEast.Lat &&
		lng > b.SouthWest.Lng && lng < b.NorthEast.Lng
}
