package types

// Coordinates is a WGS84 point attached to shelter accounts. The frontend
// map widget consumes it as-is.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
