package siri

// BoundingBox delimits a geographic search area in WGS84 degrees.
// West and East are longitudes, North and South latitudes; the box is
// sent to the provider as UpperLeft (West, North) and LowerRight
// (East, South) corners.
type BoundingBox struct {
	West  float64
	North float64
	East  float64
	South float64
}

// Destination is one direction a line runs in, as announced by the
// provider: the numeric direction reference plus the headsign place.
type Destination struct {
	DirectionRef int
	PlaceName    string
}

// LineAnnouncement is one entry of the lines-discovery catalog.
type LineAnnouncement struct {
	LineRef      string
	LineName     string
	LineCode     string
	Destinations []Destination
}

// StopAnnouncement is one entry of the stoppoints-discovery catalog.
// LineRefs lists the lines the provider announces as serving the stop.
type StopAnnouncement struct {
	StopPointRef string
	StopName     string
	LineRefs     []string
}

// Visit is one upcoming departure at a monitored stop. Aimed is the
// scheduled time and Expected the revised one, both provider ISO-8601
// strings and either possibly empty. Realtime is true when both are
// present and differ, meaning the provider sent a live prediction
// rather than a schedule echo.
type Visit struct {
	LineRef      string `json:"line_ref"`
	DirectionRef int    `json:"direction_ref"`
	Destination  string `json:"destination"`
	Aimed        string `json:"aimed"`
	Expected     string `json:"expected"`
	Realtime     bool   `json:"realtime"`
}
