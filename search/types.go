package search

import "strconv"

// LineDirection identifies one (line, direction) pair of the catalog.
// DirectionRef is -1 when the provider announced no usable direction.
type LineDirection struct {
	LineRef      string `json:"line_ref"`
	LineName     string `json:"line_name"`
	LineCode     string `json:"line_code"`
	DirectionRef int    `json:"direction_ref"`
	DestName     string `json:"dest_name"`
}

// Key returns the catalog cache key, lineRef + "-" + directionRef.
func (ld LineDirection) Key() string {
	return ld.LineRef + "-" + strconv.Itoa(ld.DirectionRef)
}

// Stop is one physical stop confirmed to serve a line in the direction
// it was probed for.
type Stop struct {
	StopPointRef string `json:"stop_point_ref"`
	StopName     string `json:"stop_name"`
	DirectionRef int    `json:"direction_ref"`
}

// Result is one ranked search candidate. The stop fields are nil when
// the search carried no stop query and the match is line-level only.
type Result struct {
	LineRef      string  `json:"line_ref"`
	LineName     string  `json:"line_name"`
	LineCode     string  `json:"line_code"`
	DirectionRef int     `json:"direction_ref"`
	DestName     string  `json:"dest_name"`
	StopPointRef *string `json:"stop_point_ref"`
	StopName     *string `json:"stop_name"`
}
