package search

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/siri-stop-finder/siri"
)

// Options tune the engine. Start from DefaultOptions and override;
// NewEngine fills zero-valued caps, preview, and box from the
// defaults, while thresholds apply exactly as given (zero is a valid,
// fully permissive bar).
type Options struct {
	// Minimum scores to keep a candidate. Destination and stop bars
	// are looser than the line bar: those queries are often single
	// distinguishing words.
	LineThreshold float64
	DestThreshold float64
	StopThreshold float64

	// MaxLines bounds how many surviving lines have their stop lists
	// fetched during one search; MaxResults caps the returned slice.
	MaxLines   int
	MaxResults int

	// PreviewInterval is the departure lookahead window (ISO-8601
	// duration); MaxVisits the departure count per lookup.
	PreviewInterval string
	MaxVisits       int

	// BBox bounds stop discovery.
	BBox siri.BoundingBox
}

// DefaultOptions returns the tuning of the reference deployment.
func DefaultOptions() Options {
	return Options{
		LineThreshold:   0.5,
		DestThreshold:   0.3,
		StopThreshold:   0.3,
		MaxLines:        5,
		MaxResults:      10,
		PreviewInterval: "PT90M",
		MaxVisits:       4,
		BBox:            siri.BoundingBox{West: -0.81, North: 45.10, East: -0.35, South: 44.70},
	}
}

// Engine answers fuzzy searches over the provider catalogs. Not safe
// for concurrent use; see Catalog.
type Engine struct {
	ds      DataSource
	catalog *Catalog
	opts    Options
}

// NewEngine creates an Engine with its own empty catalog over ds.
func NewEngine(ds DataSource, opts Options) *Engine {
	def := DefaultOptions()
	if opts.MaxLines == 0 {
		opts.MaxLines = def.MaxLines
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = def.MaxResults
	}
	if opts.MaxVisits == 0 {
		opts.MaxVisits = def.MaxVisits
	}
	if opts.PreviewInterval == "" {
		opts.PreviewInterval = def.PreviewInterval
	}
	if opts.BBox == (siri.BoundingBox{}) {
		opts.BBox = def.BBox
	}
	return &Engine{
		ds:      ds,
		catalog: NewCatalog(ds, opts.BBox, opts.PreviewInterval),
		opts:    opts,
	}
}

// SearchStop returns ranked candidates for up to three free-text
// queries, any of which may be empty. Lines are filtered by lineQuery
// (best of name and code) and destQuery; with no stopQuery the first
// surviving line becomes a single line-level result. Otherwise the
// stop lists of the first MaxLines surviving lines are scored against
// stopQuery and the best MaxResults returned, score order, stable.
func (e *Engine) SearchStop(lineQuery, destQuery, stopQuery string) ([]Result, error) {
	entries, err := e.catalog.Lines()
	if err != nil {
		return nil, err
	}

	var matching []LineDirection
	for _, entry := range entries {
		if lineQuery != "" {
			lineScore := max(Score(lineQuery, entry.LineName), Score(lineQuery, entry.LineCode))
			if lineScore < e.opts.LineThreshold {
				continue
			}
		}
		if destQuery != "" && Score(destQuery, entry.DestName) < e.opts.DestThreshold {
			continue
		}
		matching = append(matching, entry)
	}

	if stopQuery == "" {
		if len(matching) == 0 {
			return []Result{}, nil
		}
		return []Result{lineResult(matching[0])}, nil
	}

	type scoredResult struct {
		result Result
		score  float64
	}
	var candidates []scoredResult

	limit := min(len(matching), e.opts.MaxLines)
	for _, entry := range matching[:limit] {
		stops, err := e.catalog.StopsForLine(entry.LineRef, entry.DirectionRef)
		if err != nil {
			return nil, err
		}
		for _, stop := range stops {
			score := Score(stopQuery, stop.StopName)
			if score < e.opts.StopThreshold {
				continue
			}
			candidates = append(candidates, scoredResult{
				result: stopResult(entry, stop),
				score:  score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > e.opts.MaxResults {
		candidates = candidates[:e.opts.MaxResults]
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = c.result
	}
	log.Debug().
		Str("line_query", lineQuery).
		Str("dest_query", destQuery).
		Str("stop_query", stopQuery).
		Int("results", len(results)).
		Msg("stop search completed")
	return results, nil
}

// FindLineByQuery resolves a free-text query to the single best line
// entry, scoring the best of line name and code per entry. The first
// entry in catalog order wins ties. ok is false when nothing reaches
// the line threshold.
func (e *Engine) FindLineByQuery(query string) (LineDirection, bool, error) {
	entries, err := e.catalog.Lines()
	if err != nil {
		return LineDirection{}, false, err
	}

	var best LineDirection
	bestScore := 0.0
	for _, entry := range entries {
		score := max(Score(query, entry.LineName), Score(query, entry.LineCode))
		if score > bestScore {
			bestScore = score
			best = entry
		}
	}
	if bestScore < e.opts.LineThreshold {
		return LineDirection{}, false, nil
	}
	return best, true, nil
}

// Departures fetches upcoming visits for a stop, narrowed to a line
// when lineRef is non-empty and to a direction when directionRef is
// not -1. Plain pass-through: no caching, no retries; the preview
// window and visit cap come from Options.
func (e *Engine) Departures(stopPointRef, lineRef string, directionRef int) ([]siri.Visit, error) {
	return e.ds.FetchDepartures(stopPointRef, lineRef, directionRef, e.opts.PreviewInterval, e.opts.MaxVisits)
}

// Lines exposes the cached line catalog in catalog order.
func (e *Engine) Lines() ([]LineDirection, error) {
	return e.catalog.Lines()
}

// Stops exposes the confirmed stop list for one line and direction.
func (e *Engine) Stops(lineRef string, directionRef int) ([]Stop, error) {
	return e.catalog.StopsForLine(lineRef, directionRef)
}

func lineResult(entry LineDirection) Result {
	return Result{
		LineRef:      entry.LineRef,
		LineName:     entry.LineName,
		LineCode:     entry.LineCode,
		DirectionRef: entry.DirectionRef,
		DestName:     entry.DestName,
	}
}

func stopResult(entry LineDirection, stop Stop) Result {
	r := lineResult(entry)
	r.StopPointRef = &stop.StopPointRef
	r.StopName = &stop.StopName
	return r
}
