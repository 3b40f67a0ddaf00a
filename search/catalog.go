package search

import (
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/siri-stop-finder/siri"
)

// DataSource supplies provider catalogs and departures. *siri.Client
// implements it; tests substitute doubles.
type DataSource interface {
	FetchLineCatalog() ([]siri.LineAnnouncement, error)
	FetchStopCatalog(box siri.BoundingBox) ([]siri.StopAnnouncement, error)
	FetchDepartures(stopPointRef, lineRef string, directionRef int, preview string, maxVisits int) ([]siri.Visit, error)
}

// Catalog memoizes provider catalogs for the process lifetime: the
// line catalog is fetched at most once, stop lists lazily per
// line+direction key. Populated entries are never refreshed or
// evicted. Not safe for concurrent use; a single writer must own it.
type Catalog struct {
	ds      DataSource
	box     siri.BoundingBox
	preview string

	lines     []LineDirection
	populated bool

	stops map[string][]Stop
}

// NewCatalog creates an empty catalog over ds. Stop discovery is
// bounded by box; preview is the window used by membership probes.
func NewCatalog(ds DataSource, box siri.BoundingBox, preview string) *Catalog {
	return &Catalog{
		ds:      ds,
		box:     box,
		preview: preview,
		stops:   make(map[string][]Stop),
	}
}

// Lines returns every line+direction entry the provider announces,
// sorted by line name. The first call fetches and caches; a failed
// fetch caches nothing, so the next call retries.
func (c *Catalog) Lines() ([]LineDirection, error) {
	if c.populated {
		return c.lines, nil
	}

	announced, err := c.ds.FetchLineCatalog()
	if err != nil {
		return nil, err
	}

	var entries []LineDirection
	index := make(map[string]int)
	for _, ann := range announced {
		if ann.LineRef == "" {
			log.Warn().Str("line_name", ann.LineName).Msg("line announced without ref, skipped")
			continue
		}
		for _, d := range ann.Destinations {
			entry := LineDirection{
				LineRef:      ann.LineRef,
				LineName:     ann.LineName,
				LineCode:     ann.LineCode,
				DirectionRef: d.DirectionRef,
				DestName:     d.PlaceName,
			}
			// A later announcement with the same key replaces the
			// earlier one in place, keeping its position.
			if i, ok := index[entry.Key()]; ok {
				entries[i] = entry
				continue
			}
			index[entry.Key()] = len(entries)
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LineName < entries[j].LineName
	})

	c.lines = entries
	c.populated = true
	log.Debug().Int("entries", len(entries)).Msg("line catalog populated")
	return c.lines, nil
}

// StopsForLine returns the stops confirmed to serve lineRef in
// directionRef, sorted by normalized stop name. Confirmation probes
// live departures once per candidate stop; a failed or empty probe
// excludes the stop and the computation continues. The result, empty
// included, is cached under the line+direction key.
func (c *Catalog) StopsForLine(lineRef string, directionRef int) ([]Stop, error) {
	key := lineRef + "-" + strconv.Itoa(directionRef)
	if cached, ok := c.stops[key]; ok {
		return cached, nil
	}

	announced, err := c.ds.FetchStopCatalog(c.box)
	if err != nil {
		return nil, err
	}

	confirmed := []Stop{}
	for _, ann := range announced {
		for _, ref := range ann.LineRefs {
			if ref != lineRef {
				continue
			}
			visits, err := c.ds.FetchDepartures(ann.StopPointRef, lineRef, directionRef, c.preview, 1)
			if err != nil {
				log.Debug().Err(err).
					Str("stop_point_ref", ann.StopPointRef).
					Str("line_ref", lineRef).
					Msg("membership probe failed, stop excluded")
			} else if len(visits) > 0 {
				confirmed = append(confirmed, Stop{
					StopPointRef: ann.StopPointRef,
					StopName:     ann.StopName,
					DirectionRef: directionRef,
				})
			}
			break
		}
	}

	sort.SliceStable(confirmed, func(i, j int) bool {
		return Normalize(confirmed[i].StopName) < Normalize(confirmed[j].StopName)
	})

	c.stops[key] = confirmed
	log.Debug().Str("key", key).Int("stops", len(confirmed)).Msg("stop list cached")
	return confirmed, nil
}
