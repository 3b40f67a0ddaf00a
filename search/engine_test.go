package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/siri-stop-finder/siri"
)

// networkFixture returns a fake provider with one tram line in two
// directions, one bus line, and four tram stops that all confirm.
func networkFixture() *fakeSource {
	return &fakeSource{
		lines: []siri.LineAnnouncement{
			lineAnn("TRAM:C", "Tram C", "C",
				siri.Destination{DirectionRef: 0, PlaceName: "Pyrénées"},
				siri.Destination{DirectionRef: 1, PlaceName: "Gare de Blanquefort"},
			),
			lineAnn("BUS:23", "Bus 23", "23",
				siri.Destination{DirectionRef: 0, PlaceName: "Hôpital"},
			),
		},
		stops: []siri.StopAnnouncement{
			stopAnn("SP:PG", "Pessac Gare", "TRAM:C"),
			stopAnn("SP:G", "Gare", "TRAM:C"),
			stopAnn("SP:GDP", "Gare de Pessac", "TRAM:C"),
			stopAnn("SP:AF", "Alouette France", "TRAM:C"),
			stopAnn("SP:X", "Autre", "BUS:23"),
		},
		visits: map[string][]siri.Visit{
			"SP:PG":  oneVisit(),
			"SP:G":   oneVisit(),
			"SP:GDP": oneVisit(),
			"SP:AF":  oneVisit(),
			"SP:X":   oneVisit(),
		},
	}
}

func TestSearchStop_NoQueriesReturnsFirstCatalogEntry(t *testing.T) {
	engine := NewEngine(networkFixture(), DefaultOptions())

	results, err := engine.SearchStop("", "", "")
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Catalog order is by line name, so Bus 23 comes first.
	assert.Equal(t, "BUS:23", results[0].LineRef)
	assert.Nil(t, results[0].StopPointRef)
	assert.Nil(t, results[0].StopName)
}

func TestSearchStop_LineQueryFiltersByNameOrCode(t *testing.T) {
	engine := NewEngine(networkFixture(), DefaultOptions())

	results, err := engine.SearchStop("tram", "", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "TRAM:C", results[0].LineRef)
	assert.Equal(t, 0, results[0].DirectionRef)

	results, err = engine.SearchStop("23", "", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "BUS:23", results[0].LineRef, "line code must match too")
}

func TestSearchStop_DestQueryPicksDirection(t *testing.T) {
	engine := NewEngine(networkFixture(), DefaultOptions())

	results, err := engine.SearchStop("tram", "blanquefort", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].DirectionRef)
	assert.Equal(t, "Gare de Blanquefort", results[0].DestName)
}

func TestSearchStop_RanksStopsByScore(t *testing.T) {
	engine := NewEngine(networkFixture(), DefaultOptions())

	results, err := engine.SearchStop("tram", "pyrenees", "pessac gare")
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Exact beats containment beats keyword overlap; Alouette France
	// scores zero and is dropped.
	assert.Equal(t, "Pessac Gare", *results[0].StopName)
	assert.Equal(t, "Gare", *results[1].StopName)
	assert.Equal(t, "Gare de Pessac", *results[2].StopName)
	for _, r := range results {
		assert.Equal(t, "TRAM:C", r.LineRef)
		assert.Equal(t, 0, r.DirectionRef)
		assert.Equal(t, "Pyrénées", r.DestName)
		require.NotNil(t, r.StopPointRef)
	}
}

func TestSearchStop_NumberWordsMatchDigits(t *testing.T) {
	fake := &fakeSource{
		lines: []siri.LineAnnouncement{
			lineAnn("BUS:45", "Lianes 45", "45", siri.Destination{DirectionRef: 0, PlaceName: "Centre"}),
		},
		stops: []siri.StopAnnouncement{
			stopAnn("SP:QJ", "Quarante Journaux", "BUS:45"),
		},
		visits: map[string][]siri.Visit{"SP:QJ": oneVisit()},
	}
	engine := NewEngine(fake, DefaultOptions())

	// "quarante" and "40" normalize to the same token, so the digit
	// query lands on the spelled-out stop name.
	results, err := engine.SearchStop("", "", "40 journaux")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Quarante Journaux", *results[0].StopName)
	assert.Equal(t, "SP:QJ", *results[0].StopPointRef)
}

func TestSearchStop_MaxResultsCapsOutput(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxResults = 2
	engine := NewEngine(networkFixture(), opts)

	results, err := engine.SearchStop("tram", "pyrenees", "pessac gare")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Pessac Gare", *results[0].StopName)
	assert.Equal(t, "Gare", *results[1].StopName)
}

func TestSearchStop_MaxLinesBoundsStopLookups(t *testing.T) {
	fake := &fakeSource{
		lines: []siri.LineAnnouncement{
			lineAnn("L1", "Nav 1", "N1", siri.Destination{DirectionRef: 0, PlaceName: "X"}),
			lineAnn("L2", "Nav 2", "N2", siri.Destination{DirectionRef: 0, PlaceName: "X"}),
			lineAnn("L3", "Nav 3", "N3", siri.Destination{DirectionRef: 0, PlaceName: "X"}),
		},
		stops: []siri.StopAnnouncement{
			stopAnn("SP1", "Stop Nord", "L1"),
			stopAnn("SP2", "Stop Nord", "L2"),
			stopAnn("SP3", "Stop Nord", "L3"),
		},
		visits: map[string][]siri.Visit{
			"SP1": oneVisit(), "SP2": oneVisit(), "SP3": oneVisit(),
		},
	}
	opts := DefaultOptions()
	opts.MaxLines = 2
	engine := NewEngine(fake, opts)

	results, err := engine.SearchStop("", "", "nord")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "SP1", *results[0].StopPointRef)
	assert.Equal(t, "SP2", *results[1].StopPointRef)
	assert.Equal(t, 2, fake.stopCalls, "only the first MaxLines lines get stop lookups")
}

func TestSearchStop_NoMatchesIsEmptyNotNil(t *testing.T) {
	engine := NewEngine(networkFixture(), DefaultOptions())

	results, err := engine.SearchStop("zzz", "", "")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	results, err = engine.SearchStop("zzz", "", "gare")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchStop_LineCatalogErrorPropagates(t *testing.T) {
	fetchErr := errors.New("upstream down")
	engine := NewEngine(&fakeSource{lineErr: fetchErr}, DefaultOptions())

	_, err := engine.SearchStop("tram", "", "")
	require.ErrorIs(t, err, fetchErr)
}

func TestSearchStop_StopDiscoveryErrorPropagates(t *testing.T) {
	fetchErr := errors.New("upstream down")
	fake := networkFixture()
	fake.stopErr = fetchErr
	engine := NewEngine(fake, DefaultOptions())

	// Line-level searches never touch stop discovery.
	_, err := engine.SearchStop("tram", "", "")
	require.NoError(t, err)

	// Stop-level searches do, and the failure is fatal.
	_, err = engine.SearchStop("tram", "", "gare")
	require.ErrorIs(t, err, fetchErr)
}

func TestFindLineByQuery(t *testing.T) {
	engine := NewEngine(networkFixture(), DefaultOptions())

	t.Run("matches by code", func(t *testing.T) {
		entry, ok, err := engine.FindLineByQuery("23")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "BUS:23", entry.LineRef)
	})

	t.Run("first catalog entry wins ties", func(t *testing.T) {
		entry, ok, err := engine.FindLineByQuery("tram c")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "TRAM:C", entry.LineRef)
		assert.Equal(t, 0, entry.DirectionRef, "both directions score the same, the earlier one stays")
	})

	t.Run("below threshold reports no match", func(t *testing.T) {
		entry, ok, err := engine.FindLineByQuery("metro ligne")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, LineDirection{}, entry)
	})
}

func TestFindLineByQuery_CatalogErrorPropagates(t *testing.T) {
	fetchErr := errors.New("upstream down")
	engine := NewEngine(&fakeSource{lineErr: fetchErr}, DefaultOptions())

	_, _, err := engine.FindLineByQuery("tram")
	require.ErrorIs(t, err, fetchErr)
}

func TestDepartures_PassesOptionsThrough(t *testing.T) {
	fake := networkFixture()
	fake.visits["SP:PG"] = []siri.Visit{
		{LineRef: "TRAM:C", DirectionRef: 1, Destination: "Pyrénées"},
	}
	engine := NewEngine(fake, DefaultOptions())

	visits, err := engine.Departures("SP:PG", "TRAM:C", 1)
	require.NoError(t, err)
	require.Len(t, visits, 1)

	require.Len(t, fake.probes, 1)
	call := fake.probes[0]
	assert.Equal(t, "SP:PG", call.stopPointRef)
	assert.Equal(t, "TRAM:C", call.lineRef)
	assert.Equal(t, 1, call.directionRef)
	assert.Equal(t, "PT90M", call.preview)
	assert.Equal(t, 4, call.maxVisits)
}

func TestDepartures_ErrorPropagates(t *testing.T) {
	fetchErr := errors.New("upstream down")
	fake := networkFixture()
	fake.visitErrs = map[string]error{"SP:ERR": fetchErr}
	engine := NewEngine(fake, DefaultOptions())

	_, err := engine.Departures("SP:ERR", "", -1)
	require.ErrorIs(t, err, fetchErr)
}

func TestNewEngine_FillsZeroValuedKnobs(t *testing.T) {
	fake := networkFixture()
	engine := NewEngine(fake, Options{})

	_, err := engine.Departures("SP:PG", "", -1)
	require.NoError(t, err)
	require.Len(t, fake.probes, 1)
	assert.Equal(t, "PT90M", fake.probes[0].preview)
	assert.Equal(t, 4, fake.probes[0].maxVisits)

	// Zero thresholds stay zero: everything passes the bar.
	results, err := engine.SearchStop("no such line anywhere", "", "")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
