package networkgraph

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
)

func floatPtr(f float64) *float64 { return &f }

func lineGraph(t *testing.T) *Graph {
	g := New()
	g.AddStop("A", "Alpha Road", nil, nil)
	g.AddStop("B", "Bravo Street", nil, nil)
	g.AddStop("C", "Charlie Square", nil, nil)

	require.NoError(t, g.AddEdge("A", "B", 5, 10, "R1", nil))
	require.NoError(t, g.AddEdge("B", "C", 3, 8, "R1", nil))

	return g
}

func TestShortestPathDistance(t *testing.T) {
	g := lineGraph(t)

	result, err := g.ShortestPath("A", "C", CriteriaDistance)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, result.Path)
	assert.Equal(t, 8.0, result.TotalDistance)
	assert.Equal(t, 18.0, result.TotalTime)
	assert.Equal(t, 80.0, result.TotalFare)
	assert.Equal(t, 2, result.Stops)
	assert.Equal(t, 0, result.Transfers)
	assert.Equal(t, 8.0, result.Cost)
}

func TestShortestPathIsSymmetric(t *testing.T) {
	g := lineGraph(t)

	for _, criteria := range []Criteria{CriteriaTime, CriteriaDistance, CriteriaFare, CriteriaTransfers} {
		there, err := g.ShortestPath("A", "C", criteria)
		require.NoError(t, err)
		back, err := g.ShortestPath("C", "A", criteria)
		require.NoError(t, err)

		assert.InDelta(t, there.Cost, back.Cost, 1e-9, string(criteria))
	}
}

func TestShortestPathSameStop(t *testing.T) {
	g := lineGraph(t)

	result, err := g.ShortestPath("B", "B", CriteriaTime)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, result.Path)
	assert.Equal(t, 0.0, result.Cost)
	assert.Equal(t, 0, result.Stops)
}

func TestShortestPathUnreachable(t *testing.T) {
	g := lineGraph(t)
	g.AddStop("D", "Delta Park", nil, nil)

	result, err := g.ShortestPath("A", "D", CriteriaTime)
	assert.True(t, errors.Is(err, errs.ErrNoPath))
	assert.Empty(t, result.Path)
	assert.True(t, math.IsInf(result.Cost, 1))
}

func TestShortestPathUnknownStopAndCriteria(t *testing.T) {
	g := lineGraph(t)

	_, err := g.ShortestPath("A", "Z", CriteriaTime)
	assert.True(t, errors.Is(err, errs.ErrUnknownStop))

	_, err = g.ShortestPath("A", "C", Criteria("scenic"))
	assert.True(t, errors.Is(err, errs.ErrInvalidCriteria))

	criteria, err := ParseCriteria("")
	require.NoError(t, err)
	assert.Equal(t, CriteriaTime, criteria)
}

func TestShortestPathPrefersFewerTransfers(t *testing.T) {
	g := New()
	for _, stop := range []string{"A", "B", "C", "D"} {
		g.AddStop(stop, stop, nil, nil)
	}

	// A-B-D on one route but long, A-C-D short but changes route at C
	require.NoError(t, g.AddEdge("A", "B", 20, 40, "R1", nil))
	require.NoError(t, g.AddEdge("B", "D", 20, 40, "R1", nil))
	require.NoError(t, g.AddEdge("A", "C", 1, 2, "R2", nil))
	require.NoError(t, g.AddEdge("C", "D", 1, 2, "R3", nil))

	byTransfers, err := g.ShortestPath("A", "D", CriteriaTransfers)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "D"}, byTransfers.Path)
	assert.Equal(t, 0, byTransfers.Transfers)

	byTime, err := g.ShortestPath("A", "D", CriteriaTime)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, byTime.Path)
	assert.Equal(t, 1, byTime.Transfers)
	assert.Equal(t, 4.0, byTime.TotalTime)
}

func TestAddEdgeValidation(t *testing.T) {
	g := lineGraph(t)

	assert.True(t, errors.Is(g.AddEdge("A", "Z", 1, 1, "", nil), errs.ErrUnknownStop))
	assert.True(t, errors.Is(g.AddEdge("A", "C", -1, 1, "", nil), errs.ErrInvalidDistance))
	assert.True(t, errors.Is(g.AddEdge("A", "C", 0, 1, "", nil), errs.ErrInvalidDistance))
	assert.True(t, errors.Is(g.AddEdge("A", "C", 1, 0, "", nil), errs.ErrInvalidTime))
	assert.True(t, errors.Is(g.AddEdge("A", "C", 1, -2, "", nil), errs.ErrInvalidTime))
	assert.NoError(t, g.AddEdge("A", "C", 0.5, 1, "", floatPtr(0)))

	neighbours, err := g.Neighbours("A")
	require.NoError(t, err)
	require.Len(t, neighbours, 2)
	assert.Equal(t, "B", neighbours[0].Stop)
	assert.Equal(t, "C", neighbours[1].Stop)
}

func TestAddEdgeReplacesExisting(t *testing.T) {
	g := lineGraph(t)

	require.NoError(t, g.AddEdge("B", "A", 7, 12, "R9", nil))

	neighbours, err := g.Neighbours("A")
	require.NoError(t, err)
	require.Len(t, neighbours, 1)
	assert.Equal(t, 7.0, neighbours[0].Edge.Distance)
	assert.Equal(t, "R9", neighbours[0].Edge.RouteID)
	assert.Equal(t, 2, g.EdgeCount())
}

func TestNearestStop(t *testing.T) {
	g := lineGraph(t)

	result := g.NearestStop("charlie")
	assert.True(t, result.Found)
	assert.Equal(t, "C", result.Stop)
	assert.Equal(t, 2, result.Hops)
	assert.Equal(t, []string{"A", "B", "C"}, result.Path)

	result = g.NearestStop("nowhere")
	assert.False(t, result.Found)

	_, err := g.NearestStopFrom("Z", "alpha")
	assert.True(t, errors.Is(err, errs.ErrUnknownStop))
}

func TestEnumeratePaths(t *testing.T) {
	g := lineGraph(t)

	paths, err := g.EnumeratePaths("A", 5)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "B"}, {"A", "B", "C"}}, paths)

	paths, err = g.EnumeratePaths("B", 1)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"B", "A"}, {"B", "C"}}, paths)
}

func TestHasCycle(t *testing.T) {
	g := lineGraph(t)
	assert.False(t, g.HasCycle())

	require.NoError(t, g.AddEdge("C", "A", 4, 4, "", nil))
	assert.True(t, g.HasCycle())
}

func TestBuildFromCatalogue(t *testing.T) {
	wait := 3
	catalogue := &ctdf.Catalogue{
		Routes: []ctdf.Route{
			{
				RouteID: "R1",
				Stops: []ctdf.RouteStop{
					{StopName: "A", Location: "Alpha", WaitTime: &wait},
					{StopName: "B", Location: "Bravo", DistanceFromPrevious: 4.5},
					{StopName: "C", Location: "Charlie", DistanceFromPrevious: "2"},
				},
			},
		},
	}

	g := New()
	require.NoError(t, BuildFromCatalogue(g, catalogue))

	assert.Equal(t, 3, g.StopCount())

	neighbours, err := g.Neighbours("B")
	require.NoError(t, err)
	require.Len(t, neighbours, 2)

	assert.Equal(t, Edge{Distance: 4.5, Time: 12, Fare: 45, RouteID: "R1"}, neighbours[0].Edge)
	// B has no wait time so the edge uses the default dwell of 5
	assert.Equal(t, Edge{Distance: 2, Time: 9, Fare: 20, RouteID: "R1"}, neighbours[1].Edge)
}

func TestBuildFromCatalogueRejectsBadDistance(t *testing.T) {
	catalogue := &ctdf.Catalogue{
		Routes: []ctdf.Route{
			{
				RouteID: "R1",
				Stops: []ctdf.RouteStop{
					{StopName: "A"},
					{StopName: "B", DistanceFromPrevious: "far"},
				},
			},
		},
	}

	err := BuildFromCatalogue(New(), catalogue)
	assert.True(t, errors.Is(err, errs.ErrInvalidDistance))
}

func TestBuildFromCatalogueEdgeWeights(t *testing.T) {
	noWait := 0
	catalogue := &ctdf.Catalogue{
		Routes: []ctdf.Route{
			{
				RouteID: "R1",
				Stops: []ctdf.RouteStop{
					{StopName: "A", WaitTime: &noWait},
					{StopName: "B", DistanceFromPrevious: 0.2},
				},
			},
		},
	}

	g := New()
	require.NoError(t, BuildFromCatalogue(g, catalogue))

	neighbours, err := g.Neighbours("A")
	require.NoError(t, err)
	require.Len(t, neighbours, 1)
	assert.Equal(t, 0.2, neighbours[0].Edge.Distance)
	assert.Equal(t, 1.0, neighbours[0].Edge.Time)

	catalogue.Routes[0].Stops[1].DistanceFromPrevious = 0.0
	err = BuildFromCatalogue(New(), catalogue)
	assert.True(t, errors.Is(err, errs.ErrInvalidDistance))
}

func TestClosestStop(t *testing.T) {
	g := New()
	g.AddStop("Central", "Central", floatPtr(51.5074), floatPtr(-0.1278))
	g.AddStop("North", "North", floatPtr(52.4862), floatPtr(-1.8904))
	g.AddStop("Unmapped", "Unmapped", nil, nil)

	stop, distance, found := g.ClosestStop(51.51, -0.13)
	require.True(t, found)
	assert.Equal(t, "Central", stop.Name)
	assert.Less(t, distance, 1.0)

	_, _, found = New().ClosestStop(0, 0)
	assert.False(t, found)
}
