package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
	"github.com/travigo/transitops/pkg/networkgraph"
)

func testOptions() Options {
	options := DefaultOptions()
	options.Now = func() time.Time {
		return time.Date(2024, time.January, 1, 7, 20, 0, 0, time.UTC)
	}

	return options
}

func testCatalogue() ctdf.Catalogue {
	return ctdf.Catalogue{
		Routes: []ctdf.Route{
			{
				RouteID:   "R1",
				RouteName: "Harbour Line",
				Stops: []ctdf.RouteStop{
					{StopName: "A", Location: "Alpha Road"},
					{StopName: "B", Location: "Bravo Street", DistanceFromPrevious: 5},
					{StopName: "C", Location: "Charlie Square", DistanceFromPrevious: 3},
				},
			},
		},
	}
}

func loadedEngine(t *testing.T) *Engine {
	e := New(testOptions())

	err := e.Load(
		testCatalogue(),
		ctdf.FleetSnapshot{
			{ID: 3, BusNumber: "B3", Capacity: 2, RouteID: "R1", NextArrival: "09:00"},
		},
		ctdf.LedgerSnapshot{
			Passengers: []ctdf.PassengerRecord{{PassengerID: "0a1b2c3d", FullName: "Ada Lovelace", Email: "ada@example.com"}},
		},
	)
	require.NoError(t, err)

	return e
}

func TestLoadAndPlan(t *testing.T) {
	e := loadedEngine(t)

	result, err := e.ShortestPath("A", "C", networkgraph.CriteriaDistance)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, result.Path)
	assert.Equal(t, 8.0, result.TotalDistance)

	assert.Len(t, e.Stops(), 3)
	assert.False(t, e.HasCycle())

	paths, err := e.EnumeratePaths("A", 0)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	nearest := e.NearestStop("bravo")
	assert.Equal(t, "B", nearest.Stop)

	route, err := e.Route("Harbour Line")
	require.NoError(t, err)
	assert.Equal(t, "R1", route.RouteID)
}

func TestLoadRejectsBadCatalogueWithoutChanges(t *testing.T) {
	e := loadedEngine(t)

	catalogue := testCatalogue()
	catalogue.Routes[0].Stops[1].DistanceFromPrevious = "far"

	err := e.Load(catalogue, nil, ctdf.LedgerSnapshot{})
	assert.True(t, errors.Is(err, errs.ErrInvalidDistance))

	assert.Len(t, e.Vehicles(), 1)
	assert.Len(t, e.Stops(), 3)

	err = e.ReplaceCatalogue(catalogue)
	assert.True(t, errors.Is(err, errs.ErrInvalidDistance))
	assert.Len(t, e.Stops(), 3)
}

func TestBookingThroughEngine(t *testing.T) {
	e := loadedEngine(t)

	request := ctdf.BookingRequest{
		PassengerID: "0a1b2c3d",
		VehicleID:   3,
		FromStop:    "A",
		ToStop:      "C",
		TravelDate:  "2024-01-01",
	}

	ticket, err := e.Book(request)
	require.NoError(t, err)
	assert.Equal(t, 1, ticket.SeatNumber)

	vehicle, err := e.Vehicle(3)
	require.NoError(t, err)
	assert.Equal(t, 1, vehicle.CurrentPassengers)

	history, err := e.TravelHistory("0a1b2c3d")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = e.TravelHistory("ffffffff")
	assert.True(t, errors.Is(err, errs.ErrPassengerNotFound))

	_, err = e.Cancel(ticket.TicketID)
	require.NoError(t, err)

	snapshot := e.Snapshot()
	require.Len(t, snapshot.Fleet, 1)
	assert.Equal(t, 0, snapshot.Fleet[0].CurrentPassengers)
	require.Len(t, snapshot.Ledger.Tickets, 1)
	assert.Equal(t, ctdf.TicketStatusCancelled, snapshot.Ledger.Tickets[0].Status)
	assert.Equal(t, 1001, snapshot.Ledger.NextID)
	assert.Len(t, snapshot.Ledger.Passengers, 1)
	assert.Len(t, snapshot.Catalogue.Routes, 1)

	stats := e.BookingStatistics()
	assert.Equal(t, 3, stats.TransportNodes)
	assert.Equal(t, 1, stats.CancelledTickets)
}

func TestReplaceCatalogue(t *testing.T) {
	e := loadedEngine(t)

	catalogue := testCatalogue()
	catalogue.Routes = append(catalogue.Routes, ctdf.Route{
		RouteID: "R2",
		Stops: []ctdf.RouteStop{
			{StopName: "C"},
			{StopName: "D", DistanceFromPrevious: 2},
		},
	})
	require.NoError(t, e.ReplaceCatalogue(catalogue))

	result, err := e.ShortestPath("A", "D", networkgraph.CriteriaTransfers)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Transfers)

	shared, err := e.TransferPoints("R1", "R2")
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, shared)

	vehicle, err := e.AllocateVehicle(3, "R2", "")
	require.NoError(t, err)
	assert.Equal(t, "R2", vehicle.RouteID)

	assert.Equal(t, 4, e.BookingStatistics().TransportNodes)
}

func TestSnapshotIsDetached(t *testing.T) {
	e := loadedEngine(t)

	snapshot := e.Snapshot()
	snapshot.Catalogue.Routes[0].Stops[0].StopName = "Z"
	snapshot.Fleet[0].BusNumber = "changed"

	route, err := e.Route("R1")
	require.NoError(t, err)
	assert.Equal(t, "A", route.Stops[0].StopName)

	vehicle, err := e.Vehicle(3)
	require.NoError(t, err)
	assert.Equal(t, "B3", vehicle.BusNumber)
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	e := loadedEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e.ShortestPath("A", "C", networkgraph.CriteriaTime)
				e.NextArrival()
				e.FleetStatistics()
			}
		}()

		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				arrival := "08:00"
				if (n+j)%2 == 0 {
					arrival = "10:30"
				}
				e.UpdateArrival(3, arrival)
			}
		}(i)
	}
	wg.Wait()

	next, ok := e.NextArrival()
	require.True(t, ok)
	assert.Equal(t, 3, next.ID)
}
