package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/transitops/pkg/api/routes"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/engine"
	"github.com/travigo/transitops/pkg/events"
)

type memoryStore struct {
	saves     int
	last      engine.Snapshot
	catalogue ctdf.Catalogue
}

func (s *memoryStore) Save(snapshot engine.Snapshot) error {
	s.saves++
	s.last = snapshot
	return nil
}

func (s *memoryStore) Catalogue(context.Context) (ctdf.Catalogue, error) {
	return s.catalogue, nil
}

type recordingNotifier struct {
	events []events.Event
}

func (n *recordingNotifier) Publish(event events.Event) error {
	n.events = append(n.events, event)
	return nil
}

type invalidatingPlanner struct {
	routes.EnginePlanner
	invalidations int
}

func (p *invalidatingPlanner) Invalidate(context.Context) (int, error) {
	p.invalidations++
	return 0, nil
}

type fixture struct {
	app      *fiber.App
	store    *memoryStore
	notifier *recordingNotifier
	planner  *invalidatingPlanner
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

func newFixture(t *testing.T) *fixture {
	options := engine.DefaultOptions()
	options.Now = func() time.Time {
		return time.Date(2024, time.January, 1, 7, 20, 0, 0, time.UTC)
	}

	transitEngine := engine.New(options)
	require.NoError(t, transitEngine.Load(
		testCatalogue(),
		ctdf.FleetSnapshot{
			{ID: 3, BusNumber: "B3", DriverName: "Grace", Capacity: 2, RouteID: "R1", NextArrival: "09:00"},
		},
		ctdf.LedgerSnapshot{
			Passengers: []ctdf.PassengerRecord{{PassengerID: "0a1b2c3d", FullName: "Ada Lovelace", Email: "ada@example.com"}},
		},
	))

	f := &fixture{
		store:    &memoryStore{},
		notifier: &recordingNotifier{},
		planner:  &invalidatingPlanner{EnginePlanner: routes.EnginePlanner{Engine: transitEngine}},
	}

	f.app = NewApp(&routes.Services{
		Engine:  transitEngine,
		Planner: f.planner,
		Events:  f.notifier,
		Store:   f.store,
	})

	return f
}

func (f *fixture) request(t *testing.T, method string, target string, body any) (int, map[string]any) {
	status, raw := f.requestRaw(t, method, target, body)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}

	return status, decoded
}

func (f *fixture) requestList(t *testing.T, method string, target string) (int, []map[string]any) {
	status, raw := f.requestRaw(t, method, target, nil)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))

	return status, decoded
}

func (f *fixture) requestRaw(t *testing.T, method string, target string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw
}

func TestVersion(t *testing.T) {
	f := newFixture(t)

	status, body := f.request(t, http.MethodGet, "/core/version", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "v1.0", body["version"])
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)

	status, _ := f.requestRaw(t, http.MethodGet, "/core/nothing/here", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestVehicles(t *testing.T) {
	f := newFixture(t)

	status, body := f.request(t, http.MethodGet, "/core/vehicles/3", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "B3", body["bus_number"])
	assert.NotContains(t, body, "driver_name")

	_, body = f.request(t, http.MethodGet, "/core/vehicles/3?detailed=true", nil)
	assert.Equal(t, "Grace", body["driver_name"])

	status, body = f.request(t, http.MethodGet, "/core/vehicles/99", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "VehicleNotFound", body["reason"])

	status, _ = f.request(t, http.MethodGet, "/core/vehicles/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = f.request(t, http.MethodPost, "/core/vehicles", map[string]any{
		"bus_number": "B4",
		"capacity":   30,
		"route_id":   "R1",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 4.0, body["id"])
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, 1, f.store.saves)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, events.EventTypeVehicleUpdated, f.notifier.events[0].Type)

	status, body = f.request(t, http.MethodPut, "/core/vehicles/4", map[string]any{"capacity": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidVehicle", body["reason"])

	status, body = f.request(t, http.MethodPut, "/core/vehicles/4", map[string]any{"current_passengers": 10})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 10.0, body["current_passengers"])

	status, body = f.request(t, http.MethodPost, "/core/vehicles/4/allocate", map[string]any{"route_id": "R9"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "RouteNotFound", body["reason"])

	status, _ = f.request(t, http.MethodPost, "/core/vehicles/4/allocate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = f.request(t, http.MethodPost, "/core/vehicles/4/arrival", map[string]any{"next_arrival": "25:99"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidTime", body["reason"])

	status, body = f.request(t, http.MethodPost, "/core/vehicles/4/arrival", map[string]any{"next_arrival": "06:45"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "06:45", body["next_arrival"])

	_, body = f.request(t, http.MethodGet, "/core/vehicles/next_arrival", nil)
	assert.Equal(t, 4.0, body["id"])

	status, _ = f.request(t, http.MethodPost, "/core/vehicles/4/position", map[string]any{"latitude": 95.0, "longitude": 0.1})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = f.request(t, http.MethodPost, "/core/vehicles/4/position?detailed=true", map[string]any{"latitude": 51.5, "longitude": -0.1, "stop_index": 1})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 51.5, body["current_lat"])
	assert.Equal(t, 1.0, body["current_stop_index"])

	status, list := f.requestList(t, http.MethodGet, "/core/vehicles?query=Capacity+%3E+10")
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "B4", list[0]["bus_number"])

	status, _ = f.request(t, http.MethodGet, "/core/vehicles?status=parked", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	_, body = f.request(t, http.MethodGet, "/core/vehicles/statistics", nil)
	assert.Equal(t, 2.0, body["total_buses"])
	assert.Equal(t, 32.0, body["total_capacity"])

	status, _ = f.requestRaw(t, http.MethodDelete, "/core/vehicles/4", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = f.requestRaw(t, http.MethodDelete, "/core/vehicles/4", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPassengers(t *testing.T) {
	f := newFixture(t)

	status, body := f.request(t, http.MethodPost, "/core/passengers", map[string]any{
		"full_name": "Grace Hopper",
		"email":     "grace@example.com",
	})
	require.Equal(t, http.StatusCreated, status)
	id := body["passenger_id"].(string)
	assert.Len(t, id, 8)

	status, body = f.request(t, http.MethodGet, "/core/passengers/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Grace Hopper", body["full_name"])

	status, _ = f.request(t, http.MethodPost, "/core/passengers", map[string]any{"full_name": "No Mail", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.request(t, http.MethodPost, "/core/passengers", map[string]any{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = f.request(t, http.MethodGet, "/core/passengers/ffffffff/history", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "PassengerNotFound", body["reason"])
}

func TestPlanner(t *testing.T) {
	f := newFixture(t)

	status, body := f.request(t, http.MethodGet, "/core/planner/A/C?criteria=distance", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 8.0, body["total_distance"])
	assert.Equal(t, []any{"A", "B", "C"}, body["path"])

	status, body = f.request(t, http.MethodGet, "/core/planner/A/C?criteria=scenic", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidCriteria", body["reason"])

	status, body = f.request(t, http.MethodGet, "/core/planner/A/Z", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "UnknownStop", body["reason"])

	status, body = f.request(t, http.MethodGet, "/core/planner/nearest?location=charlie", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "C", body["stop"])
	assert.Equal(t, 2.0, body["hops"])

	status, _ = f.request(t, http.MethodGet, "/core/planner/nearest", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.request(t, http.MethodGet, "/core/planner/closest?lat=51.5&lng=-0.1", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = f.request(t, http.MethodGet, "/core/planner/paths/A", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["count"])
}

func TestNetwork(t *testing.T) {
	f := newFixture(t)

	status, list := f.requestList(t, http.MethodGet, "/core/network/stops")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 3)

	status, body := f.request(t, http.MethodGet, "/core/network/routes/R1", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Harbour Line", body["route_name"])

	_, body = f.request(t, http.MethodGet, "/core/network/cycle", nil)
	assert.Equal(t, false, body["has_cycle"])

	f.store.catalogue = testCatalogue()
	f.store.catalogue.Routes = append(f.store.catalogue.Routes, ctdf.Route{
		RouteID: "R2",
		Stops:   []ctdf.RouteStop{{StopName: "C"}, {StopName: "D"}},
	})

	status, body = f.request(t, http.MethodPost, "/core/network/reload", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["routes"])
	assert.Equal(t, 4.0, body["stops"])
	assert.Equal(t, 1, f.planner.invalidations)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, events.EventTypeNetworkReloaded, f.notifier.events[0].Type)

	_, body = f.request(t, http.MethodGet, "/core/network/transfers/R1/R2", nil)
	assert.Equal(t, []any{"C"}, body["transfer_points"])
}

func TestBookings(t *testing.T) {
	f := newFixture(t)

	request := map[string]any{
		"passenger_id": "0a1b2c3d",
		"vehicle_id":   3,
		"from_stop":    "A",
		"to_stop":      "C",
		"travel_date":  "2024-01-01",
	}

	status, list := f.requestRaw(t, http.MethodPost, "/core/bookings/available", map[string]any{"from_stop": "A", "to_stop": "C", "travel_date": "2024-01-01"})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(list), `"departure_time":"07:30"`)

	status, body := f.request(t, http.MethodPost, "/core/bookings", request)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "TKT001000", body["ticket_id"])
	assert.Equal(t, "07:30", body["departure_time"])
	assert.Equal(t, "07:50", body["arrival_time"])
	assert.Equal(t, 70.0, body["fare"])
	assert.Equal(t, 1.0, body["seat_number"])

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, events.EventTypeTicketBooked, f.notifier.events[0].Type)
	assert.Equal(t, "TKT001000", f.notifier.events[0].Ticket.TicketID)
	assert.Equal(t, 1, f.store.saves)
	assert.Len(t, f.store.last.Ledger.Tickets, 1)

	status, _ = f.request(t, http.MethodPost, "/core/bookings", map[string]any{"passenger_id": "0a1b2c3d", "vehicle_id": 3, "from_stop": "A", "to_stop": "A", "travel_date": "2024-01-01"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.request(t, http.MethodPost, "/core/bookings", map[string]any{"passenger_id": "0a1b2c3d", "vehicle_id": 3, "from_stop": "A", "to_stop": "C", "travel_date": "01/01/2024"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = f.request(t, http.MethodPost, "/core/bookings", request)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 2.0, body["seat_number"])

	status, body = f.request(t, http.MethodPost, "/core/bookings", request)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NoSeatsAvailable", body["reason"])
	assert.Equal(t, 2, f.store.saves)

	status, body = f.request(t, http.MethodGet, "/core/bookings/TKT001000?detailed=true", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "paid", body["payment_status"])

	status, body = f.request(t, http.MethodPost, "/core/bookings/TKT001000/cancel", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cancelled", body["status"])
	assert.Equal(t, events.EventTypeTicketCancelled, f.notifier.events[len(f.notifier.events)-1].Type)

	status, body = f.request(t, http.MethodPost, "/core/bookings/TKT001000/cancel", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "AlreadyCancelled", body["reason"])

	status, _ = f.request(t, http.MethodGet, "/core/bookings/TKT999999", nil)
	assert.Equal(t, http.StatusNotFound, status)

	_, body = f.request(t, http.MethodGet, "/core/bookings/priority", nil)
	assert.Equal(t, "TKT001001", body["ticket_id"])

	_, recent := f.requestList(t, http.MethodGet, "/core/bookings/recent?count=1")
	require.Len(t, recent, 1)
	assert.Equal(t, "TKT001001", recent[0]["ticket_id"])

	_, byDate := f.requestList(t, http.MethodGet, "/core/bookings/date/2024-01-01")
	assert.Len(t, byDate, 2)

	_, history := f.requestList(t, http.MethodGet, "/core/passengers/0a1b2c3d/history")
	assert.Len(t, history, 2)

	_, body = f.request(t, http.MethodGet, "/core/bookings/statistics", nil)
	assert.Equal(t, 2.0, body["total_tickets"])
	assert.Equal(t, 1.0, body["active_tickets"])
	assert.Equal(t, 70.0, body["total_revenue"])

	_, body = f.request(t, http.MethodGet, "/core/stats", nil)
	assert.Contains(t, body, "fleet")
	assert.Contains(t, body, "bookings")

	savesBeforePop := f.store.saves
	_, body = f.request(t, http.MethodPost, "/core/bookings/priority/pop", nil)
	assert.Equal(t, "TKT001001", body["ticket_id"])
	_, body = f.request(t, http.MethodPost, "/core/bookings/priority/pop", nil)
	assert.Equal(t, "TKT001000", body["ticket_id"])
	assert.Equal(t, savesBeforePop+2, f.store.saves)

	require.Len(t, f.store.last.Ledger.Tickets, 2)
	for _, ticket := range f.store.last.Ledger.Tickets {
		assert.True(t, ticket.Dequeued, ticket.TicketID)
	}
	status, _ = f.request(t, http.MethodPost, "/core/bookings/priority/pop", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
