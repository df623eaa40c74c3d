package datastore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/transitops/pkg/config"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/networkgraph"
)

const routesJSON = `{
  "routes": [
    {
      "route_id": "R1",
      "route_name": "City Loop",
      "stops": [
        {"stop_name": "A", "location": "Central"},
        {"stop_name": "B", "distance_from_previous": 4.5},
        {"stop_name": "C", "distance_from_previous": "2"}
      ]
    }
  ]
}`

const routesYAML = `routes:
  - route_id: R1
    route_name: City Loop
    headway_minutes: PT20M
    stops:
      - stop_name: A
      - stop_name: B
        distance_from_previous: 3
`

func write(t *testing.T, dir string, name string, contents string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func TestLoadMissingOptionalFiles(t *testing.T) {
	dir := t.TempDir()

	documents, err := Load(context.Background(), Paths{
		Routes:  write(t, dir, "routes.json", routesJSON),
		Fleet:   filepath.Join(dir, "buses.json"),
		Tickets: filepath.Join(dir, "tickets.json"),
	})
	require.NoError(t, err)

	require.Len(t, documents.Catalogue.Routes, 1)
	assert.Equal(t, []string{"A", "B", "C"}, documents.Catalogue.Routes[0].StopNames())
	assert.Empty(t, documents.Fleet)
	assert.Empty(t, documents.Ledger.Tickets)
}

func TestLoadMissingRoutes(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(context.Background(), Paths{Routes: filepath.Join(dir, "routes.json")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedFleet(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(context.Background(), Paths{
		Routes: write(t, dir, "routes.json", routesJSON),
		Fleet:  write(t, dir, "buses.json", `{"id": 1`),
	})
	assert.Error(t, err)
}

func TestLoadYAMLAndBareList(t *testing.T) {
	dir := t.TempDir()

	documents, err := Load(context.Background(), Paths{Routes: write(t, dir, "routes.yaml", routesYAML)})
	require.NoError(t, err)
	require.Len(t, documents.Catalogue.Routes, 1)
	assert.Equal(t, 20, documents.Catalogue.Routes[0].HeadwayMinutes.Minutes)

	documents, err = Load(context.Background(), Paths{Routes: write(t, dir, "list.json", `[{"route_id": "R9", "stops": []}]`)})
	require.NoError(t, err)
	assert.Equal(t, "R9", documents.Catalogue.Routes[0].RouteID)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Routes:  write(t, dir, "routes.json", routesJSON),
		Fleet:   filepath.Join(dir, "nested", "buses.json"),
		Tickets: filepath.Join(dir, "tickets.json"),
	}

	fleet := ctdf.FleetSnapshot{{ID: 3, BusNumber: "B3", Capacity: 40, Status: ctdf.VehicleStatusActive}}
	ledger := ctdf.LedgerSnapshot{
		NextID:  1002,
		Tickets: []ctdf.Ticket{{TicketID: "TKT001001", VehicleID: 3, SeatNumber: 1, Status: ctdf.TicketStatusConfirmed}},
	}

	require.NoError(t, Save(paths, fleet, ledger))

	documents, err := Load(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, fleet, documents.Fleet)
	assert.Equal(t, 1002, documents.Ledger.NextID)
	assert.Equal(t, "TKT001001", documents.Ledger.Tickets[0].TicketID)

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveEmptyFleetWritesList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buses.json")
	require.NoError(t, SaveFleet(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestImportStopCoordinates(t *testing.T) {
	dir := t.TempDir()
	csvPath := write(t, dir, "stops.csv", "stop_name,location,latitude,longitude\nA,Old Town,51.5,-0.12\n,Nowhere,1,1\nB,Riverside,51.6,-0.2\nZ,Elsewhere,50,0\n")

	documents, err := Load(context.Background(), Paths{
		Routes:   write(t, dir, "routes.json", routesJSON),
		StopsCSV: csvPath,
	})
	require.NoError(t, err)

	stops := documents.Catalogue.Routes[0].Stops
	require.NotNil(t, stops[0].Latitude)
	assert.Equal(t, 51.5, *stops[0].Latitude)
	assert.Equal(t, "Central", stops[0].Location)
	assert.Equal(t, -0.2, *stops[1].Longitude)
	assert.Equal(t, "Riverside", stops[1].Location)
	assert.Nil(t, stops[2].Latitude)
}

func TestParseStopCoordinatesDropsBlankNames(t *testing.T) {
	records, err := parseStopCoordinates(strings.NewReader("stop_name,latitude,longitude\n,1,2\nA,3,4\n"))
	require.NoError(t, err)

	assert.Equal(t, []stopCoordinateRecord{{StopName: "A", Latitude: 3, Longitude: 4}}, records)
}

func TestOpenAndFileStore(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "routes.json", routesJSON)
	write(t, dir, "buses.json", `[{"id": 1, "bus_number": "B1", "capacity": 40, "status": "active", "route_id": "R1", "next_arrival": "07:30"}]`)

	cfg := config.Default()
	cfg.Data.Directory = dir

	transitEngine, store, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	plan, err := transitEngine.ShortestPath("A", "C", networkgraph.CriteriaDistance)
	require.NoError(t, err)
	assert.Equal(t, 6.5, plan.TotalDistance)

	require.NoError(t, store.Save(transitEngine.Snapshot()))
	_, err = os.Stat(filepath.Join(dir, "tickets.json"))
	assert.NoError(t, err)

	write(t, dir, "routes.json", `[{"route_id": "R2", "stops": [{"stop_name": "X"}, {"stop_name": "Y"}]}]`)
	catalogue, err := store.Catalogue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "R2", catalogue.Routes[0].RouteID)
}
