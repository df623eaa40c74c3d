package datastore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/util"
)

type stopCoordinateRecord struct {
	StopName  string  `csv:"stop_name"`
	Location  string  `csv:"location"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
}

// ImportStopCoordinates fills stop coordinates (and empty locations) in the catalogue from
// a stop_name,location,latitude,longitude CSV file. Returns how many route stops changed.
func ImportStopCoordinates(path string, catalogue *ctdf.Catalogue) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open stops %s: %w", path, err)
	}
	defer file.Close()

	records, err := parseStopCoordinates(file)
	if err != nil {
		return 0, fmt.Errorf("parse stops %s: %w", path, err)
	}

	return applyStopCoordinates(records, catalogue), nil
}

func parseStopCoordinates(reader io.Reader) ([]stopCoordinateRecord, error) {
	var records []stopCoordinateRecord

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	if err := gocsv.UnmarshalCSV(csvReader, &records); err != nil {
		return nil, err
	}

	blank := util.InPlaceFilter(&records, func(record stopCoordinateRecord) bool {
		return strings.TrimSpace(record.StopName) != ""
	})
	if blank > 0 {
		log.Warn().Int("rows", blank).Msg("Skipped stop coordinate rows without a stop name")
	}

	return records, nil
}

func applyStopCoordinates(records []stopCoordinateRecord, catalogue *ctdf.Catalogue) int {
	byName := map[string]stopCoordinateRecord{}
	for _, record := range records {
		byName[strings.TrimSpace(record.StopName)] = record
	}

	updated := 0
	for i := range catalogue.Routes {
		for j := range catalogue.Routes[i].Stops {
			stop := &catalogue.Routes[i].Stops[j]

			record, ok := byName[stop.StopName]
			if !ok {
				continue
			}

			latitude := record.Latitude
			longitude := record.Longitude
			stop.Latitude = &latitude
			stop.Longitude = &longitude

			if stop.Location == "" {
				stop.Location = record.Location
			}

			updated++
		}
	}

	return updated
}
