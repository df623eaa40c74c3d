package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/transitops/pkg/ctdf"
	"gopkg.in/yaml.v3"
)

type Paths struct {
	Routes   string
	Fleet    string
	Tickets  string
	StopsCSV string
}

// Documents is everything the engine is loaded from.
type Documents struct {
	Catalogue ctdf.Catalogue
	Fleet     ctdf.FleetSnapshot
	Ledger    ctdf.LedgerSnapshot
}

// Load reads the route catalogue, fleet and ticket ledger concurrently.
// The catalogue must exist, a missing fleet or ledger file loads as empty.
func Load(ctx context.Context, paths Paths) (*Documents, error) {
	documents := &Documents{}

	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		return readCatalogue(paths.Routes, &documents.Catalogue)
	})
	p.Go(func(ctx context.Context) error {
		return readOptionalJSON(paths.Fleet, &documents.Fleet)
	})
	p.Go(func(ctx context.Context) error {
		return readOptionalJSON(paths.Tickets, &documents.Ledger)
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	if paths.StopsCSV != "" {
		updated, err := ImportStopCoordinates(paths.StopsCSV, &documents.Catalogue)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", paths.StopsCSV).Int("stops", updated).Msg("Imported stop coordinates")
	}

	log.Info().
		Int("routes", len(documents.Catalogue.Routes)).
		Int("vehicles", len(documents.Fleet)).
		Int("tickets", len(documents.Ledger.Tickets)).
		Msg("Loaded data files")

	return documents, nil
}

func readCatalogue(path string, catalogue *ctdf.Catalogue) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read routes %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, catalogue)
	default:
		// Accept a bare list of routes as well as the wrapped document
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			err = json.Unmarshal(data, &catalogue.Routes)
		} else {
			err = json.Unmarshal(data, catalogue)
		}
	}
	if err != nil {
		return fmt.Errorf("parse routes %s: %w", path, err)
	}

	return nil
}

func readOptionalJSON(path string, destination any) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("Data file missing, starting empty")
		return nil
	} else if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, destination); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

func SaveFleet(path string, fleet ctdf.FleetSnapshot) error {
	if fleet == nil {
		fleet = ctdf.FleetSnapshot{}
	}

	return writeJSON(path, fleet)
}

func SaveLedger(path string, ledger ctdf.LedgerSnapshot) error {
	if ledger.Tickets == nil {
		ledger.Tickets = []ctdf.Ticket{}
	}

	return writeJSON(path, ledger)
}

func SaveCatalogue(path string, catalogue ctdf.Catalogue) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(catalogue)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return writeFile(path, data)
	default:
		return writeJSON(path, catalogue)
	}
}

// Save persists the fleet and ledger, the catalogue is left alone.
func Save(paths Paths, fleet ctdf.FleetSnapshot, ledger ctdf.LedgerSnapshot) error {
	if err := SaveFleet(paths.Fleet, fleet); err != nil {
		return err
	}

	return SaveLedger(paths.Tickets, ledger)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return writeFile(path, data)
}

// writeFile replaces path atomically through a temporary file in the same directory
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
