package datastore

import (
	"context"

	"github.com/travigo/transitops/pkg/config"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/engine"
)

func PathsFromConfig(data config.DataConfig) Paths {
	return Paths{
		Routes:   data.RoutesPath(),
		Fleet:    data.FleetPath(),
		Tickets:  data.TicketsPath(),
		StopsCSV: data.StopsCSVPath(),
	}
}

// FileStore persists engine snapshots to the data files it was loaded from.
type FileStore struct {
	Paths Paths
}

func (s *FileStore) Save(snapshot engine.Snapshot) error {
	return Save(s.Paths, snapshot.Fleet, snapshot.Ledger)
}

// Catalogue rereads the route catalogue, with stop coordinates merged in.
func (s *FileStore) Catalogue(ctx context.Context) (ctdf.Catalogue, error) {
	var catalogue ctdf.Catalogue
	if err := readCatalogue(s.Paths.Routes, &catalogue); err != nil {
		return ctdf.Catalogue{}, err
	}

	if s.Paths.StopsCSV != "" {
		if _, err := ImportStopCoordinates(s.Paths.StopsCSV, &catalogue); err != nil {
			return ctdf.Catalogue{}, err
		}
	}

	return catalogue, nil
}

// Open loads the configured data files into a new engine.
func Open(ctx context.Context, cfg config.Config) (*engine.Engine, *FileStore, error) {
	store := &FileStore{Paths: PathsFromConfig(cfg.Data)}

	documents, err := Load(ctx, store.Paths)
	if err != nil {
		return nil, nil, err
	}

	transitEngine := engine.New(cfg.EngineOptions())
	if err := transitEngine.Load(documents.Catalogue, documents.Fleet, documents.Ledger); err != nil {
		return nil, nil, err
	}

	return transitEngine, store, nil
}
