package service

import (
	"context"

	"github.com/jask/fraudscope/internal/table"
)

// RecordLoader yields the dataset. ingest.Loader implements it.
type RecordLoader interface {
	Load(ctx context.Context) ([]table.Record, error)
}

// DatasetService fills the record store from the configured source.
type DatasetService struct {
	Loader  RecordLoader
	Store   *table.Store
	Options table.Options
}

// Load replaces the store's contents. On failure the store is left as it
// was.
func (s *DatasetService) Load(ctx context.Context) error {
	recs, err := s.Loader.Load(ctx)
	if err != nil {
		return err
	}
	s.Store.Load(recs)
	return nil
}

// Session starts a table session over the store.
func (s *DatasetService) Session() *table.Session {
	return table.NewSession(s.Store, s.Options)
}
