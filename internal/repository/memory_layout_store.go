package repository

import (
	"context"
	"sort"
	"sync"

	"AstroCore/internal/domain/models"
	domrepo "AstroCore/internal/domain/repository"
)

// MemoryLayoutStore keeps layouts in process. Rows with the same date, place
// and system replace each other, as in the ClickHouse table.
type MemoryLayoutStore struct {
	mu   sync.RWMutex
	rows map[layoutKey]models.StoredLayout
}

type layoutKey struct {
	system    models.HouseSystem
	latitude  float64
	longitude float64
	unixMilli int64
}

func NewMemoryLayoutStore() *MemoryLayoutStore {
	return &MemoryLayoutStore{rows: make(map[layoutKey]models.StoredLayout)}
}

func (s *MemoryLayoutStore) Save(_ context.Context, l models.StoredLayout) error {
	k := layoutKey{l.System, l.Latitude, l.Longitude, l.Layout.Date.UnixMilli()}
	s.mu.Lock()
	s.rows[k] = l
	s.mu.Unlock()
	return nil
}

func (s *MemoryLayoutStore) History(_ context.Context, q models.HistoryQuery) ([]models.StoredLayout, error) {
	q = normalizeQuery(q)

	s.mu.RLock()
	out := make([]models.StoredLayout, 0)
	for k, v := range s.rows {
		if k.system != q.System || k.latitude != q.Latitude || k.longitude != q.Longitude {
			continue
		}
		d := v.Layout.Date
		if d.Before(q.From) || d.After(q.To) {
			continue
		}
		out = append(out, v)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Layout.Date.After(out[j].Layout.Date)
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryLayoutStore) Health(context.Context) error { return nil }

func (s *MemoryLayoutStore) Close() error { return nil }

var _ domrepo.LayoutStore = (*MemoryLayoutStore)(nil)
