package repository

import (
	"context"
	"fmt"
	"sync"

	"chartsnap-backend/internal/domain"
)

// InMemoryChartRepository keeps versions and images in process memory. Used
// as the test double behind the persistence ports and as the fallback when
// no database is configured.
type InMemoryChartRepository struct {
	ids   domain.IDGenerator
	clock domain.Clock

	mu       sync.RWMutex
	versions []domain.VersionRecord
	images   []domain.ImageRecord
}

func NewInMemoryChartRepository(ids domain.IDGenerator, clock domain.Clock) *InMemoryChartRepository {
	return &InMemoryChartRepository{ids: ids, clock: clock}
}

func (r *InMemoryChartRepository) CreateVersion(_ context.Context, source domain.Source, coinCount int) (domain.VersionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := domain.VersionRecord{
		ID:        r.ids.GenerateID(),
		Source:    source,
		CreatedAt: r.clock.Now().UTC(),
		CoinCount: coinCount,
	}
	r.versions = append(r.versions, v)
	return v, nil
}

func (r *InMemoryChartRepository) InsertImage(_ context.Context, img domain.NewImage) (domain.ImageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := domain.ImageRecord{
		ID:         r.ids.GenerateID(),
		VersionID:  img.VersionID,
		Type:       img.Type,
		Pair:       img.Pair,
		CapturedAt: r.clock.Now().UTC(),
		Path:       img.Path,
		ThumbPath:  img.ThumbPath,
	}
	r.images = append(r.images, rec)
	return rec, nil
}

func (r *InMemoryChartRepository) GetVersion(_ context.Context, id string) (domain.VersionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.versions {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.VersionRecord{}, fmt.Errorf("version not found: %s", id)
}

// ListVersions returns versions newest first.
func (r *InMemoryChartRepository) ListVersions(_ context.Context, limit, offset int) ([]domain.VersionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.VersionRecord, 0, limit)
	for i := len(r.versions) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.versions[i])
	}
	return out, nil
}

// ListImagesByVersion returns images in insertion order.
func (r *InMemoryChartRepository) ListImagesByVersion(_ context.Context, versionID string) ([]domain.ImageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.ImageRecord
	for _, img := range r.images {
		if img.VersionID == versionID {
			out = append(out, img)
		}
	}
	return out, nil
}

// compile-time checks
var (
	_ domain.Persistence  = (*InMemoryChartRepository)(nil)
	_ domain.VersionQuery = (*InMemoryChartRepository)(nil)
)
