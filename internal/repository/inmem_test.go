package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartsnap-backend/internal/domain"
)

type seqIDs struct{ n int }

func (g *seqIDs) GenerateID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newRepo() *InMemoryChartRepository {
	return NewInMemoryChartRepository(&seqIDs{}, fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})
}

func TestCreateVersionAssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	v, err := r.CreateVersion(ctx, domain.SourceBoth, 5)
	require.NoError(t, err)
	assert.Equal(t, "id-1", v.ID)
	assert.Equal(t, domain.SourceBoth, v.Source)
	assert.Equal(t, 5, v.CoinCount)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), v.CreatedAt)

	got, err := r.GetVersion(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestGetVersionNotFound(t *testing.T) {
	r := newRepo()
	_, err := r.GetVersion(context.Background(), "missing")
	require.Error(t, err)
}

func TestInsertImageReferencesVersion(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	v, err := r.CreateVersion(ctx, domain.SourceCMC, 1)
	require.NoError(t, err)

	img, err := r.InsertImage(ctx, domain.NewImage{
		VersionID: v.ID,
		Type:      domain.ImageTypeFull,
		Pair:      "BTCUSDT",
		Path:      "screens/" + v.ID + "/BTCUSDT/full.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-2", img.ID)
	assert.Equal(t, v.ID, img.VersionID)
	assert.Empty(t, img.ThumbPath)

	images, err := r.ListImagesByVersion(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, img, images[0])
}

func TestListImagesKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	v, err := r.CreateVersion(ctx, domain.SourceBoth, 2)
	require.NoError(t, err)

	for _, p := range []domain.CanonicalPair{"BTCUSDT", "ETHUSDT"} {
		for _, tp := range []domain.ImageType{domain.ImageTypeFull, domain.ImageTypeAnon} {
			_, err := r.InsertImage(ctx, domain.NewImage{VersionID: v.ID, Type: tp, Pair: p, Path: "x"})
			require.NoError(t, err)
		}
	}

	images, err := r.ListImagesByVersion(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, images, 4)
	assert.Equal(t, domain.CanonicalPair("BTCUSDT"), images[0].Pair)
	assert.Equal(t, domain.ImageTypeFull, images[0].Type)
	assert.Equal(t, domain.CanonicalPair("ETHUSDT"), images[3].Pair)
	assert.Equal(t, domain.ImageTypeAnon, images[3].Type)
}

func TestListVersionsNewestFirstWithPagination(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	for i := 0; i < 5; i++ {
		_, err := r.CreateVersion(ctx, domain.SourceCoinGecko, i)
		require.NoError(t, err)
	}

	page, err := r.ListVersions(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "id-5", page[0].ID)
	assert.Equal(t, "id-4", page[1].ID)

	page, err = r.ListVersions(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "id-1", page[0].ID)
}
