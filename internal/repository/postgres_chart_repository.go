package repository

import (
	"context"
	"errors"
	"fmt"

	"chartsnap-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresChartRepository stores version and image records in Postgres.
// Ids come from the injected generator and timestamps from the injected
// clock, so record creation stays deterministic under test.
type PostgresChartRepository struct {
	pool  *pgxpool.Pool
	ids   domain.IDGenerator
	clock domain.Clock
}

func NewPostgresChartRepository(pool *pgxpool.Pool, ids domain.IDGenerator, clock domain.Clock) *PostgresChartRepository {
	return &PostgresChartRepository{pool: pool, ids: ids, clock: clock}
}

func (r *PostgresChartRepository) CreateVersion(ctx context.Context, source domain.Source, coinCount int) (domain.VersionRecord, error) {
	v := domain.VersionRecord{
		ID:        r.ids.GenerateID(),
		Source:    source,
		CreatedAt: r.clock.Now().UTC(),
		CoinCount: coinCount,
	}

	_, err := r.pool.Exec(ctx, `
		insert into versions(id, source, created_at, coin_count)
		values ($1, $2, $3, $4)
	`, v.ID, string(v.Source), v.CreatedAt, v.CoinCount)
	if err != nil {
		return domain.VersionRecord{}, fmt.Errorf("insert version: %w", err)
	}
	return v, nil
}

func (r *PostgresChartRepository) InsertImage(ctx context.Context, img domain.NewImage) (domain.ImageRecord, error) {
	rec := domain.ImageRecord{
		ID:         r.ids.GenerateID(),
		VersionID:  img.VersionID,
		Type:       img.Type,
		Pair:       img.Pair,
		CapturedAt: r.clock.Now().UTC(),
		Path:       img.Path,
		ThumbPath:  img.ThumbPath,
	}

	var thumb *string
	if rec.ThumbPath != "" {
		thumb = &rec.ThumbPath
	}

	_, err := r.pool.Exec(ctx, `
		insert into images(id, version_id, type, pair, captured_at, path, thumb_path)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ID, rec.VersionID, string(rec.Type), string(rec.Pair), rec.CapturedAt, rec.Path, thumb)
	if err != nil {
		return domain.ImageRecord{}, fmt.Errorf("insert image: %w", err)
	}
	return rec, nil
}

func (r *PostgresChartRepository) GetVersion(ctx context.Context, id string) (domain.VersionRecord, error) {
	row := r.pool.QueryRow(ctx, `
		select id, source, created_at, coin_count
		from versions
		where id = $1
	`, id)

	var v domain.VersionRecord
	if err := row.Scan(&v.ID, &v.Source, &v.CreatedAt, &v.CoinCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VersionRecord{}, fmt.Errorf("version not found: %s", id)
		}
		return domain.VersionRecord{}, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

func (r *PostgresChartRepository) ListVersions(ctx context.Context, limit, offset int) ([]domain.VersionRecord, error) {
	rows, err := r.pool.Query(ctx, `
		select id, source, created_at, coin_count
		from versions
		order by created_at desc
		limit $1 offset $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var out []domain.VersionRecord
	for rows.Next() {
		var v domain.VersionRecord
		if err := rows.Scan(&v.ID, &v.Source, &v.CreatedAt, &v.CoinCount); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresChartRepository) ListImagesByVersion(ctx context.Context, versionID string) ([]domain.ImageRecord, error) {
	rows, err := r.pool.Query(ctx, `
		select id, version_id, type, pair, captured_at, path, thumb_path
		from images
		where version_id = $1
		order by captured_at asc, id asc
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var out []domain.ImageRecord
	for rows.Next() {
		var img domain.ImageRecord
		var thumb *string
		if err := rows.Scan(&img.ID, &img.VersionID, &img.Type, &img.Pair, &img.CapturedAt, &img.Path, &thumb); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		if thumb != nil {
			img.ThumbPath = *thumb
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// compile-time checks
var (
	_ domain.Persistence  = (*PostgresChartRepository)(nil)
	_ domain.VersionQuery = (*PostgresChartRepository)(nil)
)
