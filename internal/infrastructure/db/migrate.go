package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the two tables this app needs. Keeps setup simple (no
// external migration tool), but still gives persistence.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists versions (
			id text primary key,
			source text not null,
			created_at timestamptz not null,
			coin_count int not null
		);`,
		`create table if not exists images (
			id text primary key,
			version_id text not null references versions(id),
			type text not null,
			pair text not null,
			captured_at timestamptz not null,
			path text not null,
			thumb_path text null
		);`,
		`create index if not exists images_version_id_idx on images(version_id);`,
		`create index if not exists versions_created_at_idx on versions(created_at desc);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
