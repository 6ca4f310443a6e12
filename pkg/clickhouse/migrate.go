package clickhouse

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Migration is one schema step. Versions must be unique and are applied in
// ascending order, each at most once.
type Migration struct {
	Version uint32
	Name    string
	Up      []string
}

const migrationsTable = `
    CREATE TABLE IF NOT EXISTS schema_migrations (
        version    UInt32,
        name       String,
        applied_at DateTime('UTC')
    ) ENGINE = MergeTree
    ORDER BY version`

// Migrate applies the migrations not yet recorded in schema_migrations and
// returns how many ran. ClickHouse has no transactional DDL, so statements
// inside a migration should be idempotent: a failed step is retried whole.
func (c *Client) Migrate(ctx context.Context, migrations []Migration) (int, error) {
	if _, err := c.db.ExecContext(ctx, migrationsTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := c.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })

	for i, m := range pending {
		for _, stmt := range m.Up {
			if _, err := c.db.ExecContext(ctx, stmt); err != nil {
				return i, fmt.Errorf("migration %d %s: %w", m.Version, m.Name, err)
			}
		}
		if _, err := c.db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
			m.Version, m.Name, time.Now().UTC(),
		); err != nil {
			return i, fmt.Errorf("record migration %d: %w", m.Version, err)
		}
	}
	return len(pending), nil
}

func (c *Client) appliedVersions(ctx context.Context) (map[uint32]bool, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[uint32]bool)
	for rows.Next() {
		var v uint32
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		out[v] = true
	}
	return out, rows.Err()
}
