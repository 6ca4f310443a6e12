package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"AstroCore/internal/domain/models"
	domrepo "AstroCore/internal/domain/repository"
	pkgch "AstroCore/pkg/clickhouse"
	applogger "AstroCore/pkg/logger"
)

// LayoutMigrations create the layout table.
var LayoutMigrations = []pkgch.Migration{{
	Version: 1,
	Name:    "house_layouts",
	Up: []string{
		`CREATE DATABASE IF NOT EXISTS astro`,
		`CREATE TABLE IF NOT EXISTS astro.house_layouts (
        date        DateTime64(3, 'UTC'),
        latitude    Float64,
        longitude   Float64,
        system      LowCardinality(String),
        ascendent   Float64,
        mid_heaven  Float64,
        cusps       Array(Float64),
        computed_at DateTime('UTC')
    ) ENGINE = ReplacingMergeTree(computed_at)
    ORDER BY (system, latitude, longitude, date)`,
	},
}}

// CHLayoutStore implements LayoutStore backed by ClickHouse.
type CHLayoutStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

func NewCHLayoutStore(ch *pkgch.Client, l *applogger.Logger) *CHLayoutStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHLayoutStore{ch: ch, db: ch.DB(), l: l}
}

// Init brings the schema up to date.
func (s *CHLayoutStore) Init(ctx context.Context) error {
	n, err := s.ch.Migrate(ctx, LayoutMigrations)
	if err != nil {
		return err
	}
	if n > 0 {
		s.l.Info("clickhouse schema migrated", applogger.Int("applied", n))
	}
	return nil
}

func (s *CHLayoutStore) Save(ctx context.Context, layout models.StoredLayout) error {
	start := time.Now()
	r := toRow(layout)
	const q = `
        INSERT INTO astro.house_layouts
            (date, latitude, longitude, system, ascendent, mid_heaven, cusps, computed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		r.Date, r.Latitude, r.Longitude, r.System, r.Ascendent, r.MidHeaven, r.Cusps, r.ComputedAt,
	); err != nil {
		s.l.Error("clickhouse save_layout error",
			applogger.String("system", r.System),
			applogger.Float64("lat", r.Latitude),
			applogger.Float64("lon", r.Longitude),
			applogger.Error(err),
		)
		return fmt.Errorf("save layout: %w", err)
	}
	s.l.Debug("clickhouse save_layout ok",
		applogger.String("system", r.System),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (s *CHLayoutStore) History(ctx context.Context, q models.HistoryQuery) ([]models.StoredLayout, error) {
	start := time.Now()
	q = normalizeQuery(q)
	const query = `
        SELECT date, latitude, longitude, system, ascendent, mid_heaven, cusps, computed_at
        FROM astro.house_layouts FINAL
        WHERE system = ? AND latitude = ? AND longitude = ? AND date >= ? AND date <= ?
        ORDER BY date DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, query,
		string(q.System), q.Latitude, q.Longitude, q.From.UTC(), q.To.UTC(), q.Limit)
	if err != nil {
		s.l.Error("clickhouse layout_history query error",
			applogger.String("system", string(q.System)),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("layout history: %w", err)
	}
	defer rows.Close()

	out := make([]models.StoredLayout, 0, q.Limit)
	for rows.Next() {
		var r layoutRow
		if err := rows.Scan(&r.Date, &r.Latitude, &r.Longitude, &r.System,
			&r.Ascendent, &r.MidHeaven, &r.Cusps, &r.ComputedAt); err != nil {
			s.l.Error("clickhouse layout_history scan error", applogger.Error(err))
			return nil, fmt.Errorf("scan layout: %w", err)
		}
		st, ok := r.stored()
		if !ok {
			s.l.Warn("clickhouse layout_history skipped row",
				applogger.Int("cusps", len(r.Cusps)),
			)
			continue
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		s.l.Error("clickhouse layout_history rows error", applogger.Error(err))
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Info("clickhouse layout_history ok",
		applogger.String("system", string(q.System)),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

func (s *CHLayoutStore) Health(ctx context.Context) error { return s.ch.Health(ctx) }

func (s *CHLayoutStore) Close() error { return s.ch.Close() }

var _ domrepo.LayoutStore = (*CHLayoutStore)(nil)
