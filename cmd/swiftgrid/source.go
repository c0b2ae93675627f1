package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/clickhouse"
	"github.com/meowmeowcode/swiftgrid/internal/config"
	"github.com/meowmeowcode/swiftgrid/internal/demo"
	"github.com/meowmeowcode/swiftgrid/internal/httpapi"
	"github.com/meowmeowcode/swiftgrid/mem"
	"github.com/meowmeowcode/swiftgrid/mysql"
	"github.com/meowmeowcode/swiftgrid/pg"
	"github.com/meowmeowcode/swiftgrid/sqldb"
	"github.com/meowmeowcode/swiftgrid/sqlite3"
)

type dataSource struct {
	source swiftgrid.Source[demo.Person]
	editor httpapi.Editor[demo.Person] // nil for read-only sources
	close  func()
}

// execFunc runs a statement that returns no rows.
type execFunc func(ctx context.Context, query string, args ...any) error

func openSource(ctx context.Context, cfg config.Source, log *slog.Logger) (dataSource, error) {
	searchFields := swiftgrid.SearchFields(demo.Columns())
	conf := sqldb.Conf[demo.Person]{
		Table:        cfg.Table,
		Mapping:      demo.Mapping(),
		SearchFields: searchFields,
		Logger:       log,
	}
	people := demo.Seed(cfg.Seed)

	switch cfg.Driver {
	case "memory":
		repo := mem.NewRepo[demo.Person](mem.Conf{SearchFields: searchFields, Logger: log})
		if err := repo.AddMany(ctx, people); err != nil {
			return dataSource{}, err
		}
		return dataSource{source: repo, editor: repo, close: func() {}}, nil

	case "sqlite3":
		db, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return dataSource{}, err
		}
		if strings.Contains(cfg.DSN, ":memory:") {
			db.SetMaxOpenConns(1)
		}
		repo := sqlite3.NewRepo(db, conf)
		if err := seed(ctx, execDB(db), sqlite3.NewSQL, repo, cfg, people, log); err != nil {
			db.Close()
			return dataSource{}, err
		}
		return dataSource{source: repo, close: func() { db.Close() }}, nil

	case "mysql":
		db, err := mysql.Open(cfg.DSN)
		if err != nil {
			return dataSource{}, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return dataSource{}, err
		}
		repo := mysql.NewRepo(db, conf)
		if err := seed(ctx, execDB(db), mysql.NewSQL, repo, cfg, people, log); err != nil {
			db.Close()
			return dataSource{}, err
		}
		return dataSource{source: repo, close: func() { db.Close() }}, nil

	case "postgres":
		pool, err := pg.Open(ctx, cfg.DSN)
		if err != nil {
			return dataSource{}, err
		}
		repo := pg.NewRepo(pool, conf)
		exec := func(ctx context.Context, query string, args ...any) error {
			_, err := pool.Exec(ctx, query, args...)
			return err
		}
		if err := seed(ctx, exec, pg.NewSQL, repo, cfg, people, log); err != nil {
			pool.Close()
			return dataSource{}, err
		}
		return dataSource{source: repo, close: pool.Close}, nil

	case "clickhouse":
		conn, err := clickhouse.Open(ctx, cfg.DSN)
		if err != nil {
			return dataSource{}, err
		}
		repo := clickhouse.NewRepo(conn, conf)
		if err := seed(ctx, conn.Exec, clickhouse.NewSQL, repo, cfg, people, log); err != nil {
			conn.Close()
			return dataSource{}, err
		}
		return dataSource{source: repo, close: func() { conn.Close() }}, nil
	}
	return dataSource{}, fmt.Errorf("unknown driver %q", cfg.Driver)
}

func execDB(db *sql.DB) execFunc {
	return func(ctx context.Context, query string, args ...any) error {
		_, err := db.ExecContext(ctx, query, args...)
		return err
	}
}

// seed creates the people table and fills it with demo records
// unless the table already has some.
func seed(
	ctx context.Context,
	exec execFunc,
	newSQL func(...string) *sqldb.SQL,
	source swiftgrid.Source[demo.Person],
	cfg config.Source,
	people []demo.Person,
	log *slog.Logger,
) error {
	if len(people) == 0 {
		return nil
	}

	schema, err := demo.Schema(cfg.Driver, cfg.Table)
	if err != nil {
		return err
	}
	if err := exec(ctx, schema); err != nil {
		return fmt.Errorf("cannot create table %s: %w", cfg.Table, err)
	}

	existing, err := source.Fetch(ctx, swiftgrid.NewQuery().WithPage(1, 1))
	if err != nil {
		return err
	}
	if existing.TotalCount > 0 {
		log.Info("table is not empty, skipping seed", "table", cfg.Table, "records", existing.TotalCount)
		return nil
	}

	for _, p := range people {
		query, params := newSQL("INSERT INTO ", cfg.Table, " (").
			Join(", ", demo.TableColumns...).
			Add(") VALUES (").
			JoinParams(", ", demo.Values(p)...).
			Add(")").
			Build()
		if err := exec(ctx, query, params...); err != nil {
			return fmt.Errorf("cannot insert person %d: %w", p.Id, err)
		}
	}
	log.Info("table seeded", "table", cfg.Table, "records", len(people))
	return nil
}
