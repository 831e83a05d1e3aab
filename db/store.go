// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/ninetiop/polygon/cliparse"
	"github.com/ninetiop/polygon/models"
)

// Store persists polygons and their points. It holds no session state:
// every operation runs in its own transaction bounded by the configured
// timeout, so one Store is safe for concurrent requests.
type Store struct {
	db        *sql.DB
	dialect   string
	matchMode string
	timeout   time.Duration
	logger    *slog.Logger
}

func NewStore(db *sql.DB, cfg cliparse.Config, logger *slog.Logger) *Store {
	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	matchMode := cfg.MatchMode
	if matchMode == "" {
		matchMode = cliparse.MatchShared
	}
	return &Store{
		db:        db,
		dialect:   DialectFor(cfg.DatabaseType),
		matchMode: matchMode,
		timeout:   timeout,
		logger:    logger,
	}
}

type coord [2]float64

// FindMatchingPolygon returns the id of a stored polygon made of the same
// (x, y) pairs as points. Comments are ignored. It never writes.
//
// In shared mode a match is the single polygon owning any of the points;
// points spread over several polygons are ambiguous and count as no match.
// In exact mode each polygon owning any of the points is compared as a
// whole set against the candidate set.
func (s *Store) FindMatchingPolygon(ctx context.Context, points []models.Point) (int64, bool, error) {
	const op = "find_matching_polygon"
	if len(points) == 0 {
		return 0, false, ErrNoPoints
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Canonical order keeps the generated queries reproducible
	sorted := slices.Clone(points)
	slices.SortFunc(sorted, func(a, b models.Point) int {
		return cmp.Or(cmp.Compare(a.X, b.X), cmp.Compare(a.Y, b.Y))
	})

	tx, err := s.db.BeginTx(ctx, s.readOptions())
	if err != nil {
		return 0, false, &StorageError{Op: op, Err: err}
	}
	defer tx.Rollback()

	owners, err := s.owners(ctx, tx, sorted)
	if err != nil {
		return 0, false, &StorageError{Op: op, Err: err}
	}

	if len(owners) == 0 {
		return 0, false, nil
	}

	if s.matchMode == cliparse.MatchExact {
		want := coordSet(points)
		for _, id := range owners {
			have, err := s.storedCoords(ctx, tx, id)
			if err != nil {
				return 0, false, &StorageError{Op: op, Err: err}
			}
			if sameCoords(want, have) {
				return id, true, nil
			}
		}
		return 0, false, nil
	}

	if len(owners) > 1 {
		s.logger.Warn("points are associated with multiple polygons",
			"op", op,
			"points", len(points),
			"polygon_ids", owners,
		)
		return 0, false, nil
	}

	return owners[0], true, nil
}

// matchChunkPoints bounds the candidates per lookup query. Two bind
// parameters per point stay below SQLite's 32766 and PostgreSQL's 65535.
var matchChunkPoints = 10000

// owners returns the sorted ids of every polygon holding at least one of
// the (x, y) pairs in points, querying in chunks
func (s *Store) owners(ctx context.Context, tx *sql.Tx, points []models.Point) ([]int64, error) {
	seen := make(map[int64]struct{})
	for chunk := range slices.Chunk(points, matchChunkPoints) {
		next := newPlaceholderGenerator(s.dialect)
		tuples := make([]string, 0, len(chunk))
		args := make([]any, 0, 2*len(chunk))
		for _, p := range chunk {
			tuples = append(tuples, fmt.Sprintf("(%s, %s)", s.coordParam(next()), s.coordParam(next())))
			args = append(args, p.X, p.Y)
		}
		query := `
			SELECT DISTINCT polygon_id
			FROM points
			WHERE (x, y) IN (VALUES ` + strings.Join(tuples, ", ") + `)`

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var polygonID int64
			if err := rows.Scan(&polygonID); err != nil {
				rows.Close()
				return nil, err
			}
			seen[polygonID] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return slices.Sorted(maps.Keys(seen)), nil
}

// coordParam types a VALUES placeholder; PostgreSQL would otherwise
// resolve untyped parameters there as text
func (s *Store) coordParam(placeholder string) string {
	if s.dialect == DialectPostgres {
		return placeholder + "::double precision"
	}
	return placeholder
}

// InsertPolygon returns the id of the stored polygon matching points, or
// creates a new polygon with all of points in one transaction. On the
// match path nothing is written. Callers enforce any minimum point count.
func (s *Store) InsertPolygon(ctx context.Context, points []models.Point) (int64, error) {
	const op = "insert_polygon"
	if len(points) == 0 {
		return 0, ErrNoPoints
	}

	existingID, found, err := s.FindMatchingPolygon(ctx, points)
	if err != nil {
		return 0, err
	}
	if found {
		s.logger.Info("polygon with the same points already exists", "polygon_id", existingID)
		return existingID, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &StorageError{Op: op, Err: err}
	}
	// No-op once committed; removes the polygon row on every failure path
	defer tx.Rollback()

	var polygonID int64
	err = tx.QueryRowContext(ctx, `INSERT INTO polygons DEFAULT VALUES RETURNING id`).Scan(&polygonID)
	if err != nil {
		return 0, &StorageError{Op: op, Err: fmt.Errorf("create polygon: %w", err)}
	}

	next := newPlaceholderGenerator(s.dialect)
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO points (x, y, comment, polygon_id) VALUES (%s, %s, %s, %s)`,
		next(), next(), next(), next(),
	))
	if err != nil {
		return 0, &StorageError{Op: op, Err: err}
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.ExecContext(ctx, p.X, p.Y, nullString(p.Comment), polygonID); err != nil {
			return 0, &StorageError{Op: op, Err: fmt.Errorf("insert point %d: %w", i, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &StorageError{Op: op, Err: fmt.Errorf("commit: %w", err)}
	}

	s.logger.Info("polygon created", "polygon_id", polygonID, "points", len(points))
	return polygonID, nil
}

// GetPoints returns the points of polygon id, or of every polygon when id
// is nil, ordered by polygon then insertion. An unknown id yields an empty
// slice, not an error.
func (s *Store) GetPoints(ctx context.Context, id *int64) ([]models.Point, error) {
	const op = "get_points"

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, s.readOptions())
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	defer tx.Rollback()

	var rows *sql.Rows
	if id != nil {
		next := newPlaceholderGenerator(s.dialect)
		rows, err = tx.QueryContext(ctx, `
			SELECT x, y, comment, polygon_id
			FROM points
			WHERE polygon_id = `+next()+`
			ORDER BY id`, *id)
	} else {
		rows, err = tx.QueryContext(ctx, `
			SELECT x, y, comment, polygon_id
			FROM points
			ORDER BY polygon_id, id`)
	}
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	points := []models.Point{}
	for rows.Next() {
		var p models.Point
		var comment sql.NullString
		if err := rows.Scan(&p.X, &p.Y, &comment, &p.PolygonID); err != nil {
			return nil, &StorageError{Op: op, Err: err}
		}
		if comment.Valid {
			p.Comment = &comment.String
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}

	return points, nil
}

// CountPolygons returns the number of stored polygons
func (s *Store) CountPolygons(ctx context.Context) (int64, error) {
	return s.count(ctx, "count_polygons", `SELECT COUNT(*) FROM polygons`)
}

// CountPoints returns the number of stored points
func (s *Store) CountPoints(ctx context.Context) (int64, error) {
	return s.count(ctx, "count_points", `SELECT COUNT(*) FROM points`)
}

// Ping checks the store is reachable
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (s *Store) count(ctx context.Context, op, query string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, &StorageError{Op: op, Err: err}
	}
	return n, nil
}

// readOptions marks read transactions read-only where the driver supports it
func (s *Store) readOptions() *sql.TxOptions {
	if s.dialect == DialectPostgres {
		return &sql.TxOptions{ReadOnly: true}
	}
	return nil
}

func (s *Store) storedCoords(ctx context.Context, tx *sql.Tx, polygonID int64) (map[coord]struct{}, error) {
	next := newPlaceholderGenerator(s.dialect)
	rows, err := tx.QueryContext(ctx, `SELECT x, y FROM points WHERE polygon_id = `+next(), polygonID)
	if err != nil {
		return nil, fmt.Errorf("load polygon %d: %w", polygonID, err)
	}
	defer rows.Close()

	set := make(map[coord]struct{})
	for rows.Next() {
		var c coord
		if err := rows.Scan(&c[0], &c[1]); err != nil {
			return nil, fmt.Errorf("load polygon %d: %w", polygonID, err)
		}
		set[c] = struct{}{}
	}
	return set, rows.Err()
}

func coordSet(points []models.Point) map[coord]struct{} {
	set := make(map[coord]struct{}, len(points))
	for _, p := range points {
		set[coord{p.X, p.Y}] = struct{}{}
	}
	return set
}

func sameCoords(a, b map[coord]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for c := range a {
		if _, ok := b[c]; !ok {
			return false
		}
	}
	return true
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
