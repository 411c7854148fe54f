package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/marquee/pkg/debug"
	"github.com/vanderheijden86/marquee/pkg/loader"
	"github.com/vanderheijden86/marquee/pkg/model"
)

// movieSchema is the table layout WriteSQLite creates and LoadMovies prefers.
// Genres are stored comma separated.
const movieSchema = `
CREATE TABLE IF NOT EXISTS movies (
	title        TEXT PRIMARY KEY,
	release_year INTEGER NOT NULL,
	gross        REAL NOT NULL,
	imdb_rating  REAL NOT NULL,
	genres       TEXT NOT NULL,
	runtime      INTEGER,
	votes        INTEGER,
	meta_score   REAL,
	director     TEXT,
	poster_url   TEXT,
	overview     TEXT
)`

// SQLiteReader reads movies from a SQLite database.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens source read-only.
func NewSQLiteReader(source Source) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}
	if _, err := os.Stat(source.Path); err != nil {
		return nil, fmt.Errorf("no movie data found at %s: %w", source.Path, err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	} {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("datasource: %s: %v", pragma, err)
		}
	}

	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadMovies reads every row of the movies table. Rows failing validation are
// reported and skipped, as with JSONL input.
func (r *SQLiteReader) LoadMovies(ctx context.Context, opts loader.ParseOptions) ([]model.Movie, loader.Report, error) {
	var rep loader.Report

	rows, err := r.db.QueryContext(ctx, `
		SELECT title, release_year, gross, imdb_rating, genres,
		       runtime, votes, meta_score, director, poster_url, overview
		FROM movies
		ORDER BY rowid`)
	full := err == nil
	if !full {
		// Older exports only carry the chart columns.
		debug.Log("datasource: full query failed, falling back: %v", err)
		rows, err = r.db.QueryContext(ctx, `
			SELECT title, release_year, gross, imdb_rating, genres
			FROM movies
			ORDER BY rowid`)
		if err != nil {
			return nil, rep, fmt.Errorf("querying movies: %w", err)
		}
	}
	defer rows.Close()

	warn := opts.WarningHandler
	if warn == nil {
		warn = func(string) {}
	}

	var movies []model.Movie
	seen := make(map[string]bool)
	for rowNum := 1; rows.Next(); rowNum++ {
		rep.Lines = rowNum

		var (
			m                          model.Movie
			genres                     string
			runtime, votes             sql.NullInt64
			metaScore                  sql.NullFloat64
			director, poster, overview sql.NullString
		)
		dest := []any{&m.Title, &m.ReleaseYear, &m.Gross, &m.Rating, &genres}
		if full {
			dest = append(dest, &runtime, &votes, &metaScore, &director, &poster, &overview)
		}
		if err := rows.Scan(dest...); err != nil {
			re := &loader.RowError{Line: rowNum, Err: fmt.Errorf("scan: %w", err)}
			rep.Rejected = append(rep.Rejected, re)
			warn("skipping " + re.Error())
			continue
		}

		m.Title = strings.TrimSpace(m.Title)
		m.Genres = model.SplitGenres(genres)
		m.Runtime = int(runtime.Int64)
		m.Votes = int(votes.Int64)
		if metaScore.Valid {
			v := metaScore.Float64
			m.MetaScore = &v
		}
		m.Director = director.String
		m.PosterURL = poster.String
		m.Overview = overview.String

		fields, err := loader.ValidateMovie(&m)
		if err != nil {
			return nil, rep, err
		}
		if len(fields) > 0 {
			re := &loader.RowError{Line: rowNum, Title: m.Title, Fields: fields}
			rep.Rejected = append(rep.Rejected, re)
			warn("skipping " + re.Error())
			continue
		}
		if seen[m.Title] {
			rep.Duplicates = append(rep.Duplicates, m.Title)
			continue
		}
		if opts.Filter != nil && !opts.Filter(&m) {
			continue
		}
		seen[m.Title] = true
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, rep, fmt.Errorf("reading movies: %w", err)
	}

	rep.Loaded = len(movies)
	if len(movies) == 0 {
		return nil, rep, loader.ErrNoMovies
	}
	return movies, rep, nil
}

// CountMovies returns the number of rows in the movies table.
func (r *SQLiteReader) CountMovies(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n)
	return n, err
}

// WriteSQLite writes movies to a new database at path, replacing any
// existing file.
func WriteSQLite(ctx context.Context, path string, movies []model.Movie) (err error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing old database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cannot create database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err := db.ExecContext(ctx, movieSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movies (title, release_year, gross, imdb_rating, genres,
		                    runtime, votes, meta_score, director, poster_url, overview)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, m := range movies {
		var meta any
		if m.MetaScore != nil {
			meta = *m.MetaScore
		}
		if _, err := stmt.ExecContext(ctx,
			m.Title, m.ReleaseYear, m.Gross, m.Rating, strings.Join(m.Genres, ","),
			m.Runtime, m.Votes, meta, m.Director, m.PosterURL, m.Overview,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting %q: %w", m.Title, err)
		}
	}
	return tx.Commit()
}
