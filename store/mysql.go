package store

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/go-sql-driver/mysql"

	"gointervals/trees/interval"
)

const (
	selectSegments = "SELECT lower_bound, upper_bound FROM interval_segments WHERE set_id = ? ORDER BY position"
	insertSegment  = "INSERT INTO interval_segments (set_id, position, lower_bound, upper_bound) VALUES (?, ?, ?, ?)"
)

// MySQLConfig holds the connection settings of the segment database.
type MySQLConfig struct {
	User     string
	Password string
	Addr     string
	Database string
}

// DSN formats the settings as a go-sql-driver data source name.
func (c MySQLConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Addr
	cfg.DBName = c.Database
	return cfg.FormatDSN()
}

// MySQLResolver loads and stores interval sets as rows of interval_segments,
// one row per interval.
type MySQLResolver struct {
	database  *sql.DB
	statement *sql.Stmt
}

// OpenMySQL connects to the segment database and prepares the lookup
// statement.
func OpenMySQL(ctx context.Context, cfg MySQLConfig) (*MySQLResolver, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}

	resolver, err := NewMySQLResolver(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return resolver, nil
}

// NewMySQLResolver wraps an already opened database.
func NewMySQLResolver(ctx context.Context, db *sql.DB) (*MySQLResolver, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping mysql")
	}

	stmt, err := db.PrepareContext(ctx, selectSegments)
	if err != nil {
		return nil, errors.Wrap(err, "prepare segment lookup")
	}

	return &MySQLResolver{
		database:  db,
		statement: stmt,
	}, nil
}

// Close releases the prepared statement and the connection pool.
func (r *MySQLResolver) Close() error {
	stmtErr := r.statement.Close()
	dbErr := r.database.Close()
	return errors.CombineErrors(stmtErr, dbErr)
}

// Resolve reads the set stored under id. It returns ErrNotFound when no row
// exists.
func (r *MySQLResolver) Resolve(ctx context.Context, id string) (*interval.Set[float64], error) {
	rows, err := r.statement.QueryContext(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "query segments of %s", id)
	}
	defer rows.Close()

	var lower, upper []float64
	for rows.Next() {
		var l, u float64
		if err := rows.Scan(&l, &u); err != nil {
			return nil, errors.Wrapf(err, "scan segment of %s", id)
		}
		lower = append(lower, l)
		upper = append(upper, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "read segments of %s", id)
	}

	if len(lower) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "interval set %s", id)
	}

	return interval.New(lower, upper)
}

// Store writes every interval of set under id in one transaction.
func (r *MySQLResolver) Store(ctx context.Context, id string, set *interval.Set[float64]) (err error) {
	tx, err := r.database.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			err = errors.CombineErrors(err, tx.Rollback())
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertSegment)
	if err != nil {
		return errors.Wrap(err, "prepare segment insert")
	}
	defer stmt.Close()

	for i, seg := range set.Segments() {
		if _, err = stmt.ExecContext(ctx, id, i, seg[0], seg[1]); err != nil {
			return errors.Wrapf(err, "insert segment %d of %s", i, id)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit segments")
	}
	return nil
}
