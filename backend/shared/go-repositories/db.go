package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// DB is the subset of pgx shared by *pgxpool.Pool and pgx.Tx. Repositories
// accept either, so the same code runs on the pool or inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

func collectRows[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// textArray keeps nil slices out of NOT NULL TEXT[] columns.
func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// childCodePattern matches codes made of prefix plus exactly width more
// characters. Codes are alphanumeric so the prefix never holds wildcards.
func childCodePattern(prefix string, width int) string {
	return prefix + strings.Repeat("_", width)
}

func maxChildCode(ctx context.Context, db DB, table, prefix string, width int) (string, error) {
	var code string
	err := db.QueryRow(ctx,
		`SELECT custom_id FROM `+table+` WHERE custom_id LIKE $1 ORDER BY custom_id COLLATE "C" DESC LIMIT 1`,
		childCodePattern(prefix, width),
	).Scan(&code)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	return code, err
}
