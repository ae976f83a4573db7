package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/deliberate/deliberate/pkg/decision"
)

// SQLStore keeps one row per deliberation, ordered by position. Save
// rewrites the table inside a single transaction.
type SQLStore struct {
	db      *sql.DB
	backend string
	bind    func(n int) string
}

func dollarBind(n int) string   { return "$" + strconv.Itoa(n) }
func questionBind(n int) string { return "?" }

func (s *SQLStore) Load(ctx context.Context) ([]decision.Deliberation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM deliberations ORDER BY position`)
	if err != nil {
		return nil, opError(s.backend, "load", fmt.Errorf("query deliberations: %w", err))
	}
	defer rows.Close()

	out := []decision.Deliberation{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, opError(s.backend, "load", fmt.Errorf("scan deliberation: %w", err))
		}
		d, err := decodeOne(body)
		if err != nil {
			return nil, opError(s.backend, "load", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, opError(s.backend, "load", fmt.Errorf("iterate deliberations: %w", err))
	}
	return out, nil
}

func (s *SQLStore) Save(ctx context.Context, deliberations []decision.Deliberation) error {
	return opError(s.backend, "save", s.save(ctx, deliberations))
}

func (s *SQLStore) save(ctx context.Context, deliberations []decision.Deliberation) error {
	if err := checkUnique(deliberations); err != nil {
		return err
	}
	bodies := make([]string, len(deliberations))
	for i, d := range deliberations {
		body, err := encodeOne(d)
		if err != nil {
			return err
		}
		bodies[i] = string(body)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deliberations`); err != nil {
		return fmt.Errorf("delete deliberations: %w", err)
	}

	insert := fmt.Sprintf(
		`INSERT INTO deliberations (id, position, name, body, modified_at) VALUES (%s, %s, %s, %s, %s)`,
		s.bind(1), s.bind(2), s.bind(3), s.bind(4), s.bind(5))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range deliberations {
		if _, err := stmt.ExecContext(ctx, d.ID, i, d.Name, bodies[i], d.ModifiedAt.UTC()); err != nil {
			return fmt.Errorf("insert deliberation %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM deliberations`); err != nil {
		return opError(s.backend, "clear", fmt.Errorf("delete deliberations: %w", err))
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
