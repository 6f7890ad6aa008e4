package devapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/resource"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/database"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cms_records (
	resource   TEXT        NOT NULL,
	id         BIGSERIAL,
	data       JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (resource, id)
);

CREATE TABLE IF NOT EXISTS cms_content (
	page       TEXT        PRIMARY KEY,
	data       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresStore keeps every resource in one JSONB table keyed by
// (resource, id), plus one row per page for content singletons.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate cms tables: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, res string, q ListQuery) ([]Record, int, error) {
	where := []string{"resource = $1"}
	args := []any{res}
	for k, v := range q.Filters {
		args = append(args, k, v)
		where = append(where, fmt.Sprintf("data->>($%d::text) = $%d", len(args)-1, len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM cms_records WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", res, err)
	}

	args = append(args, q.Limit, q.Offset)
	sql := fmt.Sprintf(
		"SELECT id, data, created_at, updated_at FROM cms_records WHERE %s ORDER BY id LIMIT NULLIF($%d, 0) OFFSET $%d",
		cond, len(args)-1, len(args),
	)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", res, err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("list %s: %w", res, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", res, err)
	}
	return out, total, nil
}

func (s *PostgresStore) Get(ctx context.Context, res string, id int64) (Record, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT id, data, created_at, updated_at FROM cms_records WHERE resource = $1 AND id = $2",
		res, id,
	)
	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%d: %w", res, id, err)
	}
	return r, nil
}

func (s *PostgresStore) Create(ctx context.Context, res string, values form.Values, parents []ParentRef) (Record, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", res, err)
	}
	return database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) (Record, error) {
		if err := lockParents(ctx, tx, parents); err != nil {
			return nil, err
		}
		row := tx.QueryRow(ctx,
			`INSERT INTO cms_records (resource, data) VALUES ($1, $2)
			 RETURNING id, data, created_at, updated_at`,
			res, string(data),
		)
		r, err := scanRecord(row)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", res, err)
		}
		return r, nil
	})
}

func (s *PostgresStore) Update(ctx context.Context, res string, id int64, values form.Values, parents []ParentRef) (Record, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", res, err)
	}
	return database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) (Record, error) {
		if err := lockParents(ctx, tx, parents); err != nil {
			return nil, err
		}
		row := tx.QueryRow(ctx,
			`UPDATE cms_records SET data = $3, updated_at = now()
			 WHERE resource = $1 AND id = $2
			 RETURNING id, data, created_at, updated_at`,
			res, id, string(data),
		)
		r, err := scanRecord(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("update %s/%d: %w", res, id, err)
		}
		return r, nil
	})
}

// lockParents takes a share lock on every parent row. It conflicts with the
// FOR UPDATE lock of Delete, so a parent cannot vanish under a child write.
func lockParents(ctx context.Context, tx pgx.Tx, parents []ParentRef) error {
	for _, p := range parents {
		var id int64
		err := tx.QueryRow(ctx,
			"SELECT id FROM cms_records WHERE resource = $1 AND id = $2 FOR SHARE",
			p.Resource, p.ID,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return &MissingParentError{Ref: p}
		}
		if err != nil {
			return fmt.Errorf("lock %s/%d: %w", p.Resource, p.ID, err)
		}
	}
	return nil
}

// Delete locks the parent row so a concurrent child insert cannot slip in
// between the reference check and the delete.
func (s *PostgresStore) Delete(ctx context.Context, res string, id int64, children []resource.ChildRef) error {
	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx,
			"SELECT id FROM cms_records WHERE resource = $1 AND id = $2 FOR UPDATE",
			res, id,
		).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRecordNotFound
		}
		if err != nil {
			return fmt.Errorf("lock %s/%d: %w", res, id, err)
		}

		for _, child := range children {
			var referenced bool
			err := tx.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM cms_records WHERE resource = $1 AND data->>($2::text) = $3)",
				child.Resource, child.Field, fmt.Sprint(id),
			).Scan(&referenced)
			if err != nil {
				return fmt.Errorf("check %s references: %w", child.Resource, err)
			}
			if referenced {
				return fmt.Errorf("%w by %s", ErrReferenced, child.Resource)
			}
		}

		if _, err := tx.Exec(ctx, "DELETE FROM cms_records WHERE resource = $1 AND id = $2", res, id); err != nil {
			return fmt.Errorf("delete %s/%d: %w", res, id, err)
		}
		return nil
	})
}

func (s *PostgresStore) IDs(ctx context.Context, res string) ([]int64, error) {
	rows, err := s.pool.Query(ctx, "SELECT id FROM cms_records WHERE resource = $1 ORDER BY id", res)
	if err != nil {
		return nil, fmt.Errorf("ids %s: %w", res, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("ids %s: %w", res, err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *PostgresStore) GetContent(ctx context.Context, page string) (Record, error) {
	var (
		raw     []byte
		updated time.Time
	)
	err := s.pool.QueryRow(ctx, "SELECT data, updated_at FROM cms_content WHERE page = $1", page).Scan(&raw, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content %s: %w", page, err)
	}
	return contentRecord(page, raw, updated)
}

func (s *PostgresStore) PutContent(ctx context.Context, page string, values form.Values) (Record, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode content %s: %w", page, err)
	}

	var (
		raw     []byte
		updated time.Time
	)
	err = s.pool.QueryRow(ctx,
		`INSERT INTO cms_content (page, data) VALUES ($1, $2)
		 ON CONFLICT (page) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
		 RETURNING data, updated_at`,
		page, string(data),
	).Scan(&raw, &updated)
	if err != nil {
		return nil, fmt.Errorf("put content %s: %w", page, err)
	}
	return contentRecord(page, raw, updated)
}

// Close is a no-op: the pool belongs to database.PostgresDB.
func (s *PostgresStore) Close() {}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		id               int64
		raw              []byte
		created, updated time.Time
	)
	if err := row.Scan(&id, &raw, &created, &updated); err != nil {
		return nil, err
	}
	values, err := decodeValues(raw)
	if err != nil {
		return nil, err
	}
	return newRecord(id, values, created, updated), nil
}

func contentRecord(page string, raw []byte, updated time.Time) (Record, error) {
	values, err := decodeValues(raw)
	if err != nil {
		return nil, err
	}
	r := Record(values)
	r["page"] = page
	r["updated_at"] = updated.UTC()
	return r, nil
}

// decodeValues keeps numbers as json.Number so ids and orders stay integral.
func decodeValues(raw []byte) (form.Values, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values form.Values
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	if values == nil {
		values = form.Values{}
	}
	return values, nil
}
