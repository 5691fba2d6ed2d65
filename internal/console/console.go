// Package console runs raw SQL for administrators directly on the gorm handle.
// Routes to it are mounted behind the admin role.
package console

import (
	"context"
	"database/sql"
	"log"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/in-nis/matura-back/internal/apperr"
)

const previewLimit = 100

type Console struct {
	db *gorm.DB
}

func New(gdb *gorm.DB) *Console {
	return &Console{db: gdb}
}

// Result is a query outcome. SELECTs fill Columns and Rows, other statements
// RowsAffected and Message.
type Result struct {
	Query        string          `json:"query"`
	Columns      []string        `json:"columns,omitempty"`
	Rows         [][]interface{} `json:"rows,omitempty"`
	RowsAffected int64           `json:"rows_affected"`
	Message      string          `json:"message,omitempty"`
}

// Run executes query. Database errors come back verbatim as BadRequest.
func (c *Console) Run(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.BadRequest("Zapytanie SQL nie może być puste")
	}
	log.Printf("🛠️ Admin query: %s", query)

	if strings.HasPrefix(strings.ToLower(query), "select") {
		rows, err := c.db.WithContext(ctx).Raw(query).Rows()
		if err != nil {
			return nil, apperr.BadRequest(err.Error())
		}
		res, err := collect(rows)
		if err != nil {
			return nil, apperr.BadRequest(err.Error())
		}
		res.Query = query
		return res, nil
	}

	tx := c.db.WithContext(ctx).Exec(query)
	if tx.Error != nil {
		return nil, apperr.BadRequest(tx.Error.Error())
	}
	return &Result{Query: query, RowsAffected: tx.RowsAffected, Message: "Zapytanie wykonane poprawnie"}, nil
}

// Tables lists the tables of the connected database, sorted.
func (c *Console) Tables(ctx context.Context) ([]string, error) {
	tables, err := c.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, err
	}
	sort.Strings(tables)
	return tables, nil
}

// Preview returns the columns and first rows of table name.
func (c *Console) Preview(ctx context.Context, name string) (*Result, error) {
	tables, err := c.Tables(ctx)
	if err != nil {
		return nil, err
	}
	i := sort.SearchStrings(tables, name)
	if i == len(tables) || tables[i] != name {
		return nil, apperr.NotFound("Tabela nie istnieje")
	}

	rows, err := c.db.WithContext(ctx).Table(name).Limit(previewLimit).Rows()
	if err != nil {
		return nil, err
	}
	res, err := collect(rows)
	if err != nil {
		return nil, err
	}
	res.Query = name
	return res, nil
}

func collect(rows *sql.Rows) (*Result, error) {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &Result{Columns: cols, Rows: [][]interface{}{}}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, vals)
	}
	return res, rows.Err()
}
