package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// sqlWriter accumulates SQL text and numbers bind parameters for Postgres.
type sqlWriter struct {
	strings.Builder
	args []any
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.WriteString("$")
	w.WriteString(strconv.Itoa(len(w.args)))
}

type Condition interface {
	appendSQL(w *sqlWriter)
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func (c compareCondition) appendSQL(w *sqlWriter) {
	w.WriteString(c.column)
	w.WriteString(" ")
	w.WriteString(c.op)
	w.WriteString(" ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition {
	return compareCondition{column: column, op: "=", value: value}
}

func NotEq(column string, value any) Condition {
	return compareCondition{column: column, op: "<>", value: value}
}

type isNullCondition struct {
	column string
	not    bool
}

func (c isNullCondition) appendSQL(w *sqlWriter) {
	w.WriteString(c.column)
	if c.not {
		w.WriteString(" IS NOT NULL")
		return
	}
	w.WriteString(" IS NULL")
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func IsNotNull(column string) Condition {
	return isNullCondition{column: column, not: true}
}

func appendWhere(w *sqlWriter, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.WriteString(" AND ")
		}
		c.appendSQL(w)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var w sqlWriter
	w.WriteString("SELECT ")
	w.WriteString(strings.Join(b.columns, ", "))
	w.WriteString(" FROM ")
	w.WriteString(b.table)
	appendWhere(&w, b.where)
	if len(b.orderBy) > 0 {
		w.WriteString(" ORDER BY ")
		w.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.WriteString(" LIMIT ")
		w.WriteString(strconv.Itoa(b.limit))
	}

	return w.String(), w.args, nil
}

type conflictAction int

const (
	conflictNone conflictAction = iota
	conflictDoNothing
	conflictDoUpdate
)

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	err     error

	conflictColumns []string
	conflictAction  conflictAction
	updateColumns   []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = append([]any(nil), values...)
	return b
}

// OnConflict names the unique columns of the conflict target. Follow it with
// DoNothing or DoUpdate.
func (b *InsertBuilder) OnConflict(columns ...string) *InsertBuilder {
	b.conflictColumns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) DoNothing() *InsertBuilder {
	b.conflictAction = conflictDoNothing
	return b
}

// DoUpdate overwrites columns from the rejected row. With no columns every
// inserted column outside the conflict target is overwritten.
func (b *InsertBuilder) DoUpdate(columns ...string) *InsertBuilder {
	b.conflictAction = conflictDoUpdate
	b.updateColumns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.values) != len(b.columns) {
		return "", nil, fmt.Errorf("insert has %d values, expected %d", len(b.values), len(b.columns))
	}

	var w sqlWriter
	w.WriteString("INSERT INTO ")
	w.WriteString(b.table)
	w.WriteString(" (")
	w.WriteString(strings.Join(b.columns, ", "))
	w.WriteString(") VALUES (")
	for i, value := range b.values {
		if i > 0 {
			w.WriteString(", ")
		}
		w.bind(value)
	}
	w.WriteString(")")

	if err := b.appendConflict(&w); err != nil {
		return "", nil, err
	}

	return w.String(), w.args, nil
}

func (b *InsertBuilder) appendConflict(w *sqlWriter) error {
	if b.conflictAction == conflictNone {
		if len(b.conflictColumns) > 0 {
			return fmt.Errorf("on conflict requires DoNothing or DoUpdate")
		}
		return nil
	}

	w.WriteString(" ON CONFLICT")
	if len(b.conflictColumns) > 0 {
		w.WriteString(" (")
		w.WriteString(strings.Join(b.conflictColumns, ", "))
		w.WriteString(")")
	}

	if b.conflictAction == conflictDoNothing {
		w.WriteString(" DO NOTHING")
		return nil
	}

	if len(b.conflictColumns) == 0 {
		return fmt.Errorf("on conflict do update requires a conflict target")
	}

	columns := b.updateColumns
	if len(columns) == 0 {
		target := make(map[string]struct{}, len(b.conflictColumns))
		for _, c := range b.conflictColumns {
			target[c] = struct{}{}
		}
		for _, c := range b.columns {
			if _, skip := target[c]; !skip {
				columns = append(columns, c)
			}
		}
	}
	if len(columns) == 0 {
		return fmt.Errorf("on conflict do update has no columns to update")
	}

	w.WriteString(" DO UPDATE SET ")
	for i, c := range columns {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(c)
		w.WriteString(" = EXCLUDED.")
		w.WriteString(c)
	}
	return nil
}

type setClause struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table string
	sets  []setClause
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("update without where clause is not allowed")
	}

	var w sqlWriter
	w.WriteString("UPDATE ")
	w.WriteString(b.table)
	w.WriteString(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(s.column)
		w.WriteString(" = ")
		w.bind(s.value)
	}
	appendWhere(&w, b.where)

	return w.String(), w.args, nil
}
