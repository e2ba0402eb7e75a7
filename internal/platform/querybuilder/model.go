package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an insert from the db-tagged exported fields of model.
func InsertModel(table string, model any) *InsertBuilder {
	b := InsertInto(table)
	fields, err := dbFields(model)
	if err != nil {
		b.err = err
		return b
	}

	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
		vals = append(vals, f.value)
	}
	return b.Columns(cols...).Values(vals...)
}

// ColumnsOf lists the db column names of model in field order. It panics on
// a model without db tags since that is a programming error.
func ColumnsOf(model any) []string {
	fields, err := dbFields(model)
	if err != nil {
		panic(fmt.Sprintf("querybuilder.ColumnsOf: %v", err))
	}

	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
	}
	return cols
}

type dbField struct {
	column string
	value  any
}

func dbFields(model any) ([]dbField, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	fields := make([]dbField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		fields = append(fields, dbField{column: col, value: value.Field(i).Interface()})
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("model %s has no db columns", typ.Name())
	}
	return fields, nil
}
