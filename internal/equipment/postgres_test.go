package equipment

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, v := range r.values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}

type fakeQuerier struct {
	row  fakeRow
	args []any
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.args = args
	return q.row
}

func TestPostgresProvider_Get(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []any{
		"7", "Dialysis Unit", "therapy", "Nephrology", ptr(9), ptr(80000), func() *string { s := "2"; return &s }(), ptr(400),
	}}}
	p := &PostgresProvider{db: q}

	e, err := p.Get(context.Background(), "7")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(q.args) != 1 || q.args[0] != "7" {
		t.Errorf("Expected query argument 7, got %v", q.args)
	}
	if e.Name != "Dialysis Unit" || e.Criticality != 9 || e.Value != 80000 || e.DepartmentID != "2" {
		t.Errorf("Unexpected equipment %+v", e)
	}
	if got := e.BaseParameters().RevenuePerHour; got != 400 {
		t.Errorf("Expected department revenue 400, got %v", got)
	}
}

func TestPostgresProvider_NullColumns(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []any{"8", "Spare", "", "", nil, nil, nil, nil}}}
	p := &PostgresProvider{db: q}

	e, err := p.Get(context.Background(), "8")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if e.Criticality != 0 || e.Value != 0 || e.DepartmentID != "" || e.EstimatedRevenueHourly != nil {
		t.Errorf("Expected zero values for NULL columns, got %+v", e)
	}
}

func TestPostgresProvider_Errors(t *testing.T) {
	p := &PostgresProvider{db: &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}}
	if _, err := p.Get(context.Background(), "404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	boom := errors.New("connection reset")
	p = &PostgresProvider{db: &fakeQuerier{row: fakeRow{err: boom}}}
	_, err := p.Get(context.Background(), "1")
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Errorf("Expected wrapped driver error, got %v", err)
	}
}
