package repository

import (
	"context"
	"fmt"
	"strings"
)

// Table names known to the record store.
const (
	TableUsers           = "users"
	TableProducts        = "products"
	TableOrders          = "orders"
	TableOrderItems      = "order_items"
	TableReconciliations = "order_reconciliations"
)

// RecordStore is a generic table gateway. Every read decodes into dest,
// which must be a pointer to a slice. Absence of rows is an empty slice,
// never an error; failures wrap errors.ErrPersistence.
type RecordStore interface {
	FetchAll(ctx context.Context, table string, dest any) error
	FetchByID(ctx context.Context, table, id string, dest any) error
	FetchFiltered(ctx context.Context, table string, dest any, filters ...Filter) error
	// Insert stores record and decodes the created rows into dest.
	Insert(ctx context.Context, table string, record any, dest any) error
	// Update applies patch to the row with id and decodes the updated rows into dest.
	Update(ctx context.Context, table, id string, patch any, dest any) error
	Delete(ctx context.Context, table string, filters ...Filter) error
}

// Operator is a row predicate operator.
type Operator string

const (
	OpEq    Operator = "eq"
	OpILike Operator = "ilike"
	OpIn    Operator = "in"
	OpIs    Operator = "is"
)

// Filter is a single column predicate.
type Filter struct {
	Column   string
	Operator Operator
	Values   []string
}

// Eq matches rows whose column equals value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Operator: OpEq, Values: []string{value}}
}

// ILike matches rows whose column contains value, case insensitively.
func ILike(column, value string) Filter {
	return Filter{Column: column, Operator: OpILike, Values: []string{value}}
}

// In matches rows whose column is one of values.
func In(column string, values ...string) Filter {
	return Filter{Column: column, Operator: OpIn, Values: values}
}

// IsNull matches rows whose column is null.
func IsNull(column string) Filter {
	return Filter{Column: column, Operator: OpIs, Values: []string{"null"}}
}

// ByID is the primary key filter.
func ByID(id string) Filter {
	return Eq("id", id)
}

// Expression renders the right hand side of the predicate in PostgREST form,
// e.g. "eq.42", "ilike.*pika*" or "in.(a,b)".
func (f Filter) Expression() string {
	switch f.Operator {
	case OpILike:
		return fmt.Sprintf("%s.*%s*", f.Operator, first(f.Values))
	case OpIn:
		return fmt.Sprintf("%s.(%s)", f.Operator, strings.Join(f.Values, ","))
	default:
		return fmt.Sprintf("%s.%s", f.Operator, first(f.Values))
	}
}

// String renders the full predicate as a query fragment.
func (f Filter) String() string {
	return f.Column + "=" + f.Expression()
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
