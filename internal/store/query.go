package store

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Field is a filterable note column
type Field string

const (
	FieldOwner       Field = "user_id"
	FieldIsComplete  Field = "is_complete"
	FieldIsEmailSend Field = "is_email_send"
	FieldDueDate     Field = "due_date"
	FieldCreatedAt   Field = "created_at"
	FieldPriority    Field = "priority"
)

type Op string

const (
	OpEq  Op = "="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

// SortField is the closed set of columns notes can be ordered by
type SortField string

const (
	SortDueDate   SortField = "due_date"
	SortPriority  SortField = "priority"
	SortCreatedAt SortField = "created_at"
)

type Direction int

const (
	Desc Direction = iota
	Asc
)

func (d Direction) String() string {
	if d == Asc {
		return "asc"
	}

	return "desc"
}

// ParseDirection is case-insensitive. Anything that isn't "asc" is treated
// as descending, there is no error for unknown values.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return Asc
	}

	return Desc
}

type Filter struct {
	Field Field
	Op    Op
	Value any
}

type OrderBy struct {
	Field     SortField
	Direction Direction
}

// Query is a typed description of a note listing. The zero value lists
// every note. Results are always ordered by id last.
type Query struct {
	Filters []Filter
	Order   []OrderBy
}

func (q Query) Where(f Field, op Op, v any) Query {
	q.Filters = append(q.Filters[:len(q.Filters):len(q.Filters)], Filter{Field: f, Op: op, Value: v})
	return q
}

func (q Query) OrderBy(f SortField, d Direction) Query {
	q.Order = append(q.Order[:len(q.Order):len(q.Order)], OrderBy{Field: f, Direction: d})
	return q
}

func validField(f Field) bool {
	switch f {
	case FieldOwner, FieldIsComplete, FieldIsEmailSend, FieldDueDate, FieldCreatedAt, FieldPriority:
		return true
	}

	return false
}

func validSortField(f SortField) bool {
	switch f {
	case SortDueDate, SortPriority, SortCreatedAt:
		return true
	}

	return false
}

func (f Filter) expr() (clause.Expression, error) {
	if !validField(f.Field) {
		return nil, fmt.Errorf("%w, unknown field %q", ErrInvalidQuery, f.Field)
	}

	col := clause.Column{Table: "notes", Name: string(f.Field)}

	switch f.Op {
	case OpEq:
		return clause.Eq{Column: col, Value: f.Value}, nil
	case OpLt:
		return clause.Lt{Column: col, Value: f.Value}, nil
	case OpLte:
		return clause.Lte{Column: col, Value: f.Value}, nil
	case OpGt:
		return clause.Gt{Column: col, Value: f.Value}, nil
	case OpGte:
		return clause.Gte{Column: col, Value: f.Value}, nil
	}

	return nil, fmt.Errorf("%w, unknown operator %q", ErrInvalidQuery, f.Op)
}

func (q Query) apply(tx *gorm.DB) (*gorm.DB, error) {
	for _, f := range q.Filters {
		e, err := f.expr()
		if err != nil {
			return nil, err
		}

		tx = tx.Where(e)
	}

	for _, o := range q.Order {
		if !validSortField(o.Field) {
			return nil, fmt.Errorf("%w, unknown sort field %q", ErrInvalidQuery, o.Field)
		}

		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "notes", Name: string(o.Field)},
			Desc:   o.Direction == Desc,
		})
	}

	// Stable output for equal sort keys
	return tx.Order(clause.OrderByColumn{Column: clause.Column{Table: "notes", Name: "id"}}), nil
}
