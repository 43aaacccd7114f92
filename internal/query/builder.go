package query

import (
	"fmt"
	"reflect"
	"strings"
)

// Builder accumulates "column = $n" fragments for values that are present
// and keeps the bind list in placeholder order. Values are never written
// into the clause text.
type Builder struct {
	prefix    string
	separator string
	parts     []string
	args      []any
	added     int
}

// New returns a builder whose placeholders continue after the seeded values.
func New(prefix, separator string, seed ...any) *Builder {
	args := make([]any, 0, len(seed)+4)
	args = append(args, seed...)
	return &Builder{prefix: prefix, separator: separator, args: args}
}

// Set starts an assignment list for UPDATE statements.
func Set(seed ...any) *Builder {
	return New("SET ", ", ", seed...)
}

// Where starts a conjunctive filter list.
func Where(seed ...any) *Builder {
	return New(" WHERE ", " AND ", seed...)
}

// Add appends "<column> = $n" when value is present. A nil interface or a nil
// pointer is absent and leaves the builder untouched; non-nil pointers are
// dereferenced into the bind list.
func (b *Builder) Add(column string, value any) *Builder {
	v, ok := present(value)
	if !ok {
		return b
	}
	b.args = append(b.args, v)
	b.parts = append(b.parts, fmt.Sprintf("%s = $%d", column, len(b.args)))
	b.added++
	return b
}

// Added reports how many optional values were accepted.
func (b *Builder) Added() int {
	return b.added
}

// Next returns the placeholder number the next bound value will take.
func (b *Builder) Next() int {
	return len(b.args) + 1
}

// Finish returns the clause and the ordered bind values. The clause is empty
// when nothing was added, so callers never emit a bare SET or WHERE.
func (b *Builder) Finish() (string, []any) {
	args := make([]any, len(b.args))
	copy(args, b.args)
	if b.added == 0 {
		return "", args
	}
	return b.prefix + strings.Join(b.parts, b.separator), args
}

func present(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Pointer {
		return value, true
	}
	if rv.IsNil() {
		return nil, false
	}
	return rv.Elem().Interface(), true
}
