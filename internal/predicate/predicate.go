// Package predicate composes optional search criteria into a single conjunctive
// filter that can be rendered as a SQL WHERE clause or evaluated in memory.
//
// Unset criteria contribute nothing, so an empty Predicate matches every row.
// Clauses are kept in a canonical order, which makes the result independent of
// the order criteria were added in.
package predicate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

type Op string

const (
	OpEq       Op = "eq"
	OpContains Op = "contains"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpIn       Op = "in"
)

type Clause struct {
	Field string
	Op    Op
	Value any
}

func (c Clause) isZero() bool {
	return c.Field == ""
}

func (c Clause) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
}

// Record is a row whose columns can be read by name.
type Record interface {
	Field(name string) any
}

type Predicate struct {
	clauses []Clause
}

// True is the identity predicate.
func True() Predicate {
	return Predicate{}
}

// And returns a new predicate with the non-empty clauses added.
func (p Predicate) And(clauses ...Clause) Predicate {
	out := make([]Clause, 0, len(p.clauses)+len(clauses))
	out = append(out, p.clauses...)
	for _, c := range clauses {
		if !c.isZero() {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return Predicate{clauses: out}
}

func (p Predicate) Clauses() []Clause {
	return append([]Clause(nil), p.clauses...)
}

func (p Predicate) IsTrue() bool {
	return len(p.clauses) == 0
}

func (p Predicate) String() string {
	if p.IsTrue() {
		return "TRUE"
	}
	parts := make([]string, len(p.clauses))
	for i, c := range p.clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// Eq constrains field to *v. A nil v adds no constraint.
func Eq[T any](field string, v *T) Clause {
	if v == nil {
		return Clause{}
	}
	return Clause{Field: field, Op: OpEq, Value: normalize(*v)}
}

// Equals always constrains field to v.
func Equals(field string, v any) Clause {
	return Clause{Field: field, Op: OpEq, Value: normalize(v)}
}

// Contains is a case-preserving substring match (SQL LIKE '%v%').
func Contains(field string, v *string) Clause {
	if v == nil {
		return Clause{}
	}
	return Clause{Field: field, Op: OpContains, Value: *v}
}

func AtLeast[T any](field string, v *T) Clause {
	if v == nil {
		return Clause{}
	}
	return Clause{Field: field, Op: OpGte, Value: normalize(*v)}
}

func AtMost[T any](field string, v *T) Clause {
	if v == nil {
		return Clause{}
	}
	return Clause{Field: field, Op: OpLte, Value: normalize(*v)}
}

// Between is an inclusive range where either bound may be absent.
func Between[T any](field string, lo, hi *T) []Clause {
	return []Clause{AtLeast(field, lo), AtMost(field, hi)}
}

// In constrains field to the given set. A nil set adds no constraint, an empty
// non-nil set matches nothing.
func In[T any](field string, vs []T) Clause {
	if vs == nil {
		return Clause{}
	}
	vals := make([]any, len(vs))
	for i, v := range vs {
		vals[i] = normalize(v)
	}
	sort.Slice(vals, func(i, j int) bool {
		return fmt.Sprint(vals[i]) < fmt.Sprint(vals[j])
	})
	return Clause{Field: field, Op: OpIn, Value: vals}
}

// Match evaluates the predicate against r with SQL semantics: a NULL column
// never satisfies a clause.
func (p Predicate) Match(r Record) bool {
	for _, c := range p.clauses {
		if !c.match(r) {
			return false
		}
	}
	return true
}

func (c Clause) match(r Record) bool {
	fv := normalize(r.Field(c.Field))
	if fv == nil {
		return false
	}

	switch c.Op {
	case OpEq:
		cmp, ok := compare(fv, c.Value)
		return ok && cmp == 0
	case OpContains:
		s, ok := fv.(string)
		return ok && strings.Contains(s, c.Value.(string))
	case OpGte:
		cmp, ok := compare(fv, c.Value)
		return ok && cmp >= 0
	case OpLte:
		cmp, ok := compare(fv, c.Value)
		return ok && cmp <= 0
	case OpIn:
		for _, v := range c.Value.([]any) {
			if cmp, ok := compare(fv, v); ok && cmp == 0 {
				return true
			}
		}
	}
	return false
}

// normalize dereferences pointers and collapses named and sized scalar types
// onto string, int64, float64, bool and time.Time.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	if t, ok := v.(time.Time); ok {
		return t
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	}
	return rv.Interface()
}

func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case int64:
		switch y := b.(type) {
		case int64:
			return cmpOrdered(x, y), true
		case float64:
			return cmpOrdered(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmpOrdered(x, y), true
		case int64:
			return cmpOrdered(x, float64(y)), true
		}
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if x == y {
			return 0, true
		}
		if !x {
			return -1, true
		}
		return 1, true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	return 0, false
}

func cmpOrdered[T int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
