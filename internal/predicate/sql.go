package predicate

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where renders the predicate as a WHERE clause with sqlx named parameters.
// Slices bound to IN clauses must be expanded with sqlx.In after sqlx.Named.
// Field names are trusted column identifiers; values are always bound.
func (p Predicate) Where() (string, map[string]any) {
	args := map[string]any{}
	if p.IsTrue() {
		return "", args
	}

	conditions := make([]string, 0, len(p.clauses))
	for i, c := range p.clauses {
		name := fmt.Sprintf("p%d", i)
		switch c.Op {
		case OpEq:
			conditions = append(conditions, fmt.Sprintf("%s = :%s", c.Field, name))
			args[name] = c.Value
		case OpContains:
			conditions = append(conditions, fmt.Sprintf("%s LIKE :%s", c.Field, name))
			args[name] = "%" + likeEscaper.Replace(c.Value.(string)) + "%"
		case OpGte:
			conditions = append(conditions, fmt.Sprintf("%s >= :%s", c.Field, name))
			args[name] = c.Value
		case OpLte:
			conditions = append(conditions, fmt.Sprintf("%s <= :%s", c.Field, name))
			args[name] = c.Value
		case OpIn:
			vals := c.Value.([]any)
			if len(vals) == 0 {
				conditions = append(conditions, "FALSE")
				continue
			}
			conditions = append(conditions, fmt.Sprintf("%s IN (:%s)", c.Field, name))
			args[name] = vals
		}
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// Query appends the WHERE clause and tail to base and binds every argument
// positionally, expanding IN sets. The result uses '?' placeholders; pass it
// through (*sqlx.DB).Rebind before executing.
func (p Predicate) Query(base, tail string) (string, []any, error) {
	where, named := p.Where()
	query, args, err := sqlx.Named(base+where+tail, named)
	if err != nil {
		return "", nil, err
	}
	return sqlx.In(query, args...)
}
