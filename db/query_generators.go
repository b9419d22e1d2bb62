package db

import (
	"fmt"
	"strings"

	"github.com/jobly/jobly-api/types"
)

// PartialUpdate builds the SET clause of an UPDATE statement from patch.
//
// Each field becomes `"<column>"=$<n>`, where the column is looked up in mapping
// and defaults to the field name itself, and n is the 1-based position of the
// field in the patch. The returned values are in the same order, nil values
// included, so the caller binds its row key to $<len(values)+1>.
func PartialUpdate(patch types.Patch, mapping map[string]string) (string, []interface{}, error) {
	if len(patch) == 0 {
		return "", nil, newError(ErrInvalidInput, "No data")
	}

	assignments := make([]string, len(patch))
	values := make([]interface{}, len(patch))
	for i, fv := range patch {
		column, ok := mapping[fv.Field]
		if !ok || column == "" {
			column = fv.Field
		}
		assignments[i] = fmt.Sprintf(`"%s"=$%d`, column, i+1)
		values[i] = fv.Value
	}

	return strings.Join(assignments, ", "), values, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching value anywhere in a column.
// The condition using it must declare ESCAPE '\'.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

// conditions accumulates a WHERE clause with positional placeholders
type conditions struct {
	clauses []string
	values  []interface{}
}

// add appends a condition; format must contain a single %d for the placeholder index
func (c *conditions) add(format string, value interface{}) {
	c.values = append(c.values, value)
	c.clauses = append(c.clauses, fmt.Sprintf(format, len(c.values)))
}

func (c *conditions) addLiteral(clause string) {
	c.clauses = append(c.clauses, clause)
}

func (c *conditions) String() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func updateStatement(table string, setClause string, keyColumn string, keyIndex int, returning string) string {
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		table, setClause, keyColumn, keyIndex, returning)
}
