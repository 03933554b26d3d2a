package repositories

import (
	"fmt"
	"strings"
	"unicode"
)

// whereBuilder accumulates AND-ed conditions. Each "?" in an expression is
// replaced by the next positional parameter.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (w *whereBuilder) add(expr string, args ...interface{}) {
	var b strings.Builder
	i := 0
	for _, r := range expr {
		if r == '?' && i < len(args) {
			w.args = append(w.args, args[i])
			fmt.Fprintf(&b, "$%d", len(w.args))
			i++
			continue
		}
		b.WriteRune(r)
	}
	w.conds = append(w.conds, b.String())
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// nextParam returns the placeholder for an argument appended after the
// conditions.
func (w *whereBuilder) nextParam(arg interface{}) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

// likeEscape escapes LIKE wildcards so user input matches literally.
func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func containsPattern(s string) string {
	return "%" + likeEscape(s) + "%"
}

func prefixPattern(s string) string {
	return likeEscape(s) + "%"
}

// InvalidOrderByError reports an order_by token that names no sortable field.
type InvalidOrderByError struct {
	Token string
}

func (e *InvalidOrderByError) Error() string {
	return fmt.Sprintf("Invalid order_by field: %s", e.Token)
}

// orderByClause turns order_by tokens into an ORDER BY clause. Tokens may be
// snake_case or camelCase and a leading "-" sorts descending. The id column
// always ends the clause so paging is stable.
func orderByClause(tokens []string, columns map[string]string, idColumn, fallback string) (string, error) {
	parts := make([]string, 0, len(tokens)+1)
	seen := make(map[string]bool)

	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		direction := "ASC"
		if strings.HasPrefix(token, "-") {
			direction = "DESC"
			token = token[1:]
		}
		column, ok := columns[toSnakeCase(token)]
		if !ok {
			return "", &InvalidOrderByError{Token: raw}
		}
		if seen[column] {
			continue
		}
		seen[column] = true
		parts = append(parts, column+" "+direction)
	}

	if len(parts) == 0 {
		parts = append(parts, fallback)
	}
	if !seen[idColumn] {
		parts = append(parts, idColumn+" ASC")
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
