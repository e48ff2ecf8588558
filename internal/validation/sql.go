package validation

import (
	"fmt"
	"strings"
)

// StatementKind classifies a SQL statement by its effect
type StatementKind string

const (
	KindRead      StatementKind = "read"
	KindWrite     StatementKind = "write"
	KindForbidden StatementKind = "forbidden"
	KindUnknown   StatementKind = "unknown"
)

// Verdict is the outcome of validating a SQL statement
type Verdict struct {
	Allowed bool
	Kind    StatementKind
	Reason  string
}

// Read-level statements are always allowed
var readKeywords = map[string]bool{
	"SELECT":  true,
	"SHOW":    true,
	"VALUES":  true,
	"EXPLAIN": true,
	"TABLE":   true,
}

// Write-level statements require the caller to opt in
var writeKeywords = map[string]bool{
	"INSERT": true,
	"UPDATE": true,
	"DELETE": true,
	"MERGE":  true,
}

// Forbidden statements are rejected regardless of the write flag. This
// covers DDL, privilege changes, transaction and session control, and
// maintenance commands.
var forbiddenKeywords = map[string]bool{
	"DROP":       true,
	"TRUNCATE":   true,
	"ALTER":      true,
	"CREATE":     true,
	"COMMENT":    true,
	"GRANT":      true,
	"REVOKE":     true,
	"REASSIGN":   true,
	"BEGIN":      true,
	"START":      true,
	"COMMIT":     true,
	"END":        true,
	"ROLLBACK":   true,
	"ABORT":      true,
	"SAVEPOINT":  true,
	"RELEASE":    true,
	"PREPARE":    true,
	"EXECUTE":    true,
	"DEALLOCATE": true,
	"SET":        true,
	"RESET":      true,
	"DISCARD":    true,
	"LOCK":       true,
	"LISTEN":     true,
	"UNLISTEN":   true,
	"NOTIFY":     true,
	"COPY":       true,
	"CALL":       true,
	"DO":         true,
	"VACUUM":     true,
	"ANALYZE":    true,
	"REINDEX":    true,
	"CLUSTER":    true,
	"CHECKPOINT": true,
	"REFRESH":    true,
	"IMPORT":     true,
	"DECLARE":    true,
	"FETCH":      true,
	"MOVE":       true,
	"CLOSE":      true,
	"SECURITY":   true,
}

// Validate classifies a single SQL statement and decides whether it may
// run. Keyword checks operate on a copy of the statement with string
// literals, quoted identifiers and comments blanked out, so literal text
// such as 'DROP TABLE' never triggers a rejection.
func Validate(sql string, allowWrite bool) Verdict {
	cleaned := strings.TrimSpace(StripLiteralsAndComments(sql))
	if cleaned == "" {
		return Verdict{Kind: KindUnknown, Reason: "query is empty"}
	}

	if hasMultipleStatements(cleaned) {
		return Verdict{Kind: KindUnknown, Reason: "multiple statements are not allowed"}
	}

	keyword := leadingKeyword(cleaned)
	switch {
	case forbiddenKeywords[keyword]:
		return Verdict{Kind: KindForbidden,
			Reason: fmt.Sprintf("%s statements are not allowed", keyword)}

	case writeKeywords[keyword]:
		if !allowWrite {
			return Verdict{Kind: KindWrite,
				Reason: fmt.Sprintf("%s statements are not allowed without allow_write", keyword)}
		}
		return Verdict{Allowed: true, Kind: KindWrite}

	case keyword == "WITH":
		return validateCTE(cleaned, allowWrite)

	case keyword == "EXPLAIN":
		return validateExplain(cleaned, allowWrite)

	case keyword == "SELECT", keyword == "TABLE":
		if hasToken(cleaned, "INTO") {
			return Verdict{Kind: KindForbidden,
				Reason: "SELECT INTO statements are not allowed"}
		}
		return Verdict{Allowed: true, Kind: KindRead}

	case readKeywords[keyword]:
		return Verdict{Allowed: true, Kind: KindRead}

	default:
		return Verdict{Kind: KindForbidden,
			Reason: fmt.Sprintf("%s statements are not allowed", keyword)}
	}
}

// validateCTE classifies a WITH statement by scanning its body for
// data-modifying keywords.
func validateCTE(cleaned string, allowWrite bool) Verdict {
	for _, kw := range []string{"INSERT", "UPDATE", "DELETE", "MERGE"} {
		if hasToken(cleaned, kw) {
			if !allowWrite {
				return Verdict{Kind: KindWrite,
					Reason: fmt.Sprintf("data-modifying WITH statements using %s are not allowed without allow_write", kw)}
			}
			return Verdict{Allowed: true, Kind: KindWrite}
		}
	}
	if hasToken(cleaned, "INTO") {
		return Verdict{Kind: KindForbidden,
			Reason: "SELECT INTO statements are not allowed"}
	}
	return Verdict{Allowed: true, Kind: KindRead}
}

// validateExplain inspects the statement being explained. EXPLAIN ANALYZE
// actually executes the inner statement, so a write under ANALYZE needs
// the write flag just like running it directly would. Only the inner
// statement's leading keyword is classified, so identifiers that happen
// to collide with keywords (a column named "close" or "fetch") do not
// trigger a rejection.
func validateExplain(cleaned string, allowWrite bool) Verdict {
	inner, analyze := explainBody(cleaned)
	keyword := leadingKeyword(inner)

	switch {
	case writeKeywords[keyword]:
		if analyze && !allowWrite {
			return Verdict{Kind: KindWrite,
				Reason: fmt.Sprintf("EXPLAIN ANALYZE of %s statements is not allowed without allow_write", keyword)}
		}
		return Verdict{Allowed: true, Kind: KindRead}

	case keyword == "WITH":
		for _, kw := range []string{"INSERT", "UPDATE", "DELETE", "MERGE"} {
			if hasToken(inner, kw) {
				if analyze && !allowWrite {
					return Verdict{Kind: KindWrite,
						Reason: fmt.Sprintf("EXPLAIN ANALYZE of %s statements is not allowed without allow_write", kw)}
				}
				return Verdict{Allowed: true, Kind: KindRead}
			}
		}
		return Verdict{Allowed: true, Kind: KindRead}

	case readKeywords[keyword]:
		return Verdict{Allowed: true, Kind: KindRead}

	case keyword == "":
		return Verdict{Kind: KindUnknown, Reason: "EXPLAIN without a statement is not allowed"}

	default:
		return Verdict{Kind: KindForbidden,
			Reason: fmt.Sprintf("%s statements are not allowed", keyword)}
	}
}

// explainBody strips the EXPLAIN prefix and its options, reporting
// whether ANALYZE is among them.
func explainBody(cleaned string) (string, bool) {
	upper := strings.ToUpper(cleaned)
	idx := strings.Index(upper, "EXPLAIN")
	if idx < 0 {
		return cleaned, false
	}
	rest := strings.TrimSpace(cleaned[idx+len("EXPLAIN"):])

	analyze := false
	if strings.HasPrefix(rest, "(") {
		// Parenthesized option list: EXPLAIN (ANALYZE, FORMAT JSON) ...
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return "", false
		}
		analyze = hasToken(rest[1:end], "ANALYZE")
		rest = strings.TrimSpace(rest[end+1:])
	} else {
		// Bare option keywords: EXPLAIN ANALYZE VERBOSE ...
		for {
			kw := leadingKeyword(rest)
			if kw != "ANALYZE" && kw != "VERBOSE" {
				break
			}
			if kw == "ANALYZE" {
				analyze = true
			}
			rest = strings.TrimSpace(rest[len(kw):])
		}
	}

	return rest, analyze
}

// hasMultipleStatements reports whether the cleaned statement contains
// more than one statement. A single trailing semicolon is fine.
func hasMultipleStatements(cleaned string) bool {
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleaned), ";"))
	return strings.Contains(body, ";")
}

// leadingKeyword returns the first keyword of the statement, uppercased.
// Leading parentheses are skipped so "(SELECT 1)" classifies as SELECT.
func leadingKeyword(cleaned string) string {
	trimmed := strings.TrimLeft(cleaned, "( \t\r\n")
	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '(' || r == ';'
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// hasToken reports whether the cleaned statement contains the keyword as
// a standalone word.
func hasToken(cleaned, keyword string) bool {
	upper := strings.ToUpper(cleaned)
	idx := 0
	for {
		pos := strings.Index(upper[idx:], keyword)
		if pos < 0 {
			return false
		}
		pos += idx
		end := pos + len(keyword)
		beforeOK := pos == 0 || !isWordByte(upper[pos-1])
		afterOK := end == len(upper) || !isWordByte(upper[end])
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// StripLiteralsAndComments blanks out string literals, quoted identifiers,
// dollar-quoted strings and comments. Literals are replaced with empty
// quotes so the statement shape survives for the semicolon check.
func StripLiteralsAndComments(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))

	i := 0
	n := len(sql)
	for i < n {
		c := sql[i]
		switch {
		case c == '-' && i+1 < n && sql[i+1] == '-':
			for i < n && sql[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < n && sql[i+1] == '*':
			depth := 1
			i += 2
			for i < n && depth > 0 {
				if sql[i] == '/' && i+1 < n && sql[i+1] == '*' {
					depth++
					i += 2
					continue
				}
				if sql[i] == '*' && i+1 < n && sql[i+1] == '/' {
					depth--
					i += 2
					continue
				}
				i++
			}

		case c == '\'':
			i = skipQuoted(sql, i, '\'')
			b.WriteString("''")

		case c == '"':
			i = skipQuoted(sql, i, '"')
			b.WriteString(`""`)

		case c == '$':
			tag, ok := dollarTag(sql[i:])
			if !ok {
				b.WriteByte(c)
				i++
				continue
			}
			rest := sql[i+len(tag):]
			end := strings.Index(rest, tag)
			if end < 0 {
				i = n
			} else {
				i += len(tag) + end + len(tag)
			}
			b.WriteString("''")

		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String()
}

// skipQuoted advances past a quoted region starting at sql[start], where
// a doubled quote character is an escape.
func skipQuoted(sql string, start int, quote byte) int {
	i := start + 1
	n := len(sql)
	for i < n {
		if sql[i] == quote {
			if i+1 < n && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return n
}

// dollarTag extracts a dollar-quote tag such as $$ or $body$ from the
// start of s. Parameter placeholders like $1 are not tags.
func dollarTag(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	if s[1] >= '0' && s[1] <= '9' {
		return "", false
	}
	for j := 1; j < len(s); j++ {
		c := s[j]
		if c == '$' {
			return s[:j+1], true
		}
		if !isWordByte(c) {
			return "", false
		}
	}
	return "", false
}
