package store

import "strings"

// QuoteIdentifier wraps a SQL identifier in double quotes so names that
// collide with reserved words or contain punctuation survive execution.
// Already-quoted input passes through unchanged; otherwise any embedded
// double quotes are stripped and a fresh pair is added. Idempotent.
//
// This is a usability shim, not an injection defense.
func QuoteIdentifier(identifier string) string {
	if len(identifier) >= 2 && strings.HasPrefix(identifier, `"`) && strings.HasSuffix(identifier, `"`) {
		return identifier
	}
	return `"` + strings.ReplaceAll(identifier, `"`, "") + `"`
}

// PreprocessQuery rewrites bare identifiers that follow FROM or JOIN
// (case-insensitive) into quoted identifiers and rejoins the tokens with
// single spaces.
//
// The rewrite is purely lexical: the query is split on whitespace and only
// keyword adjacency is considered. Qualified names, subqueries and aliases
// sitting right after FROM/JOIN are quoted token-by-token, which can
// produce surprising results. That trade-off is deliberate; do not replace
// this with a SQL parser.
func PreprocessQuery(query string) string {
	tokens := strings.Fields(query)
	processed := make([]string, 0, len(tokens))
	previous := ""
	for _, token := range tokens {
		switch strings.ToUpper(previous) {
		case "FROM", "JOIN":
			token = QuoteIdentifier(token)
		}
		processed = append(processed, token)
		previous = token
	}
	return strings.Join(processed, " ")
}
