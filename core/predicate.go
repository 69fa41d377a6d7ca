package core

import (
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Default target columns for the predicate builders.
const (
	NamespaceField = "rc_page_namespace"
	UserField      = "tu_name"
	UserIDField    = "rc_user_id"
	PageField      = "tp_title"
	PageIDField    = "rc_page_id"
	WeekField      = "rc_wikiweek"
)

// The builders below turn pipe-delimited raw parameter values into squirrel
// predicate fragments. Bad tokens are dropped or defaulted, never raised:
// that permissiveness is part of the documented contract. Every literal is
// carried as a bound argument, so the rendered SQL is injection-safe
// regardless of input.

// NamespacePredicate builds an inclusion predicate from a list like
// "Article|Talk|4". Tokens are numeric ids or canonical names; negative or
// unresolvable tokens are dropped. An empty result falls back to the
// Article namespace on the edit cache column, matching the historical
// behavior even when a custom field was requested.
func NamespacePredicate(raw, field string) sq.Sqlizer {
	if field == "" {
		field = NamespaceField
	}
	var ids []int
	for _, tok := range strings.Split(raw, "|") {
		id, err := strconv.Atoi(tok)
		if err != nil {
			resolved, ok := NamespaceID(tok)
			if !ok {
				continue
			}
			id = resolved
		}
		if id >= 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return sq.Eq{NamespaceField: ArticleNamespace}
	}
	return sq.Eq{field: ids}
}

// UserPredicate builds an exact inclusion predicate from a list like
// "User1|User2". Values are matched as literals; no further validation.
func UserPredicate(raw, field string) sq.Sqlizer {
	if field == "" {
		field = UserField
	}
	return sq.Eq{field: strings.Split(raw, "|")}
}

// PagePredicate builds a title predicate from a list like "Page1|Page2".
// With subpages enabled each token also matches any title under "token/".
func PagePredicate(raw, field string, subpages bool) sq.Sqlizer {
	if field == "" {
		field = PageField
	}
	var clauses sq.Or
	for _, tok := range strings.Split(raw, "|") {
		if subpages {
			clauses = append(clauses, sq.Or{
				sq.Like{field: tok + "/%"},
				sq.Eq{field: tok},
			})
		} else {
			clauses = append(clauses, sq.Eq{field: tok})
		}
	}
	return clauses
}

// IDListPredicate builds a numeric inclusion predicate from a list like
// "12|34". Non-numeric tokens are dropped silently; an all-dropped input
// yields an empty inclusion set, which matches no rows.
func IDListPredicate(raw, field string) sq.Sqlizer {
	if field == "" {
		field = PageIDField
	}
	ids := numericTokens(strings.Split(raw, "|"))
	return sq.Eq{field: ids}
}

// PageWeekPredicate builds a compound predicate from an alternating list
// "page1|210,211|page2|300,301": an OR of per-page AND(title match,
// week-in-set) clauses. Non-integer week tokens are dropped silently.
func PageWeekPredicate(raw string) sq.Sqlizer {
	parts := strings.Split(raw, "|")
	var clauses sq.Or
	var page string
	for i, part := range parts {
		if i%2 == 0 {
			page = part
			continue
		}
		weeks := numericTokens(strings.Split(part, ","))
		clauses = append(clauses, sq.And{
			sq.Eq{PageField: page},
			sq.Eq{WeekField: weeks},
		})
	}
	return clauses
}

// numericTokens keeps only tokens that parse as integers.
func numericTokens(tokens []string) []int64 {
	ids := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
