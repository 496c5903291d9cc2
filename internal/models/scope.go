package models

import (
	"fmt"
	"sort"
	"strings"
)

// ScopeSet is an unordered set of scope names. A nil ScopeSet means the
// caller requested no scope restriction, which is distinct from an empty
// set produced by an empty scope string.
type ScopeSet map[string]struct{}

// NewScopeSet builds a set from the given scope names, collapsing duplicates.
func NewScopeSet(scopes ...string) ScopeSet {
	s := make(ScopeSet, len(scopes))
	for _, scope := range scopes {
		s[scope] = struct{}{}
	}
	return s
}

// ParseScopeSet splits a whitespace-delimited scope string into a set.
func ParseScopeSet(raw string) ScopeSet {
	return NewScopeSet(strings.Fields(raw)...)
}

// NormalizeScope converts an untyped request value into a ScopeSet.
// Strings are split on whitespace; string slices (including JSON arrays
// decoded as []interface{}) are collected into a set; nil stays nil,
// meaning "no restriction requested". Anything else is an error.
func NormalizeScope(v interface{}) (ScopeSet, error) {
	switch scope := v.(type) {
	case nil:
		return nil, nil
	case string:
		return ParseScopeSet(scope), nil
	case []string:
		return NewScopeSet(scope...), nil
	case []interface{}:
		s := make(ScopeSet, len(scope))
		for _, item := range scope {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%v is not a string, or a sequence of strings", v)
			}
			s[str] = struct{}{}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%v is not a string, or a sequence of strings", v)
	}
}

// Contains reports whether scope is a member of the set.
func (s ScopeSet) Contains(scope string) bool {
	_, ok := s[scope]
	return ok
}

// SubsetOf reports whether every scope in s is also in other.
func (s ScopeSet) SubsetOf(other ScopeSet) bool {
	for scope := range s {
		if !other.Contains(scope) {
			return false
		}
	}
	return true
}

// Slice returns the scopes in sorted order.
func (s ScopeSet) Slice() []string {
	scopes := make([]string, 0, len(s))
	for scope := range s {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes
}

// String serializes the set as a space-joined sorted scope string.
func (s ScopeSet) String() string {
	return strings.Join(s.Slice(), " ")
}

// Equal reports set equality regardless of ordering.
func (s ScopeSet) Equal(other ScopeSet) bool {
	return len(s) == len(other) && s.SubsetOf(other)
}
