package search

import (
	"fmt"
	"strings"
)

type User struct {
	ID          string
	DisplayName string
}

// UserMode — по какому полю ищется пользователь.
type UserMode int

const (
	UserByName UserMode = iota
	UserByID
	UserByNameID
)

// MatchMethod — способ сравнения запроса с кандидатом.
type MatchMethod string

const (
	MatchFull     MatchMethod = "full"
	MatchContains MatchMethod = "contains"
	MatchStarts   MatchMethod = "starts"
	MatchEnds     MatchMethod = "ends"
)

func ParseMatchMethod(s string) (MatchMethod, error) {
	switch m := MatchMethod(strings.ToLower(s)); m {
	case MatchFull, MatchContains, MatchStarts, MatchEnds:
		return m, nil
	}
	return "", fmt.Errorf("search: unknown match method %q", s)
}

func (m MatchMethod) Match(candidate, query string) bool {
	switch m {
	case MatchFull:
		return candidate == query
	case MatchContains:
		return strings.Contains(candidate, query)
	case MatchStarts:
		return strings.HasPrefix(candidate, query)
	case MatchEnds:
		return strings.HasSuffix(candidate, query)
	}
	return false
}

// FindUsers ищет среди users. Имя сравнивается после Fold с обеих
// сторон, id сравнивается как есть. В UserByNameID к совпадениям по имени
// добавляются совпадения по id без повторов.
func FindUsers(query string, users []User, mode UserMode, method MatchMethod, f *Folder) []User {
	var out []User
	seen := map[string]bool{}
	add := func(u User) {
		if !seen[u.ID] {
			seen[u.ID] = true
			out = append(out, u)
		}
	}
	if mode == UserByName || mode == UserByNameID {
		q := f.Fold(query)
		for _, u := range users {
			if u.DisplayName != "" && method.Match(f.Fold(u.DisplayName), q) {
				add(u)
			}
		}
	}
	if mode == UserByID || mode == UserByNameID {
		for _, u := range users {
			if method.Match(u.ID, query) {
				add(u)
			}
		}
	}
	return out
}
