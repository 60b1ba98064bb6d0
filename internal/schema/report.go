package schema

import (
	"fmt"
	"slices"
)

// IssueKind — категория проблемы, найденной при проверке.
type IssueKind int

const (
	MissingKey IssueKind = iota + 1
	// TypeMismatchFixed — значение приведено к нужному типу, не ошибка.
	TypeMismatchFixed
	TypeMismatchFatal
	EnumMismatch
	PredicateFailed
)

var issueNames = map[IssueKind]string{
	MissingKey:        "missing_key",
	TypeMismatchFixed: "type_mismatch_fixed",
	TypeMismatchFatal: "type_mismatch",
	EnumMismatch:      "enum_mismatch",
	PredicateFailed:   "check_failed",
}

func (k IssueKind) String() string {
	if s, ok := issueNames[k]; ok {
		return s
	}
	return fmt.Sprintf("issue(%d)", int(k))
}

func (k IssueKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k IssueKind) Fatal() bool { return k != TypeMismatchFixed }

type Issue struct {
	Kind   IssueKind `json:"kind"`
	Path   string    `json:"path"`
	Detail string    `json:"detail,omitempty"`
}

// Report копит проблемы одного прохода. Errors() — упорядоченный список
// путей с фатальными проблемами (каждый путь один раз).
type Report struct {
	Issues []Issue
	errors []string
	seen   map[string]struct{}
}

func (r *Report) Add(kind IssueKind, path, detail string) {
	r.Issues = append(r.Issues, Issue{Kind: kind, Path: path, Detail: detail})
	if !kind.Fatal() {
		return
	}
	if r.seen == nil {
		r.seen = map[string]struct{}{}
	}
	if _, dup := r.seen[path]; dup {
		return
	}
	r.seen[path] = struct{}{}
	r.errors = append(r.errors, path)
}

func (r *Report) Errors() []string { return slices.Clone(r.errors) }

func (r *Report) Has(path string) bool {
	_, ok := r.seen[path]
	return ok
}

func (r *Report) OK() bool { return len(r.errors) == 0 }

// Count — число проблем данного вида.
func (r *Report) Count(kind IssueKind) int {
	n := 0
	for _, is := range r.Issues {
		if is.Kind == kind {
			n++
		}
	}
	return n
}
