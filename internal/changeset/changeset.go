// Package changeset queries the surrounding git repository for the set of
// files a checkpoint should capture: everything modified relative to HEAD
// plus everything untracked, with ignore rules honored.
package changeset

import "errors"

// ErrNotARepository indicates the invocation did not occur inside a git
// repository work tree.
var ErrNotARepository = errors.New("not inside a git repository")

// Kind classifies a status entry for checkpoint purposes.
type Kind int

const (
	// KindSkip marks entries that cannot be captured (unchanged, ignored,
	// or deleted from disk).
	KindSkip Kind = iota
	// KindModified marks tracked files that differ from the last commit.
	KindModified
	// KindUntracked marks files present on disk but unknown to git.
	KindUntracked
)

// Source supplies the current change set. Implementations must be free of
// side effects.
type Source interface {
	// Changes returns repository-relative paths: all modified files first,
	// in the provider's native order, then all untracked files.
	Changes() ([]string, error)
}

// partition splits classified (path, kind) pairs into the contractual
// modified-then-untracked ordering, preserving the input order within each
// group.
func partition(paths []string, kinds []Kind) []string {
	var modified, untracked []string
	for i, p := range paths {
		switch kinds[i] {
		case KindModified:
			modified = append(modified, p)
		case KindUntracked:
			untracked = append(untracked, p)
		}
	}
	return append(modified, untracked...)
}
