package changeset

import (
	"fmt"
	"path/filepath"

	git2go "github.com/libgit2/git2go/v34"
)

// GitSource reads the change set from a libgit2 repository.
type GitSource struct {
	repo *git2go.Repository
	root string
}

// Discover locates the repository containing startDir and opens it. Fails
// with ErrNotARepository when startDir is not inside a work tree. This is
// the single startup check; Changes itself assumes a valid repository.
func Discover(startDir string) (*GitSource, error) {
	gitDir, err := git2go.Discover(startDir, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, startDir)
	}

	repo, err := git2go.OpenRepository(gitDir)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	if repo.IsBare() {
		repo.Free()
		return nil, fmt.Errorf("%w: bare repository at %s", ErrNotARepository, gitDir)
	}

	return &GitSource{
		repo: repo,
		root: filepath.Clean(repo.Workdir()),
	}, nil
}

// Root returns the repository work-tree root. Checkpoint storage and all
// relative paths anchor here.
func (s *GitSource) Root() string {
	return s.root
}

// Free releases the underlying repository resources.
func (s *GitSource) Free() {
	if s.repo != nil {
		s.repo.Free()
		s.repo = nil
	}
}

// Changes returns the current change set: modified files first, then
// untracked files, in libgit2's status order. Ignored files are excluded,
// and files deleted from disk are skipped since they cannot be archived.
func (s *GitSource) Changes() ([]string, error) {
	opts := &git2go.StatusOptions{
		Show: git2go.StatusShowIndexAndWorkdir,
		Flags: git2go.StatusOptIncludeUntracked |
			git2go.StatusOptRecurseUntrackedDirs |
			git2go.StatusOptExcludeSubmodules,
	}

	list, err := s.repo.StatusList(opts)
	if err != nil {
		return nil, fmt.Errorf("reading repository status: %w", err)
	}
	defer list.Free()

	count, err := list.EntryCount()
	if err != nil {
		return nil, fmt.Errorf("counting status entries: %w", err)
	}

	paths := make([]string, 0, count)
	kinds := make([]Kind, 0, count)
	for i := 0; i < count; i++ {
		entry, err := list.ByIndex(i)
		if err != nil {
			return nil, fmt.Errorf("reading status entry %d: %w", i, err)
		}
		path := entryPath(entry)
		if path == "" {
			continue
		}
		paths = append(paths, path)
		kinds = append(kinds, classify(entry.Status))
	}

	return partition(paths, kinds), nil
}

// entryPath extracts the work-tree path from a status entry, preferring the
// workdir side of the delta.
func entryPath(entry git2go.StatusEntry) string {
	if p := entry.IndexToWorkdir.NewFile.Path; p != "" {
		return p
	}
	if p := entry.IndexToWorkdir.OldFile.Path; p != "" {
		return p
	}
	if p := entry.HeadToIndex.NewFile.Path; p != "" {
		return p
	}
	return entry.HeadToIndex.OldFile.Path
}

// classify maps a git status to a change-set kind. Deletions map to
// KindSkip: a file that is gone from disk has no bytes to capture.
func classify(status git2go.Status) Kind {
	switch {
	case status&(git2go.StatusWtDeleted|git2go.StatusIndexDeleted) != 0:
		return KindSkip
	case status&git2go.StatusIgnored != 0:
		return KindSkip
	case status&git2go.StatusWtNew != 0:
		return KindUntracked
	case status&(git2go.StatusWtModified|
		git2go.StatusWtTypeChange|
		git2go.StatusWtRenamed|
		git2go.StatusIndexNew|
		git2go.StatusIndexModified|
		git2go.StatusIndexRenamed|
		git2go.StatusIndexTypeChange|
		git2go.StatusConflicted) != 0:
		return KindModified
	default:
		return KindSkip
	}
}

// Compile-time check that GitSource implements Source.
var _ Source = (*GitSource)(nil)
