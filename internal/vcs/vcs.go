// Package vcs guards documents against being overwritten while they carry
// uncommitted changes.
package vcs

import (
	stderrors "errors"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/xrefsync/internal/foundation/errors"
	"github.com/go-git/go-git/v5"
)

// DirtyDocuments returns the modified, staged or untracked files ending in ext
// below root, relative to root with forward slashes and sorted. A root that is
// not inside a git repository has no dirty documents.
func DirtyDocuments(root, ext string) ([]string, error) {
	abs, err := resolve(root)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, errors.GitError("open repository").WithCause(err).WithContext("root", root).Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		if stderrors.Is(err, git.ErrIsBareRepository) {
			return nil, nil
		}
		return nil, errors.GitError("open worktree").WithCause(err).WithContext("root", root).Build()
	}

	status, err := wt.Status()
	if err != nil {
		return nil, errors.GitError("worktree status").WithCause(err).WithContext("root", root).Build()
	}

	top, err := resolve(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	prefix, err := filepath.Rel(top, abs)
	if err != nil {
		return nil, errors.GitError("locate root in worktree").WithCause(err).WithContext("root", root).Build()
	}
	prefix = filepath.ToSlash(prefix)
	if prefix == "." {
		prefix = ""
	} else {
		prefix += "/"
	}

	var dirty []string
	for file, st := range status {
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		if !strings.HasPrefix(file, prefix) || !strings.HasSuffix(file, ext) {
			continue
		}
		dirty = append(dirty, strings.TrimPrefix(file, prefix))
	}
	sort.Strings(dirty)
	return dirty, nil
}

func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.FileSystemError("resolve path").WithCause(err).WithContext("path", path).Build()
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return abs, nil
}
