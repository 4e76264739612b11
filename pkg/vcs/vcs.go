// Package vcs reads version-control facts for the debug snapshot
// directly from a git checkout, without shelling out. Every failure
// path yields empty fields: the snapshot renders a placeholder rather
// than aborting.
package vcs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Info describes the checked-out head of a repository. Zero-valued
// fields mean the fact was unavailable.
type Info struct {
	// Commit is the full head commit id.
	Commit string `json:"gitRevision"`

	// Branch is the current branch name, empty when detached.
	Branch string `json:"gitBranch"`

	// ViewURL is a browsable URL for the head commit.
	ViewURL string `json:"gitViewUrl"`
}

// Head resolves the head commit and branch of the repository at dir.
// viewURLTemplate, when non-empty, is a fmt template with one %s verb
// receiving the commit id. Missing or unreadable repository data
// returns a zero Info.
func Head(dir, viewURLTemplate string) Info {
	gitDir := resolveGitDir(dir)
	if gitDir == "" {
		return Info{}
	}

	head, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return Info{}
	}

	var info Info
	line := strings.TrimSpace(string(head))
	if ref, ok := strings.CutPrefix(line, "ref: "); ok {
		info.Branch = strings.TrimPrefix(ref, "refs/heads/")
		info.Commit = resolveRef(gitDir, ref)
	} else {
		// Detached head: HEAD holds the commit directly.
		info.Commit = line
	}

	if info.Commit != "" && viewURLTemplate != "" {
		info.ViewURL = fmt.Sprintf(viewURLTemplate, info.Commit)
	}
	return info
}

// resolveGitDir locates the .git directory for dir, following the
// "gitdir:" redirect file used by worktrees and submodules.
func resolveGitDir(dir string) string {
	path := filepath.Join(dir, ".git")
	fi, err := os.Stat(path)
	if err != nil {
		return ""
	}
	if fi.IsDir() {
		return path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir: ")
	if !ok {
		return ""
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return target
}

// resolveRef reads the commit a symbolic ref points at, checking the
// loose ref file first and packed-refs second.
func resolveRef(gitDir, ref string) string {
	if data, err := os.ReadFile(filepath.Join(gitDir, filepath.FromSlash(ref))); err == nil {
		return strings.TrimSpace(string(data))
	}

	packed, err := os.ReadFile(filepath.Join(gitDir, "packed-refs"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(packed), "\n") {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}
		commit, name, ok := strings.Cut(strings.TrimSpace(line), " ")
		if ok && name == ref {
			return commit
		}
	}
	return ""
}
