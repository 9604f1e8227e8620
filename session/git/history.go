package git

import (
	"strings"

	"github.com/dustin/go-humanize"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Commit is one entry of the upstream history, trimmed down to what the
// dashboard shows.
type Commit struct {
	// Hash is the abbreviated commit id.
	Hash string
	// Author is the committer's name.
	Author string
	// When is the commit age rendered relative to now, e.g. "2 minutes ago".
	When string
	// Message is the commit subject line.
	Message string
}

// RecentCommits returns up to count commits from the repository at repoPath,
// most recent first. The repository may be bare. This feeds a best-effort
// dashboard, so any failure degrades to an empty result instead of an error.
func RecentCommits(repoPath string, count int) []Commit {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil
	}
	head, err := repo.Head()
	if err != nil {
		return nil
	}
	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil
	}
	defer iter.Close()

	var commits []Commit
	_ = iter.ForEach(func(c *object.Commit) error {
		if len(commits) >= count {
			return storer.ErrStop
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		commits = append(commits, Commit{
			Hash:    c.Hash.String()[:8],
			Author:  c.Author.Name,
			When:    humanize.Time(c.Author.When),
			Message: strings.TrimSpace(subject),
		})
		return nil
	})
	return commits
}
