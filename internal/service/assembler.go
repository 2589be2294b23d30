// Package service holds logic that spans multiple repositories.
package service

import (
	"context"
	"slices"

	"pixelgram/internal/model"
	"pixelgram/internal/repository"
)

const (
	// commentRowBudget caps the rows fetched by the batch comment query for
	// one page of posts.  It bounds the whole page, not each post, so
	// CommentCount can undercount when a page's comments exceed it.  That
	// undercount is an accepted approximation kept for compatibility.
	commentRowBudget = 20

	// previewComments is how many comments a post shows in feed listings.
	previewComments = 3
)

// Assembler enriches post rows with their owners, comments and comment
// counts using batch queries: one for comments, one for users, never one per
// post.
type Assembler struct {
	Comments *repository.CommentRepo
	Users    *repository.UserRepo
}

func NewAssembler(comments *repository.CommentRepo, users *repository.UserRepo) *Assembler {
	return &Assembler{Comments: comments, Users: users}
}

// Assemble attaches users, comments and comment counts to the given posts
// and drops any post whose owner is banned or missing.  Input order is
// preserved.  With allComments, a post carries every comment the batch query
// returned instead of the three-comment preview.  Given no posts it returns
// immediately without touching storage.
func (a *Assembler) Assemble(ctx context.Context, posts []model.Post, allComments bool) ([]model.Post, error) {
	if len(posts) == 0 {
		return nil, nil
	}

	postIDs := make([]int, len(posts))
	ownerIDs := make(map[int]struct{}, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		ownerIDs[p.UserID] = struct{}{}
	}

	limit := commentRowBudget
	if !allComments {
		limit = min(previewComments*len(posts), commentRowBudget)
	}
	comments, err := a.Comments.ListForPosts(ctx, postIDs, limit)
	if err != nil {
		return nil, err
	}

	userIDs := make([]int, 0, len(ownerIDs)+len(comments))
	for id := range ownerIDs {
		userIDs = append(userIDs, id)
	}
	for _, c := range comments {
		if _, seen := ownerIDs[c.UserID]; !seen {
			ownerIDs[c.UserID] = struct{}{}
			userIDs = append(userIDs, c.UserID)
		}
	}
	slices.Sort(userIDs)
	users, err := a.Users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	// Comments arrive newest-first per post; keep the preview window then
	// flip back to chronological order.
	byPost := make(map[int][]model.Comment, len(posts))
	counts := make(map[int]int, len(posts))
	for _, c := range comments {
		counts[c.PostID]++
		if !allComments && len(byPost[c.PostID]) >= previewComments {
			continue
		}
		if u, ok := users[c.UserID]; ok {
			c.User = &u
		}
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}

	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		kept := byPost[p.ID]
		slices.Reverse(kept)
		p.Comments = kept
		p.CommentCount = counts[p.ID]

		owner, ok := users[p.UserID]
		if !ok || owner.Banned() {
			continue
		}
		p.User = &owner
		out = append(out, p)
	}
	return out, nil
}
