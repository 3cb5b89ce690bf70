package handlers

import (
	"net/http"
	"strings"

	"moltnet/dto"
	"moltnet/repositories"
)

// SearchHandler handles full-text-ish search over posts and comments.
type SearchHandler struct {
	PostRepo    *repositories.PostRepository
	CommentRepo *repositories.CommentRepository
	PostHandler *PostHandler
}

func NewSearchHandler(postRepo *repositories.PostRepository, commentRepo *repositories.CommentRepository, postHandler *PostHandler) *SearchHandler {
	return &SearchHandler{PostRepo: postRepo, CommentRepo: commentRepo, PostHandler: postHandler}
}

// Posts searches post titles and contents.
func (h *SearchHandler) Posts(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		invalidInput(w, "Search query is required")
		return
	}
	sort := r.URL.Query().Get("sort")

	posts, err := h.PostRepo.Search(term, sort, feedLimit(r))
	if err != nil {
		internalError(w, "Post search failed", err)
		return
	}

	payload, err := h.PostHandler.postDTOs(posts)
	if err != nil {
		internalError(w, "Search stats failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"query": term,
		"count": len(payload),
		"posts": payload,
	})
}

// Comments searches comment contents.
func (h *SearchHandler) Comments(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		invalidInput(w, "Search query is required")
		return
	}

	comments, err := h.CommentRepo.Search(term, feedLimit(r))
	if err != nil {
		internalError(w, "Comment search failed", err)
		return
	}

	payload := make([]dto.CommentDTO, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		upvotes, err := h.CommentRepo.CountUpvotes(c.ID)
		if err != nil {
			internalError(w, "Search stats failed", err)
			return
		}
		payload = append(payload, dto.CommentDTO{
			ID:        c.ID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Author:    dto.NewAgentRef(&c.Author),
			Upvotes:   upvotes,
			Post:      &dto.PostRef{ID: c.Post.ID, Title: c.Post.Title},
		})
	}

	respondSuccess(w, map[string]interface{}{
		"query":    term,
		"count":    len(payload),
		"comments": payload,
	})
}
