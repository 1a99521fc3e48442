package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"cryolab-data/internal/domain"
	"cryolab-data/internal/repository"

	"go.uber.org/zap"
)

const postsPrefix = "/lab/api/v1/posts"

// PostsHandler 实验室内部博客 HTTP 入口
type PostsHandler struct {
	repo   repository.PostsRepository
	logger *zap.Logger
}

func NewPostsHandler(repo repository.PostsRepository, logger *zap.Logger) *PostsHandler {
	return &PostsHandler{repo: repo, logger: logger}
}

type postRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Author string `json:"author"`
}

func (req *postRequest) validate() []string {
	var errs []string
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	}
	if len(req.Title) > 255 {
		errs = append(errs, "title must be at most 255 characters")
	}
	if strings.TrimSpace(req.Body) == "" {
		errs = append(errs, "body is required")
	}
	if strings.TrimSpace(req.Author) == "" {
		errs = append(errs, "author is required")
	}
	return errs
}

// Collection handles /lab/api/v1/posts (list + create).
func (h *PostsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page := parseInt(r.URL.Query().Get("page"), 1)
		size := parseInt(r.URL.Query().Get("size"), 20)
		items, total, err := h.repo.ListPosts(r.Context(), page, size)
		if err != nil {
			h.logger.Error("list posts failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to list posts"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": total}))
	case http.MethodPost:
		var req postRequest
		if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		if errs := req.validate(); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, FailValidation(errs))
			return
		}
		id, err := h.repo.CreatePost(r.Context(), &domain.Post{
			Title:  strings.TrimSpace(req.Title),
			Body:   req.Body,
			Author: strings.TrimSpace(req.Author),
		})
		if err != nil {
			h.logger.Error("create post failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to create post"))
			return
		}
		writeJSON(w, http.StatusCreated, Ok(map[string]any{"post_id": id}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ByID handles /lab/api/v1/posts/{id}.
func (h *PostsHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, postsPrefix+"/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := h.repo.GetPost(r.Context(), id)
		if err != nil {
			h.writeError(w, err, "failed to get post")
			return
		}
		writeJSON(w, http.StatusOK, Ok(p))
	case http.MethodPut:
		var req postRequest
		if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		if errs := req.validate(); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, FailValidation(errs))
			return
		}
		err := h.repo.UpdatePost(r.Context(), id, &domain.Post{
			Title:  strings.TrimSpace(req.Title),
			Body:   req.Body,
			Author: strings.TrimSpace(req.Author),
		})
		if err != nil {
			h.writeError(w, err, "failed to update post")
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"post_id": id}))
	case http.MethodDelete:
		if err := h.repo.DeletePost(r.Context(), id); err != nil {
			h.writeError(w, err, "failed to delete post")
			return
		}
		writeJSON(w, http.StatusOK, Ok(nil))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *PostsHandler) writeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("post not found"))
		return
	}
	h.logger.Error(msg, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail(msg))
}
