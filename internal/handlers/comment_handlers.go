package handlers

import (
	"net/http"
	"time"

	"assetTracker/internal/handlers/dto"
	"assetTracker/internal/logger"
	"assetTracker/internal/middleware"

	"go.uber.org/zap"
)

type CommentHandler struct {
	CommentService CommentService
}

func NewCommentHandler(commentService CommentService) CommentHandler {
	return CommentHandler{
		CommentService: commentService,
	}
}

func (h *CommentHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateCommentRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	actor := middleware.GetActor(r.Context())
	comment, err := h.CommentService.CreateComment(r.Context(), actor, request.AssetID, request.SprintID, request.Content)
	if err != nil {
		serviceError(w, r, "create_comment", err)
		return
	}

	logger.Info("HTTP_OUT: Комментарий создан",
		zap.String("comment_id", comment.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("comment", comment))
}

func (h *CommentHandler) ListAssetComments(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.CommentService.ListForAsset(r.Context(), id)
	if err != nil {
		serviceError(w, r, "list_asset_comments", err)
		return
	}

	responseWithList(w, http.StatusOK, "comments", comments)
}

func (h *CommentHandler) ListSprintComments(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.CommentService.ListForSprint(r.Context(), id)
	if err != nil {
		serviceError(w, r, "list_sprint_comments", err)
		return
	}

	responseWithList(w, http.StatusOK, "comments", comments)
}

func (h *CommentHandler) DeleteCommentByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.CommentService.DeleteComment(r.Context(), actor, id); err != nil {
		serviceError(w, r, "delete_comment", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
