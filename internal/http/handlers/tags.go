package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hongminglow/jbudget-be/internal/http/respond"
	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/models/dto"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

// TagHandler serves the per-user tag catalogue.
type TagHandler struct {
	tags storage.TagStore
	txs  storage.TransactionStore
	log  logrus.FieldLogger
}

// NewTagHandler constructs the handler.
func NewTagHandler(tags storage.TagStore, txs storage.TransactionStore, log logrus.FieldLogger) *TagHandler {
	return &TagHandler{tags: tags, txs: txs, log: log}
}

// Register attaches tag routes to the mux. Every route requires a signed-in user.
func (h *TagHandler) Register(mux *http.ServeMux, protect Middleware) {
	mux.Handle("GET /api/tags", protect(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /api/tags", protect(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /api/tags/{id}", protect(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/tags/{id}", protect(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /api/tags/{id}", protect(http.HandlerFunc(h.handleDelete)))
}

func (h *TagHandler) handleList(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListTags(r.Context(), currentUser(r).ID)
	if err != nil {
		serverError(w, r, h.log, "list tags", err)
		return
	}
	respond.JSON(w, http.StatusOK, tags)
}

func (h *TagHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r).ID
	tag, err := h.tags.FindTag(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.tagError(w, r, "get tag", err)
		return
	}
	txs, err := h.txs.ListTransactions(r.Context(), userID, storage.TransactionFilter{TagID: tag.ID})
	if err != nil {
		serverError(w, r, h.log, "get tag: list transactions", err)
		return
	}
	respond.JSON(w, http.StatusOK, models.TagWithTransactions{Tag: tag, Transactions: txs})
}

func (h *TagHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, errs := validateTag(req)
	if len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}
	userID := currentUser(r).ID
	if !h.ensureNameFree(w, r, userID, name) {
		return
	}

	tag := models.Tag{UserID: userID, Name: name, Color: req.Color, Description: trimmedPtr(req.Description)}
	if tag.Color == "" {
		tag.Color = models.DefaultTagColor
	}
	created, err := h.tags.CreateTag(r.Context(), tag)
	if err != nil {
		h.tagError(w, r, "create tag", err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *TagHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, errs := validateTag(req)
	if len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}
	userID := currentUser(r).ID
	tag, err := h.tags.FindTag(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.tagError(w, r, "update tag: find", err)
		return
	}
	if name != tag.Name && !h.ensureNameFree(w, r, userID, name) {
		return
	}

	tag.Name = name
	if req.Color != "" {
		tag.Color = req.Color
	}
	if req.Description != nil {
		tag.Description = trimmedPtr(req.Description)
	}
	updated, err := h.tags.UpdateTag(r.Context(), tag)
	if err != nil {
		h.tagError(w, r, "update tag", err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *TagHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.tags.DeleteTag(r.Context(), currentUser(r).ID, r.PathValue("id")); err != nil {
		h.tagError(w, r, "delete tag", err)
		return
	}
	respond.Message(w, http.StatusOK, "Tag deleted successfully")
}

// ensureNameFree answers 400 itself when the user already owns a tag called name.
func (h *TagHandler) ensureNameFree(w http.ResponseWriter, r *http.Request, userID, name string) bool {
	_, err := h.tags.FindTagByName(r.Context(), userID, name)
	switch {
	case err == nil:
		respond.Error(w, http.StatusBadRequest, "Tag with this name already exists")
		return false
	case errors.Is(err, storage.ErrNotFound):
		return true
	default:
		serverError(w, r, h.log, "find tag by name", err)
		return false
	}
}

func (h *TagHandler) tagError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Tag not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusBadRequest, "Tag with this name already exists")
	default:
		serverError(w, r, h.log, op, err)
	}
}

func validateTag(req dto.TagRequest) (string, fieldErrors) {
	var errs fieldErrors
	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs.add("name", "Tag name is required")
	}
	if req.Color != "" && !colorRegex.MatchString(req.Color) {
		errs.add("color", "Color must be a valid hex color code")
	}
	return name, errs
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
