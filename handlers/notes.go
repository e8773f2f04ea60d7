package handlers

import (
	"context"
	"database/sql/driver"
	"errors"
	"html"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andreyantropov/SkillNotes/pkg/render"
	"github.com/andreyantropov/SkillNotes/repository"
	"github.com/andreyantropov/SkillNotes/types"

	"github.com/gin-gonic/gin"
)

type NotesHandler struct {
	repo *repository.NotesRepository
}

func NewNotesHandler(repo *repository.NotesRepository) *NotesHandler {
	return &NotesHandler{repo: repo}
}

// respondStorageError maps a repository error to a response. Connection and
// timeout failures are reported as retryable 503s; anything else is a 500.
func respondStorageError(c *gin.Context, err error) {
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &netErr) {
		c.JSON(http.StatusServiceUnavailable,
			types.NewErrorResponse(types.ErrorCodeStorageUnavailable, "Storage unavailable"))
		return
	}
	c.JSON(http.StatusInternalServerError,
		types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
}

func notFound(c *gin.Context) {
	// One body for "does not exist" and "owned by someone else".
	c.JSON(http.StatusNotFound,
		types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
}

func noteID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			types.NewErrorResponse(types.ErrorCodeValidation, "Invalid ID"))
		return 0, false
	}
	return id, true
}

func (h *NotesHandler) GetNotes(c *gin.Context) {
	userID := c.GetInt("userId")
	filter := types.CompileFilter(c.Query("age"), c.Query("search"), c.Query("page"), time.Now())
	notes, hasMore, err := h.repo.GetNotes(userID, filter)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    notes,
		"hasMore": hasMore,
	})
}

func (h *NotesHandler) GetNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	note, err := h.repo.GetNoteByID(c.GetInt("userId"), id)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	if note == nil {
		notFound(c)
		return
	}
	note.HTML = render.HTML(note.Text)
	c.JSON(http.StatusOK, note)
}

func (h *NotesHandler) CreateNote(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest,
			types.NewErrorResponse(types.ErrorCodeValidation, "Title must not be empty"))
		return
	}
	note, err := h.repo.CreateNote(c.GetInt("userId"), req.Title, req.Text)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// UpdateNote replaces title and text in full; callers resend both fields even
// when only one changed. The archive flag and creation date are untouched.
func (h *NotesHandler) UpdateNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest,
			types.NewErrorResponse(types.ErrorCodeValidation, "Title must not be empty"))
		return
	}
	note, err := h.repo.UpdateNote(c.GetInt("userId"), id, req.Title, req.Text)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	if note == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NotesHandler) ArchiveNote(c *gin.Context) {
	h.setArchived(c, true)
}

func (h *NotesHandler) UnarchiveNote(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *NotesHandler) setArchived(c *gin.Context, archived bool) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	note, err := h.repo.SetArchived(c.GetInt("userId"), id, archived)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	if note == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NotesHandler) DeleteNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	deleted, err := h.repo.DeleteNote(c.GetInt("userId"), id)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotesHandler) DeleteArchived(c *gin.Context) {
	count, err := h.repo.DeleteArchived(c.GetInt("userId"))
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": count})
}

// ExportNote serves the note rendered to HTML as a file download.
func (h *NotesHandler) ExportNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	note, err := h.repo.GetNoteByID(c.GetInt("userId"), id)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	if note == nil {
		notFound(c)
		return
	}

	body := "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>" +
		html.EscapeString(note.Title) + "</title>\n</head>\n<body>\n" +
		render.HTML(note.Text) + "</body>\n</html>\n"

	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": note.Title + ".html",
	})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}
