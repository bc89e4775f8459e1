// Package api exposes extraction and the result store over HTTP with gin.
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/leofalp/tabex/core/extract"
	"github.com/leofalp/tabex/core/store"
)

// DefaultSession is used when a request names no session.
const DefaultSession = "default"

// Messages returned by GET /api/check-config.
const (
	MessageConfigured    = "API key is configured"
	MessageNotConfigured = "API key is not configured"
)

// Handler serves the tabex HTTP API.
type Handler struct {
	// Extractors maps each accepted dialect to the extractor serving it.
	Extractors map[extract.Dialect]*extract.Extractor
	// DefaultDialect is used when an upload names no dialect.
	DefaultDialect extract.Dialect
	Store          *store.ResultStore
	// Configured reports whether the model API key is set.
	Configured func() bool
	Logger     *slog.Logger
}

type updateTableRequest struct {
	Data [][]string `json:"data" binding:"required"`
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func session(c *gin.Context) string {
	if s := strings.TrimSpace(c.Query("session")); s != "" {
		return s
	}
	if s := strings.TrimSpace(c.PostForm("session")); s != "" {
		return s
	}
	return DefaultSession
}

// HandleUpload runs an extraction on the multipart "file" field and stores
// the result for the session. Results from requests superseded by a later
// upload are returned but not stored.
func (h *Handler) HandleUpload(c *gin.Context) {
	dialect := h.DefaultDialect
	if name := c.PostForm("dialect"); name != "" {
		d, err := extract.ParseDialect(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dialect = d
	}
	extractor, ok := h.Extractors[dialect]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dialect " + string(dialect) + " is not available"})
		return
	}

	doc, err := readDocument(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := session(c)
	ticket := h.Store.Begin(sess)

	result, err := extractor.Extract(c.Request.Context(), doc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.Store.Apply(ticket, *result) {
		h.logger().InfoContext(c.Request.Context(), "Superseded extraction result discarded",
			slog.String("session", sess),
			slog.String("request_id", ticket.RequestID),
		)
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}

func readDocument(c *gin.Context) (*extract.Document, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, extract.ErrNoDocument
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	doc := &extract.Document{Name: header.Filename, MimeType: mimeType, Data: data}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// HandleCheckConfig reports whether the model API key is configured.
func (h *Handler) HandleCheckConfig(c *gin.Context) {
	configured := h.Configured != nil && h.Configured()
	message := MessageNotConfigured
	if configured {
		message = MessageConfigured
	}
	c.JSON(http.StatusOK, gin.H{"configured": configured, "message": message})
}

// HandleGetTables returns the latest stored result of the session.
func (h *Handler) HandleGetTables(c *gin.Context) {
	result, ok := h.Store.Latest(session(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no extraction result for this session"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleUpdateTable replaces the rows of one stored table.
func (h *Handler) HandleUpdateTable(c *gin.Context) {
	var req updateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"data\": [[...], ...]}"})
		return
	}

	updated, err := h.Store.UpdateTableData(session(c), c.Param("id"), req.Data)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "table": updated})
}

// HandleClearTables forgets the stored result of the session.
func (h *Handler) HandleClearTables(c *gin.Context) {
	h.Store.Clear(session(c))
	c.Status(http.StatusNoContent)
}
