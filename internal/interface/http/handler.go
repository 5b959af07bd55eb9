package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dotazy/faqbot/internal/domain/chat"
	"github.com/dotazy/faqbot/internal/domain/corpus"
)

// Handler wires the HTTP transport to the chat domain.
type Handler struct {
	chatSvc chat.Service
	corpus  *corpus.Corpus
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(chatSvc chat.Service, c *corpus.Corpus, logger *slog.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		corpus:  c,
		logger:  logger.With("component", "http.handler"),
	}
}

// Chatbot answers a free-text question passed as a query parameter.
// This is the legacy surface the frontend already talks to.
func (h *Handler) Chatbot(c *gin.Context) {
	h.answer(c, chat.Request{Query: c.Query("query")})
}

// Answer handles the JSON query endpoint.
func (h *Handler) Answer(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	h.answer(c, req)
}

func (h *Handler) answer(c *gin.Context, req chat.Request) {
	resp, err := h.chatSvc.Answer(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rate revises the rating of a previously answered question.
func (h *Handler) Rate(c *gin.Context) {
	var req chat.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	if err := h.chatSvc.Rate(c.Request.Context(), req); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RecentInteractions lists the newest logged interactions.
func (h *Handler) RecentInteractions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be an integer", err))
		return
	}

	items, err := h.chatSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"interactions": items})
}

// Health reports liveness. A service running on an empty corpus keeps
// serving fallbacks, so the degraded flag is how that state stays visible.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"corpusEntries": h.corpus.Len(),
		"degraded":      h.corpus.IsEmpty(),
	})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
