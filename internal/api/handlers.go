package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"healthchat/internal/chat"
	"healthchat/internal/models"
)

// Responder produces the reply text for one validated chat request.
type Responder interface {
	Respond(ctx context.Context, req *models.ChatRequest) (string, error)
}

// genericFailureMessage replaces internal error text on the wire. Raw upstream
// errors stay in the server logs.
const genericFailureMessage = "Sorry, something went wrong while generating a response. Please try again."

// Handler wires HTTP routes to the generation pipeline. A nil responder means
// the upstream API key is not configured; the chat route then answers 503.
type Handler struct {
	responder Responder
	log       *slog.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(responder Responder, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{responder: responder, log: log}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/chat", h.chat)
	api.GET("/health", h.health)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// chatPayload is the flexible wire form: the image field may be a data URL
// string or a {data, mimeType, name} object.
type chatPayload struct {
	Prompt   string          `json:"prompt"`
	Messages []models.Turn   `json:"messages"`
	Image    json.RawMessage `json:"image"`
}

func (h *Handler) chat(c *gin.Context) {
	var payload chatPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var image *models.ImageAttachment
	if len(payload.Image) > 0 && string(payload.Image) != "null" {
		att, err := chat.DecodeImagePayload(payload.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		image = att
	}

	prompt := strings.TrimSpace(payload.Prompt)
	if prompt == "" && len(payload.Messages) == 0 && image == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": chat.ErrEmptyRequest.Error()})
		return
	}
	if utf8.RuneCountInString(prompt) > chat.MaxMessageChars {
		// length errors pass through verbatim
		c.JSON(http.StatusBadRequest, gin.H{"error": chat.ErrMessageTooLong.Error()})
		return
	}

	if h.responder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation service is not configured"})
		return
	}

	req := &models.ChatRequest{Prompt: prompt, Messages: payload.Messages, Image: image}
	text, err := h.responder.Respond(c.Request.Context(), req)
	if err != nil {
		h.log.Error("generation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericFailureMessage})
		return
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, models.ChatResponse{
		Response:  text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
