package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/service"
	"github.com/legal-portal-api/internal/validation"
)

// SearchHandler serves full-text search and the chatbot
type SearchHandler struct {
	handlerBase
	search    service.SearchService
	chatbot   service.ChatbotService
	validator *validation.Validator
}

// NewSearchHandler creates a search handler
func NewSearchHandler(services *service.Services, cfg *config.Config, validator *validation.Validator, log zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		handlerBase: handlerBase{cfg: cfg, log: log.With().Str("handler", "search").Logger()},
		search:      services.Search,
		chatbot:     services.Chatbot,
		validator:   validator,
	}
}

type chatbotRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}

// Search handles GET /v1/search?q=&locale=&limit=
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondValidationErrors(c, []validation.ValidationError{{Field: "q", Message: "q is required"}})
		return
	}

	results, err := h.search.Search(c.Request.Context(), query, currentLocale(c), intQuery(c, "limit", 0))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"results": results})
}

// Chat handles POST /v1/chatbot
func (h *SearchHandler) Chat(c *gin.Context) {
	var req chatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	reply, err := h.chatbot.Reply(c.Request.Context(), req.Message, currentLocale(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, reply)
}
