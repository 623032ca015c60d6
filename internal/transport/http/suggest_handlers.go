package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/codepair/codepair-server/internal/suggest"
)

// SuggestHandlers provides HTTP handlers for autocomplete endpoints.
type SuggestHandlers struct {
	suggester *suggest.Service
	log       *zerolog.Logger
}

// NewSuggestHandlers creates a new suggest handlers instance.
func NewSuggestHandlers(suggester *suggest.Service, logger *zerolog.Logger) *SuggestHandlers {
	return &SuggestHandlers{
		suggester: suggester,
		log:       logger,
	}
}

// AutocompleteRequest represents the autocomplete request body.
// CursorPosition is a pointer so that 0 passes the required binding.
type AutocompleteRequest struct {
	Code           string `json:"code"`
	CursorPosition *int   `json:"cursorPosition" binding:"required,gte=0"`
	Language       string `json:"language" binding:"required"`
}

// AutocompleteResponse represents the autocomplete response body.
type AutocompleteResponse struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Autocomplete generates a mocked code suggestion.
// POST /api/autocomplete
func (h *SuggestHandlers) Autocomplete(c *gin.Context) {
	var req AutocompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid autocomplete request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result := h.suggester.Generate(req.Code, *req.CursorPosition, req.Language)

	c.JSON(http.StatusOK, AutocompleteResponse{
		Suggestion: result.Text,
		Confidence: result.Confidence,
	})
}
