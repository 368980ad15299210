package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cognivest/cognivest/internal/pkg/errcode"
	"github.com/cognivest/cognivest/internal/pkg/response"
	"github.com/cognivest/cognivest/internal/service"
)

type QueryHandler struct {
	answers *service.AnswerService
}

func NewQueryHandler(answers *service.AnswerService) *QueryHandler {
	return &QueryHandler{answers: answers}
}

type queryRequest struct {
	Question string `json:"question"`
	Ticker   string `json:"ticker"`
}

func (h *QueryHandler) Ask(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	question := strings.TrimSpace(req.Question)
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if question == "" || ticker == "" {
		response.Error(c, errcode.ErrInvalid, "question and ticker are required")
		return
	}
	answer := h.answers.Answer(c.Request.Context(), question, ticker)
	response.Success(c, gin.H{"answer": answer})
}
