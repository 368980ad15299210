package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cognivest/cognivest/internal/pkg/errcode"
	"github.com/cognivest/cognivest/internal/pkg/response"
	"github.com/cognivest/cognivest/internal/service"
)

type StockHandler struct {
	stocks *service.StockService
}

func NewStockHandler(stocks *service.StockService) *StockHandler {
	return &StockHandler{stocks: stocks}
}

func (h *StockHandler) Daily(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		response.Error(c, errcode.ErrInvalid, "ticker is required")
		return
	}
	points, err := h.stocks.Daily(c.Request.Context(), ticker)
	if err != nil {
		response.Error(c, errcode.ErrProviderFailed, err.Error())
		return
	}
	response.Success(c, gin.H{"ticker": ticker, "data": points})
}
