package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cognivest/cognivest/internal/middleware"
)

type RouterDeps struct {
	Ingest       *IngestHandler
	Query        *QueryHandler
	Stocks       *StockHandler
	SubmitWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	// Only submission is rate limited; status polling is not.
	api.POST("/ingest", middleware.RateLimit(deps.SubmitWindow), deps.Ingest.Submit)
	api.GET("/tasks/:id", deps.Ingest.Status)
	api.POST("/query", deps.Query.Ask)
	api.GET("/stocks/:ticker/daily", deps.Stocks.Daily)
}
