package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cognivest/cognivest/internal/pkg/errcode"
	"github.com/cognivest/cognivest/internal/pkg/response"
	"github.com/cognivest/cognivest/internal/service"
)

type IngestHandler struct {
	ingest *service.IngestService
}

func NewIngestHandler(ingest *service.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

type submitRequest struct {
	Ticker string `json:"ticker"`
}

func (h *IngestHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		response.Error(c, errcode.ErrInvalid, "ticker is required")
		return
	}
	taskID, err := h.ingest.Submit(c.Request.Context(), ticker)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Processing started", "task_id": taskID})
}

func (h *IngestHandler) Status(c *gin.Context) {
	taskID := c.Param("id")
	task, err := h.ingest.Status(c.Request.Context(), taskID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"status": task.Status, "message": task.Message})
}
