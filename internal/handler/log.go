package handler

import (
	"net/http"

	"github.com/danielvaho2/tu-bolsillo/internal/models"
	"github.com/danielvaho2/tu-bolsillo/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler lists the caller's audit log entries.
type LogHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewLogHandler(db *gorm.DB, pageSize int) *LogHandler {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &LogHandler{DB: db, PageSize: pageSize}
}

func (h *LogHandler) ListLogs(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var logs []models.AuditLog
	if err := h.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Limit(h.PageSize).
		Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load logs")
		return
	}

	items := make([]gin.H, 0, len(logs))
	for _, l := range logs {
		items = append(items, gin.H{
			"id":         l.ID,
			"request_id": l.RequestID,
			"method":     l.Method,
			"path":       l.Path,
			"status":     l.Status,
			"ip":         l.IP,
			"created_at": l.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"logs": items,
	})
}
