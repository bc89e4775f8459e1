package api

import (
	"github.com/gin-gonic/gin"
)

// MaxUploadMemory bounds the multipart form held in memory per upload.
const MaxUploadMemory = 32 << 20

// NewRouter returns a gin engine with every route of h registered under /api.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = MaxUploadMemory
	r.Use(gin.Recovery(), RequestLogger(h.logger()))

	api := r.Group("/api")
	api.POST("/upload", h.HandleUpload)
	api.GET("/check-config", h.HandleCheckConfig)
	api.GET("/tables", h.HandleGetTables)
	api.DELETE("/tables", h.HandleClearTables)
	api.PUT("/tables/:id", h.HandleUpdateTable)

	return r
}
