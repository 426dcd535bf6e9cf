package transcripts

import (
	"github.com/gin-gonic/gin"
	"github.com/lectern-app/lectern-api/api/types"
)

// RegisterRoutes registers transcript routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("/:videoId/chunks", PostChunk(deps))
	group.GET("/:videoId", GetTranscript(deps))
}
