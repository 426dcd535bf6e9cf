package progress

import (
	"github.com/gin-gonic/gin"
	"github.com/lectern-app/lectern-api/api/types"
)

// RegisterRoutes registers progress tracking routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.GET("/:collectionId", Get(deps))
	group.POST("/:collectionId/enroll", PostEnroll(deps))
	group.POST("/:collectionId/items/:itemId/attempts", PostAttempt(deps))
	group.POST("/:collectionId/items/:itemId/complete", PostComplete(deps))
}
