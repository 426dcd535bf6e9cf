package generate

import (
	"github.com/gin-gonic/gin"
	"github.com/lectern-app/lectern-api/api/types"
)

// RegisterRoutes registers artifact generation routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("/:featureKind/:subjectId", Post(deps))
	group.GET("/:featureKind/:subjectId", Get(deps))
}
