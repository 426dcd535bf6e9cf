package certificates

import (
	"github.com/gin-gonic/gin"
	"github.com/lectern-app/lectern-api/api/types"
)

// RegisterRoutes registers certificate routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.GET("", List(deps))
}
