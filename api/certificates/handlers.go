package certificates

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lectern-app/lectern-api/api/types"
)

// List returns the caller's certificates
// @Summary      List certificates
// @Description  List every certificate the caller has earned, newest first
// @Tags         certificates
// @Produce      json
// @Success      200 {object} types.CertificatesResponse "Certificates"
// @Failure      401 {object} types.ErrorResponse "Missing caller identity"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/certificates [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.RequireOwnerID(c)
		if !ok {
			return
		}

		certs, err := deps.CertificateService.ListByOwner(c.Request.Context(), ownerID)
		if err != nil {
			types.SendInternalError(c, "Failed to list certificates")
			return
		}

		c.JSON(http.StatusOK, types.CertificatesResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Certificates: certs,
			Count:        len(certs),
		})
	}
}
