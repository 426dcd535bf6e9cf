package progress

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lectern-app/lectern-api/api/types"
	certificatesService "github.com/lectern-app/lectern-api/internal/services/certificates"
	progressService "github.com/lectern-app/lectern-api/internal/services/progress"
)

// Get retrieves the caller's progress through a collection
// @Summary      Get collection progress
// @Description  Retrieve the caller's progress record for a course or playlist
// @Tags         progress
// @Produce      json
// @Param        collectionId path string true "Collection ID"
// @Success      200 {object} types.ProgressResponse "Progress record"
// @Failure      401 {object} types.ErrorResponse "Missing caller identity"
// @Failure      404 {object} types.ErrorResponse "No progress for collection"
// @Router       /api/v1/progress/{collectionId} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.RequireOwnerID(c)
		if !ok {
			return
		}
		collectionID := c.Param("collectionId")

		record, err := deps.ProgressService.GetProgress(c.Request.Context(), ownerID, collectionID)
		if err != nil {
			if errors.Is(err, progressService.ErrProgressNotFound) {
				types.SendNotFound(c, "No progress for collection")
				return
			}
			types.SendInternalError(c, "Failed to retrieve progress")
			return
		}

		sendProgress(c, deps, ownerID, collectionID, &progressService.UpdateResult{Record: record})
	}
}

// PostEnroll registers the items of a collection for progress tracking
// @Summary      Enroll in a collection
// @Description  Create or extend the caller's progress record to cover the collection's items. Existing progress is never reset.
// @Tags         progress
// @Accept       json
// @Produce      json
// @Param        collectionId path string true "Collection ID"
// @Param        enrollment body types.EnrollRequest true "Item IDs"
// @Success      200 {object} types.ProgressResponse "Progress record"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      401 {object} types.ErrorResponse "Missing caller identity"
// @Router       /api/v1/progress/{collectionId}/enroll [post]
func PostEnroll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.RequireOwnerID(c)
		if !ok {
			return
		}
		collectionID := c.Param("collectionId")

		var req types.EnrollRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		record, err := deps.ProgressService.EnsureRecord(c.Request.Context(), ownerID, collectionID, req.ItemIDs)
		if err != nil {
			types.SendInternalError(c, "Failed to enroll in collection")
			return
		}

		c.JSON(http.StatusOK, types.ProgressResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Enrolled"},
			Progress:     record,
		})
	}
}

// PostAttempt records a scored attempt at a collection item
// @Summary      Record a scored attempt
// @Description  Append a scored attempt to an item. A passing score completes the item; completing the last item issues the collection certificate.
// @Tags         progress
// @Accept       json
// @Produce      json
// @Param        collectionId path string true "Collection ID"
// @Param        itemId path string true "Item ID"
// @Param        attempt body types.AttemptRequest true "Attempt data"
// @Success      200 {object} types.ProgressResponse "Updated progress"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      401 {object} types.ErrorResponse "Missing caller identity"
// @Failure      404 {object} types.ErrorResponse "No progress for collection"
// @Router       /api/v1/progress/{collectionId}/items/{itemId}/attempts [post]
func PostAttempt(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.RequireOwnerID(c)
		if !ok {
			return
		}
		collectionID := c.Param("collectionId")
		itemID := c.Param("itemId")

		var req types.AttemptRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		result, err := deps.ProgressService.RecordAttempt(c.Request.Context(), ownerID, collectionID, itemID, req.Score)
		if err != nil {
			switch {
			case errors.Is(err, progressService.ErrProgressNotFound):
				types.SendNotFound(c, "No progress for collection; enroll first")
			case errors.Is(err, progressService.ErrInvalidScore):
				types.SendBadRequest(c, err.Error())
			default:
				types.SendInternalError(c, "Failed to record attempt")
			}
			return
		}

		sendProgress(c, deps, ownerID, collectionID, result)
	}
}

// PostComplete marks a non-scored item as completed
// @Summary      Complete an item
// @Description  Mark a non-scored item (watched video, read material) as completed. Completing the last item issues the collection certificate.
// @Tags         progress
// @Produce      json
// @Param        collectionId path string true "Collection ID"
// @Param        itemId path string true "Item ID"
// @Success      200 {object} types.ProgressResponse "Updated progress"
// @Failure      401 {object} types.ErrorResponse "Missing caller identity"
// @Failure      404 {object} types.ErrorResponse "No progress for collection"
// @Router       /api/v1/progress/{collectionId}/items/{itemId}/complete [post]
func PostComplete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.RequireOwnerID(c)
		if !ok {
			return
		}
		collectionID := c.Param("collectionId")
		itemID := c.Param("itemId")

		result, err := deps.ProgressService.CompleteItem(c.Request.Context(), ownerID, collectionID, itemID)
		if err != nil {
			if errors.Is(err, progressService.ErrProgressNotFound) {
				types.SendNotFound(c, "No progress for collection; enroll first")
				return
			}
			types.SendInternalError(c, "Failed to complete item")
			return
		}

		sendProgress(c, deps, ownerID, collectionID, result)
	}
}

// sendProgress responds with the updated record. The certificate comes from
// the update itself when it crossed the completion edge; for reads of an
// already-complete collection it is looked up instead, with the
// newly-issued flag staying false.
func sendProgress(c *gin.Context, deps *types.Dependencies, ownerID, collectionID string, result *progressService.UpdateResult) {
	response := types.ProgressResponse{
		BaseResponse:           types.BaseResponse{Status: types.StatusOK},
		Progress:               result.Record,
		Certificate:            result.Certificate,
		CertificateNewlyIssued: result.CertificateNewlyIssued,
	}

	if response.Certificate == nil && result.Record.IsCompleted {
		cert, err := deps.CertificateService.Get(c.Request.Context(), ownerID, collectionID)
		if err == nil {
			response.Certificate = cert
		} else if !errors.Is(err, certificatesService.ErrCertificateNotFound) {
			log.Printf("[WARN] Failed to load certificate for %s/%s: %v", ownerID, collectionID, err)
		}
	}

	c.JSON(http.StatusOK, response)
}
