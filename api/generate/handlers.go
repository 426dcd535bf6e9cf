package generate

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lectern-app/lectern-api/api/types"
	"github.com/lectern-app/lectern-api/internal/models"
	generationService "github.com/lectern-app/lectern-api/internal/services/generation"
)

// Post triggers generation of a learning artifact
// @Summary      Request artifact generation
// @Description  Queue generation of a learning artifact for the caller and subject. Repeated requests for the same key return the existing artifact or the in-flight job instead of generating twice.
// @Tags         generate
// @Accept       json
// @Produce      json
// @Param        featureKind path string true "Feature kind (notes, quiz_questions, feedback)"
// @Param        subjectId path string true "Subject (video) ID"
// @Param        options body types.GenerateRequest false "Generation options"
// @Success      200 {object} types.ArtifactResponse "Artifact already exists"
// @Success      202 {object} types.GenerationStatusResponse "Generation queued"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      401 {object} types.ErrorResponse "Missing caller identity"
// @Failure      422 {object} types.ErrorResponse "Prior generation failed terminally"
// @Router       /api/v1/generate/{featureKind}/{subjectId} [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.RequireOwnerID(c)
		if !ok {
			return
		}

		feature, err := models.ParseFeatureKind(c.Param("featureKind"))
		if err != nil {
			types.SendBadRequest(c, err.Error())
			return
		}
		subjectID := c.Param("subjectId")
		if subjectID == "" {
			types.SendBadRequest(c, "Subject ID is required")
			return
		}

		var req types.GenerateRequest
		if c.Request.ContentLength > 0 && !types.BindJSONOrError(c, &req) {
			return
		}

		key := models.GenerationKey{OwnerID: ownerID, SubjectID: subjectID, Feature: feature}

		// An existing artifact short-circuits the queue entirely
		artifact, err := deps.GenerationService.GetArtifact(c.Request.Context(), key)
		if err == nil {
			c.JSON(http.StatusOK, types.ArtifactResponse{
				BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Artifact already generated"},
				Artifact:     artifact,
			})
			return
		}
		if !errors.Is(err, generationService.ErrArtifactNotFound) {
			types.SendInternalError(c, "Failed to check for existing artifact")
			return
		}

		// A prior job that failed on a missing or terminally rejected subject
		// will fail again; don't re-enqueue it
		if prior, err := deps.JobService.GetJobForGeneration(c.Request.Context(), key.String()); err == nil {
			if prior.Status == models.JobStatusPermanentlyFailed && prior.ErrorType == string(models.ErrorTypeNotFound) {
				types.SendUnprocessable(c, "Generation cannot succeed for this subject: "+prior.Error)
				return
			}
		}

		payload := models.JobPayload{
			"generation_key": key.String(),
			"owner_id":       ownerID,
			"subject_id":     subjectID,
			"feature_kind":   string(feature),
		}
		if req.QuestionCount > 0 {
			payload["question_count"] = req.QuestionCount
		}
		if req.Difficulty != "" {
			payload["difficulty"] = req.Difficulty
		}

		job, err := deps.JobService.EnqueueUniqueJob(c.Request.Context(),
			models.JobTypeArtifactGeneration, payload, "generation_key")
		if err != nil {
			types.SendInternalError(c, "Failed to enqueue generation job")
			return
		}

		// The job is queued but unclaimed; generation has not started yet
		types.SendAccepted(c, types.GenerationStatusResponse{
			BaseResponse:     types.BaseResponse{Status: types.StatusQueued, Message: "Generation queued"},
			GenerationStatus: string(generationService.StatusNotStarted),
			JobID:            job.ID,
		})
	}
}

// Get retrieves a generated artifact or its generation status
// @Summary      Get artifact
// @Description  Retrieve the generated artifact for the caller and subject, or the generation lifecycle state while it is pending
// @Tags         generate
// @Produce      json
// @Param        featureKind path string true "Feature kind (notes, quiz_questions, feedback)"
// @Param        subjectId path string true "Subject (video) ID"
// @Success      200 {object} types.ArtifactResponse "Artifact or status"
// @Failure      400 {object} types.ErrorResponse "Invalid feature kind"
// @Failure      401 {object} types.ErrorResponse "Missing caller identity"
// @Router       /api/v1/generate/{featureKind}/{subjectId} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := types.RequireOwnerID(c)
		if !ok {
			return
		}

		feature, err := models.ParseFeatureKind(c.Param("featureKind"))
		if err != nil {
			types.SendBadRequest(c, err.Error())
			return
		}

		key := models.GenerationKey{OwnerID: ownerID, SubjectID: c.Param("subjectId"), Feature: feature}

		artifact, err := deps.GenerationService.GetArtifact(c.Request.Context(), key)
		if err == nil {
			c.JSON(http.StatusOK, types.ArtifactResponse{
				BaseResponse: types.BaseResponse{Status: types.StatusOK},
				Artifact:     artifact,
			})
			return
		}
		if !errors.Is(err, generationService.ErrArtifactNotFound) {
			types.SendInternalError(c, "Failed to retrieve artifact")
			return
		}

		status, err := deps.GenerationService.Status(c.Request.Context(), key)
		if err != nil {
			types.SendInternalError(c, "Failed to determine generation status")
			return
		}

		c.JSON(http.StatusOK, types.GenerationStatusResponse{
			BaseResponse:     types.BaseResponse{Status: types.StatusOK},
			GenerationStatus: string(status),
		})
	}
}
