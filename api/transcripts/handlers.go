package transcripts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lectern-app/lectern-api/api/types"
	"github.com/lectern-app/lectern-api/internal/models"
	transcriptsService "github.com/lectern-app/lectern-api/internal/services/transcripts"
	"github.com/lectern-app/lectern-api/pkg/transcript"
)

// PostChunk ingests a chunk result from a transcription worker
// @Summary      Ingest a transcript chunk
// @Description  Record a finished (or failed) chunk for a video. When the last in-flight chunk lands, a merge job is enqueued automatically.
// @Tags         transcripts
// @Accept       json
// @Produce      json
// @Param        videoId path string true "Video ID"
// @Param        chunk body types.ChunkRequest true "Chunk result"
// @Success      202 {object} types.ChunkIngestResponse "Chunk recorded"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      409 {object} types.ErrorResponse "Chunk already finalized"
// @Router       /api/v1/transcripts/{videoId}/chunks [post]
func PostChunk(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("videoId")
		if videoID == "" {
			types.SendBadRequest(c, "Video ID is required")
			return
		}

		var req types.ChunkRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		status, err := models.ParseChunkStatus(req.Status)
		if err != nil {
			types.SendBadRequest(c, err.Error())
			return
		}
		if req.EndTime < req.StartTime {
			types.SendBadRequest(c, "Chunk end time must not precede start time")
			return
		}

		// Caption payloads (VTT, SRT, JSON) are reduced to plain text before
		// they enter the merge pipeline
		text := req.Text
		if req.Format != "" && req.Text != nil {
			format, err := transcript.ParseFormat(req.Format)
			if err != nil {
				types.SendBadRequest(c, err.Error())
				return
			}
			parsed, err := transcript.Parse(*req.Text, format)
			if err != nil {
				types.SendBadRequest(c, err.Error())
				return
			}
			text = &parsed.PlainText
		}

		chunk := models.Chunk{
			Index:     req.Index,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Status:    status,
			Text:      text,
			Language:  req.Language,
		}

		_, ready, err := deps.TranscriptService.IngestChunk(c.Request.Context(), videoID, chunk)
		if err != nil {
			if errors.Is(err, transcriptsService.ErrChunkImmutable) {
				types.SendConflict(c, "Chunk has already been finalized")
				return
			}
			types.SendInternalError(c, "Failed to record chunk")
			return
		}

		response := types.ChunkIngestResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Chunk recorded"},
			VideoID:      videoID,
			ReadyToMerge: ready,
		}

		if ready {
			job, err := deps.JobService.EnqueueUniqueJob(c.Request.Context(),
				models.JobTypeTranscriptMerge,
				models.JobPayload{"video_id": videoID},
				"video_id")
			if err != nil {
				types.SendInternalError(c, "Failed to enqueue merge job")
				return
			}
			response.Status = types.StatusQueued
			response.Message = "Chunk recorded, merge queued"
			response.MergeJobID = job.ID
		}

		types.SendAccepted(c, response)
	}
}

// GetTranscript retrieves the transcript job for a video
// @Summary      Get transcript
// @Description  Retrieve the transcript job for a video, including the canonical text once merged
// @Tags         transcripts
// @Produce      json
// @Param        videoId path string true "Video ID"
// @Success      200 {object} types.TranscriptResponse "Transcript job"
// @Failure      404 {object} types.ErrorResponse "No transcript for video"
// @Router       /api/v1/transcripts/{videoId} [get]
func GetTranscript(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("videoId")

		job, err := deps.TranscriptService.GetByVideoID(c.Request.Context(), videoID)
		if err != nil {
			if errors.Is(err, transcriptsService.ErrJobNotFound) {
				types.SendNotFound(c, "No transcript for video")
				return
			}
			types.SendInternalError(c, "Failed to retrieve transcript")
			return
		}

		c.JSON(http.StatusOK, types.TranscriptResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Transcript:   job,
		})
	}
}
