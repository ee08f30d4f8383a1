// internal/api/v2/upload.go
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kicau/birdwatch-go/internal/datastore"
	"github.com/kicau/birdwatch-go/internal/errors"
	"github.com/kicau/birdwatch-go/internal/observability/metrics"
)

const (
	// maxAudioUploadSize caps a single uploaded audio file at 10 MiB
	maxAudioUploadSize = 10 << 20
	// maxUploadBodyLimit bounds the whole request body, leaving headroom
	// for multipart framing around the 10 MiB file cap
	maxUploadBodyLimit = "11M"
)

// allowedAudioTypes lists the declared content types accepted for upload
var allowedAudioTypes = map[string]bool{
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/wave":  true,
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/mp4":   true,
	"audio/m4a":   true,
	"audio/x-m4a": true,
}

// IdentificationResult is the combined response of a successful identification
type IdentificationResult struct {
	Bird            datastore.Bird  `json:"bird"`
	InferenceOutput InferenceOutput `json:"inference_output"`
}

// InferenceOutput echoes the classifier's verdict to the caller
type InferenceOutput struct {
	EBirdCode      string  `json:"ebird_code"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime float64 `json:"processing_time"`
}

// initUploadRoutes registers the audio identification endpoint
func (c *Controller) initUploadRoutes() {
	c.Group.POST("/birds/upload-audio", c.UploadAudio)
}

// UploadAudio accepts an audio recording, forwards it to the classifier and
// joins the predicted species code against the catalog. Input is validated
// before any outbound call is made.
func (c *Controller) UploadAudio(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		c.recordUploadRejected("missing_file")
		return c.HandleError(ctx, errors.Newf("no audio file in request: %w", err).
			Category(errors.CategoryValidation).
			Component("api-upload").
			Build(), "Missing audio file in field \"audio\"", http.StatusBadRequest)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedAudioTypes[contentType] {
		c.recordUploadRejected("content_type")
		return c.HandleError(ctx, errors.Newf("unsupported content type: %s", contentType).
			Category(errors.CategoryValidation).
			Context("content_type", contentType).
			Component("api-upload").
			Build(), "Unsupported audio content type: "+contentType, http.StatusBadRequest)
	}

	if fileHeader.Size > maxAudioUploadSize {
		c.recordUploadRejected("too_large")
		return c.HandleError(ctx, errors.Newf("audio file too large: %d bytes", fileHeader.Size).
			Category(errors.CategoryValidation).
			Context("size_bytes", fileHeader.Size).
			Component("api-upload").
			Build(), "Audio file exceeds the 10 MiB limit", http.StatusBadRequest)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to read audio file", http.StatusInternalServerError)
	}
	defer func() { _ = src.Close() }()

	audio, err := io.ReadAll(io.LimitReader(src, maxAudioUploadSize+1))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to read audio file", http.StatusInternalServerError)
	}
	if len(audio) > maxAudioUploadSize {
		c.recordUploadRejected("too_large")
		return c.HandleError(ctx, errors.Newf("audio file too large").
			Category(errors.CategoryValidation).
			Component("api-upload").
			Build(), "Audio file exceeds the 10 MiB limit", http.StatusBadRequest)
	}

	if c.metrics != nil && c.metrics.HTTP != nil {
		c.metrics.HTTP.RecordUploadAccepted(contentType, int64(len(audio)))
	}

	start := time.Now()
	prediction, err := c.Classifier.Predict(ctx.Request().Context(), audio, fileHeader.Filename, contentType)
	if c.metrics != nil && c.metrics.Classifier != nil {
		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
		}
		c.metrics.Classifier.RecordPrediction(status, time.Since(start).Seconds())
	}
	if err != nil {
		if c.metrics != nil && c.metrics.Classifier != nil {
			var enhanced *errors.EnhancedError
			if errors.As(err, &enhanced) {
				c.metrics.Classifier.RecordPredictionError(string(enhanced.Category))
			}
		}
		// Timeout and transport failures are logged with their own category
		// but surface to the caller as one kind of upstream failure.
		return c.HandleError(ctx, err, "Audio identification failed", http.StatusBadRequest)
	}

	if c.metrics != nil && c.metrics.Classifier != nil {
		c.metrics.Classifier.RecordPredictionResult(prediction.EBirdCode,
			prediction.Confidence, prediction.ProcessingTime)
	}

	bird, err := c.DS.GetBirdBySpeciesCode(prediction.EBirdCode)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.HandleError(ctx, err,
				"No catalog entry for species code \""+prediction.EBirdCode+"\"", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to look up identified species", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, &IdentificationResult{
		Bird: bird,
		InferenceOutput: InferenceOutput{
			EBirdCode:      prediction.EBirdCode,
			Confidence:     prediction.Confidence,
			ProcessingTime: prediction.ProcessingTime,
		},
	})
}

// recordUploadRejected counts an upload rejected during validation
func (c *Controller) recordUploadRejected(reason string) {
	if c.metrics != nil && c.metrics.HTTP != nil {
		c.metrics.HTTP.RecordUploadRejected(reason)
	}
}
