package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/kicau/birdwatch-go/internal/errors"
	"github.com/kicau/birdwatch-go/internal/logging"
)

// Package-level logger specific to the classifier service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar) // Dynamic level control
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "classifier.log")
	serviceLevelVar.Set(slog.LevelDebug)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "classifier", serviceLevelVar)
	if err != nil {
		// Fallback: log the error and disable service logging rather than panic
		log.Printf("Failed to initialize classifier file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "classifier")
		closeLogger = func() error { return nil }
	}
}

// Client provides access to the external audio classification endpoint
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new classifier client
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if !strings.HasPrefix(config.BaseURL, "http://") && !strings.HasPrefix(config.BaseURL, "https://") {
		return nil, errors.Newf("classifier base URL must be http or https: %s", config.BaseURL).
			Category(errors.CategoryConfiguration).
			Component("classifier").
			Build()
	}

	client := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}

	logger.Info("Classifier client initialized",
		"base_url", config.BaseURL,
		"timeout", config.Timeout.String())

	return client, nil
}

// Close cleans up client resources
func (c *Client) Close() {
	logger.Info("Closing classifier client")
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing classifier logger: %v", err)
		}
	}
}

// Predict sends the raw audio bytes to the inference service and returns its
// classification. The call is bounded by the configured timeout; there are no
// retries. One request yields at most one downstream call.
func (c *Client) Predict(ctx context.Context, audio []byte, filename, contentType string) (*Prediction, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, formContentType, err := buildMultipartBody(audio, filename, contentType)
	if err != nil {
		return nil, errors.Newf("failed to build multipart body: %w", err).
			Category(errors.CategoryFileParsing).
			Context("filename", filename).
			Component("classifier").
			Build()
	}

	url := fmt.Sprintf("%s/predict", strings.TrimSuffix(c.config.BaseURL, "/"))
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, body)
	if err != nil {
		return nil, errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Component("classifier").
			Build()
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		category := errors.CategoryNetwork
		if reqCtx.Err() != nil {
			category = errors.CategoryTimeout
		}
		logger.Error("Classifier request failed",
			"error", err,
			"url", url,
			"category", string(category),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, errors.Newf("classifier request failed: %w", err).
			Category(category).
			Context("url", url).
			Timing("predict", time.Since(start)).
			Component("classifier").
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Newf("failed to read classifier response: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Context("status_code", resp.StatusCode).
			Component("classifier").
			Build()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responsePreview := string(bodyBytes)
		if len(responsePreview) > 500 {
			responsePreview = responsePreview[:500] + "..."
		}
		logger.Error("Classifier returned error status",
			"status_code", resp.StatusCode,
			"url", url,
			"response_preview", responsePreview)
		return nil, errors.Newf("classifier returned status %d: %s", resp.StatusCode, responsePreview).
			Category(errors.CategoryHTTP).
			Context("status_code", resp.StatusCode).
			Context("url", url).
			Component("classifier").
			Build()
	}

	var prediction Prediction
	if err := json.Unmarshal(bodyBytes, &prediction); err != nil {
		logger.Error("Failed to parse classifier response",
			"error", err,
			"url", url,
			"response_size", len(bodyBytes))
		return nil, errors.Newf("failed to parse classifier response: %w", err).
			Category(errors.CategoryFileParsing).
			Context("url", url).
			Component("classifier").
			Build()
	}

	if prediction.EBirdCode == "" {
		return nil, errors.Newf("classifier response missing species code").
			Category(errors.CategoryFileParsing).
			Context("url", url).
			Component("classifier").
			Build()
	}

	logger.Info("Classifier prediction received",
		"ebird_code", prediction.EBirdCode,
		"confidence", prediction.Confidence,
		"processing_time", prediction.ProcessingTime,
		"duration_ms", time.Since(start).Milliseconds())

	return &prediction, nil
}

// buildMultipartBody packages the audio bytes as a multipart form with the
// field name, filename and content type the inference service expects.
func buildMultipartBody(audio []byte, filename, contentType string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
