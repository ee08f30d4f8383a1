package classifier

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicau/birdwatch-go/internal/errors"
)

const predictURL = "http://classifier.test/predict"

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(Config{BaseURL: "http://classifier.test", Timeout: 5 * time.Second})
	require.NoError(t, err)

	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	return client
}

func TestPredictSuccess(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, predictURL,
		httpmock.NewStringResponder(http.StatusOK,
			`{"ebird_code": "amecro", "confidence": 0.93, "processing_time": 120}`))

	prediction, err := client.Predict(context.Background(), []byte("fake-wav"), "crow.wav", "audio/wav")

	require.NoError(t, err)
	assert.Equal(t, "amecro", prediction.EBirdCode)
	assert.InDelta(t, 0.93, prediction.Confidence, 0.001)
	assert.InDelta(t, 120, prediction.ProcessingTime, 0.001)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestPredictForwardsMultipartFile(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, predictURL,
		func(req *http.Request) (*http.Response, error) {
			mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
			require.NoError(t, err)
			require.Equal(t, "multipart/form-data", mediaType)

			reader := multipart.NewReader(req.Body, params["boundary"])
			part, err := reader.NextPart()
			require.NoError(t, err)

			assert.Equal(t, "file", part.FormName())
			assert.Equal(t, "song.mp3", part.FileName())
			assert.Equal(t, "audio/mpeg", part.Header.Get("Content-Type"))

			data, err := io.ReadAll(part)
			require.NoError(t, err)
			assert.Equal(t, []byte("mp3-bytes"), data)

			return httpmock.NewStringResponse(http.StatusOK,
				`{"ebird_code": "ducfly", "confidence": 0.8, "processing_time": 45.5}`), nil
		})

	prediction, err := client.Predict(context.Background(), []byte("mp3-bytes"), "song.mp3", "audio/mpeg")

	require.NoError(t, err)
	assert.Equal(t, "ducfly", prediction.EBirdCode)
}

func TestPredictErrorStatus(t *testing.T) {
	statuses := []int{
		http.StatusBadRequest,
		http.StatusRequestEntityTooLarge,
		http.StatusInternalServerError,
		http.StatusServiceUnavailable,
	}

	for _, status := range statuses {
		client := newTestClient(t)
		httpmock.RegisterResponder(http.MethodPost, predictURL,
			httpmock.NewStringResponder(status, `{"detail": "inference failed"}`))

		_, err := client.Predict(context.Background(), []byte("x"), "f.wav", "audio/wav")

		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryHTTP),
			"status %d must map to the http-request category", status)
		httpmock.DeactivateAndReset()
	}
}

func TestPredictInvalidJSON(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, predictURL,
		httpmock.NewStringResponder(http.StatusOK, `{not valid json`))

	_, err := client.Predict(context.Background(), []byte("x"), "f.wav", "audio/wav")

	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestPredictMissingSpeciesCode(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, predictURL,
		httpmock.NewStringResponder(http.StatusOK, `{"confidence": 0.5, "processing_time": 10}`))

	_, err := client.Predict(context.Background(), []byte("x"), "f.wav", "audio/wav")

	require.Error(t, err)
}

func TestPredictTimeout(t *testing.T) {
	// A stalled classifier must produce a timeout error, not a hang.
	stall := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-stall
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(stall) })

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: 100 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Predict(context.Background(), []byte("x"), "f.wav", "audio/wav")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err), "stalled classifier must map to the timeout category")
	assert.Less(t, elapsed, 2*time.Second, "request must abort once the timeout elapses")
}

func TestNewClientRejectsBadScheme(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{BaseURL: "ftp://classifier"})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BaseURL, client.config.BaseURL)
	assert.Equal(t, DefaultConfig().Timeout, client.config.Timeout)
}
