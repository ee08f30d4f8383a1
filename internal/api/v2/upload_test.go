package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kicau/birdwatch-go/internal/classifier"
	"github.com/kicau/birdwatch-go/internal/datastore"
	"github.com/kicau/birdwatch-go/internal/errors"
)

// buildAudioUpload builds a multipart request body with a single file part
// in the given form field
func buildAudioUpload(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadAudioSuccess(t *testing.T) {
	e, mockDS, mockClf, controller := setupTestEnvironment(t)

	audio := []byte("RIFF-fake-wav-bytes")
	prediction := &classifier.Prediction{EBirdCode: "amecro", Confidence: 0.93, ProcessingTime: 120}
	mockClf.On("Predict", mock.Anything, audio, "crow.wav", "audio/wav").Return(prediction, nil)
	mockDS.On("GetBirdBySpeciesCode", "amecro").
		Return(datastore.Bird{ID: 1, SpeciesCode: "amecro", CommonName: "American Crow"}, nil)

	body, formType := buildAudioUpload(t, "audio", "crow.wav", "audio/wav", audio)
	req := httptest.NewRequest(http.MethodPost, "/api/v2/birds/upload-audio", body)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.UploadAudio(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result IdentificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "American Crow", result.Bird.CommonName)
	assert.Equal(t, "amecro", result.InferenceOutput.EBirdCode)
	assert.InDelta(t, 0.93, result.InferenceOutput.Confidence, 0.001)
	assert.InDelta(t, 120, result.InferenceOutput.ProcessingTime, 0.001)

	mockClf.AssertNumberOfCalls(t, "Predict", 1)
	mockDS.AssertExpectations(t)
}

func TestUploadAudioRejectsNonAudio(t *testing.T) {
	e, mockDS, mockClf, controller := setupTestEnvironment(t)

	body, formType := buildAudioUpload(t, "audio", "picture.png", "image/png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v2/birds/upload-audio", body)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.UploadAudio(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Message, "image/png")

	// Validation failures must not reach the classifier or the catalog
	mockClf.AssertNotCalled(t, "Predict")
	mockDS.AssertNotCalled(t, "GetBirdBySpeciesCode")
}

func TestUploadAudioMissingFile(t *testing.T) {
	e, mockDS, mockClf, controller := setupTestEnvironment(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v2/birds/upload-audio", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.UploadAudio(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockClf.AssertNotCalled(t, "Predict")
	mockDS.AssertNotCalled(t, "GetBirdBySpeciesCode")
}

func TestUploadAudioUnknownSpeciesCode(t *testing.T) {
	e, mockDS, mockClf, controller := setupTestEnvironment(t)

	audio := []byte("fake-mp3")
	prediction := &classifier.Prediction{EBirdCode: "zzglitch", Confidence: 0.41, ProcessingTime: 88}
	mockClf.On("Predict", mock.Anything, audio, "mystery.mp3", "audio/mpeg").Return(prediction, nil)
	mockDS.On("GetBirdBySpeciesCode", "zzglitch").
		Return(datastore.Bird{}, notFoundErr("bird with species code %q not found", "zzglitch"))

	body, formType := buildAudioUpload(t, "audio", "mystery.mp3", "audio/mpeg", audio)
	req := httptest.NewRequest(http.MethodPost, "/api/v2/birds/upload-audio", body)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.UploadAudio(ctx))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Message, "zzglitch")
}

func TestUploadAudioClassifierFailure(t *testing.T) {
	e, mockDS, mockClf, controller := setupTestEnvironment(t)

	audio := []byte("fake-wav")
	stalled := errors.Newf("prediction request timed out").
		Category(errors.CategoryTimeout).
		Component("classifier").
		Build()
	mockClf.On("Predict", mock.Anything, audio, "slow.wav", "audio/wav").Return(nil, stalled)

	body, formType := buildAudioUpload(t, "audio", "slow.wav", "audio/wav", audio)
	req := httptest.NewRequest(http.MethodPost, "/api/v2/birds/upload-audio", body)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.UploadAudio(ctx))
	// Upstream failure surfaces as a client-visible request failure
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockDS.AssertNotCalled(t, "GetBirdBySpeciesCode")
}

func TestUploadAudioWrongFieldName(t *testing.T) {
	e, mockDS, mockClf, controller := setupTestEnvironment(t)

	body, formType := buildAudioUpload(t, "file", "crow.wav", "audio/wav", []byte("wav"))
	req := httptest.NewRequest(http.MethodPost, "/api/v2/birds/upload-audio", body)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.UploadAudio(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockClf.AssertNotCalled(t, "Predict")
	mockDS.AssertNotCalled(t, "GetBirdBySpeciesCode")
}
