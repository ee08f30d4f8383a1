// test_utils.go: Package api provides shared test utilities for API v2 tests.

package api

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/kicau/birdwatch-go/internal/classifier"
	"github.com/kicau/birdwatch-go/internal/conf"
	"github.com/kicau/birdwatch-go/internal/datastore"
)

// MockDataStore implements the datastore.Interface for testing
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Open() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) GetAllBirds() ([]datastore.Bird, error) {
	args := m.Called()
	return args.Get(0).([]datastore.Bird), args.Error(1)
}

func (m *MockDataStore) GetBird(id uint) (datastore.Bird, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Bird), args.Error(1)
}

func (m *MockDataStore) GetBirdByCommonName(name string) (datastore.Bird, error) {
	args := m.Called(name)
	return args.Get(0).(datastore.Bird), args.Error(1)
}

func (m *MockDataStore) GetBirdsByHabitat(habitat string) ([]datastore.Bird, error) {
	args := m.Called(habitat)
	return args.Get(0).([]datastore.Bird), args.Error(1)
}

func (m *MockDataStore) GetBirdBySpeciesCode(code string) (datastore.Bird, error) {
	args := m.Called(code)
	return args.Get(0).(datastore.Bird), args.Error(1)
}

func (m *MockDataStore) CountBirds() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) SaveBird(bird *datastore.Bird) error {
	args := m.Called(bird)
	return args.Error(0)
}

func (m *MockDataStore) SaveMediaReference(media *datastore.MediaReference) error {
	args := m.Called(media)
	return args.Error(0)
}

// MockClassifier implements the Classifier interface for testing
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(ctx context.Context, audio []byte, filename, contentType string) (*classifier.Prediction, error) {
	args := m.Called(ctx, audio, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.Prediction), args.Error(1)
}

// setupTestEnvironment creates a test environment with an echo instance,
// mocked dependencies and a controller wired without route registration
func setupTestEnvironment(t *testing.T) (*echo.Echo, *MockDataStore, *MockClassifier, *Controller) {
	t.Helper()

	e := echo.New()
	mockDS := new(MockDataStore)
	mockClf := new(MockClassifier)

	settings := &conf.Settings{
		Version:     "test",
		Environment: "test",
		WebServer: conf.WebServerSettings{
			Debug: true,
		},
	}

	logger := log.New(os.Stdout, "API TEST: ", log.LstdFlags)

	controller, err := NewWithOptions(e, mockDS, settings, mockClf, logger, nil, false)
	if err != nil {
		t.Fatalf("Failed to create test controller: %v", err)
	}
	t.Cleanup(controller.Shutdown)

	return e, mockDS, mockClf, controller
}
