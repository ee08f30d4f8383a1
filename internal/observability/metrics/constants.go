// Package metrics provides constants used across metric definitions.
package metrics

import "time"

// Operation label constants used when recording metrics.
const (
	// OpBirdGet represents single-bird retrieval operations.
	OpBirdGet = "bird_get"
	// OpBirdList represents catalog listing operations.
	OpBirdList = "bird_list"
	// OpBirdSearch represents name and habitat search operations.
	OpBirdSearch = "bird_search"
	// OpBirdSave represents bird insert operations.
	OpBirdSave = "bird_save"
	// OpPredict represents classifier prediction operations.
	OpPredict = "predict"
)

// Status label constants.
const (
	// StatusSuccess marks a completed operation.
	StatusSuccess = "success"
	// StatusError marks a failed operation.
	StatusError = "error"
)

// Histogram bucket configuration constants.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~4s range).
	BucketStart1ms = 0.001
	// BucketStart10ms is the starting bucket for 10ms histograms (10ms to ~40s range).
	BucketStart10ms = 0.01
	// BucketStart100B is the starting bucket for 100 byte histograms (100B to ~100MB range).
	BucketStart100B = 100.0

	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketFactor10 is the exponential growth factor of 10 for larger ranges.
	BucketFactor10 = 10

	// BucketCount6 defines 6 exponential buckets.
	BucketCount6 = 6
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
)

// Time constants.
const (
	// ShutdownTimeout is the timeout for graceful shutdown operations.
	ShutdownTimeout = 5 * time.Second
)
