package main

import (
	"time"

	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/hashgraph/hedera-services-sub126/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ApplicationConfiguration of long_list_exerciser.
type ApplicationConfiguration struct {
	LongList longlist.Configuration `json:"longList"`

	// Address on which Prometheus metrics, health checks and pprof
	// are exposed. Left empty to disable.
	DiagnosticsHTTPListenAddress string `json:"diagnosticsHttpListenAddress,omitempty"`

	// Number of goroutines that write values in parallel.
	Writers int `json:"writers"`
	// Number of indices written between updates of the valid range.
	BatchSize int64 `json:"batchSize"`
	// Number of most recently written indices that remain valid.
	// Older indices fall out of the valid range, causing their
	// chunks to be released.
	WindowLength int64 `json:"windowLength"`

	// Minimum amount of time between snapshots, such as "30s". Only
	// used if longList.snapshotPath is set.
	SnapshotInterval string `json:"snapshotInterval,omitempty"`

	// Amount of time between log messages that report the number of
	// values written and chunks allocated, such as "10s". Left empty
	// to disable progress reporting.
	ProgressReportInterval string `json:"progressReportInterval,omitempty"`

	// Seed of the random number generators that determine the order
	// in which writers write their values. Left unset to use a
	// random seed.
	Seed *uint64 `json:"seed,omitempty"`
}

type exerciserParameters struct {
	writers          int
	batchSize        int64
	windowLength     int64
	snapshotPath     string
	snapshotInterval time.Duration

	progressReportInterval time.Duration

	seed *uint64
}

func newExerciserParameters(configuration *ApplicationConfiguration) (exerciserParameters, error) {
	p := exerciserParameters{
		writers:      configuration.Writers,
		batchSize:    configuration.BatchSize,
		windowLength: configuration.WindowLength,
		snapshotPath: configuration.LongList.SnapshotPath,
		seed:         configuration.Seed,
	}
	if p.writers <= 0 {
		return exerciserParameters{}, status.Errorf(codes.InvalidArgument, "Number of writers must be positive, but is %d", p.writers)
	}
	if p.batchSize <= 0 {
		return exerciserParameters{}, status.Errorf(codes.InvalidArgument, "Batch size must be positive, but is %d", p.batchSize)
	}
	if p.windowLength <= 0 {
		return exerciserParameters{}, status.Errorf(codes.InvalidArgument, "Window length must be positive, but is %d", p.windowLength)
	}
	if configuration.SnapshotInterval != "" {
		interval, err := time.ParseDuration(configuration.SnapshotInterval)
		if err != nil {
			return exerciserParameters{}, util.StatusWrapWithCode(err, codes.InvalidArgument, "Invalid snapshot interval")
		}
		p.snapshotInterval = interval
	}
	if configuration.ProgressReportInterval != "" {
		interval, err := time.ParseDuration(configuration.ProgressReportInterval)
		if err != nil {
			return exerciserParameters{}, util.StatusWrapWithCode(err, codes.InvalidArgument, "Invalid progress report interval")
		}
		if interval <= 0 {
			return exerciserParameters{}, status.Errorf(codes.InvalidArgument, "Progress report interval must be positive, but is %s", interval)
		}
		p.progressReportInterval = interval
	}
	return p, nil
}
