package prometheus_test

import (
	"testing"

	"github.com/hashgraph/hedera-services-sub126/internal/mock"
	"github.com/hashgraph/hedera-services-sub126/pkg/prometheus"
	"github.com/hashgraph/hedera-services-sub126/pkg/testutil"
	"github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

func TestNameFilteringGatherer(t *testing.T) {
	ctrl := gomock.NewController(t)

	baseGatherer := mock.NewMockPrometheusGatherer(ctrl)
	gatherer := prometheus.NewNameFilteringGatherer(baseGatherer, prometheus.LongListMetricsPattern)

	t.Run("Failure", func(t *testing.T) {
		baseGatherer.EXPECT().Gather().Return(nil, status.Error(codes.Internal, "Duplicate metric"))

		_, err := gatherer.Gather()
		testutil.RequireEqualStatus(t, status.Error(codes.Internal, "Failed to gather metrics: Duplicate metric"), err)
	})

	t.Run("Success", func(t *testing.T) {
		chunkAllocations := &io_prometheus_client.MetricFamily{
			Name: proto.String("merkledb_long_list_chunk_allocations_total"),
			Help: proto.String("Number of chunks allocated by LongLists."),
			Type: io_prometheus_client.MetricType_COUNTER.Enum(),
			Metric: []*io_prometheus_client.Metric{{
				Label: []*io_prometheus_client.LabelPair{{
					Name:  proto.String("storage_type"),
					Value: proto.String("native_memory"),
				}},
				Counter: &io_prometheus_client.Counter{
					Value: proto.Float64(17),
				},
			}},
		}
		baseGatherer.EXPECT().Gather().Return([]*io_prometheus_client.MetricFamily{
			{
				Name: proto.String("go_goroutines"),
				Help: proto.String("Number of goroutines that currently exist."),
				Type: io_prometheus_client.MetricType_GAUGE.Enum(),
				Metric: []*io_prometheus_client.Metric{{
					Gauge: &io_prometheus_client.Gauge{
						Value: proto.Float64(8),
					},
				}},
			},
			chunkAllocations,
			{},
		}, nil)

		families, err := gatherer.Gather()
		require.NoError(t, err)
		require.Len(t, families, 1)
		require.True(t, proto.Equal(chunkAllocations, families[0]))
	})
}
