package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/hashgraph/hedera-services-sub126/pkg/clock"
	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/hashgraph/hedera-services-sub126/pkg/program"
	bb_prometheus "github.com/hashgraph/hedera-services-sub126/pkg/prometheus"
	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func main() {
	program.RunMain(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
		if len(os.Args) != 2 {
			return status.Error(codes.InvalidArgument, "Usage: long_list_exerciser long_list_exerciser.jsonnet")
		}
		var configuration ApplicationConfiguration
		if err := util.UnmarshalConfigurationFromFile(os.Args[1], &configuration); err != nil {
			return util.StatusWrapf(err, "Failed to read configuration from %s", os.Args[1])
		}
		parameters, err := newExerciserParameters(&configuration)
		if err != nil {
			return util.StatusWrap(err, "Invalid configuration")
		}

		var ready atomic.Bool
		if listenAddress := configuration.DiagnosticsHTTPListenAddress; listenAddress != "" {
			router := mux.NewRouter()
			util.RegisterAdministrativeHTTPEndpoints(router, ready.Load)
			router.Handle("/metrics/long_list", promhttp.HandlerFor(
				bb_prometheus.NewNameFilteringGatherer(prometheus.DefaultGatherer, bb_prometheus.LongListMetricsPattern),
				promhttp.HandlerOpts{}))
			server := http.Server{
				Addr:    listenAddress,
				Handler: router,
			}
			// Keep serving metrics until the list has been
			// closed.
			dependenciesGroup.Go(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
				siblingsGroup.Go(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
					<-ctx.Done()
					return server.Close()
				})
				if err := server.ListenAndServe(); err != http.ErrServerClosed {
					return util.StatusWrapf(err, "Failed to launch diagnostics HTTP server %#v", server.Addr)
				}
				return nil
			})
		}

		list, err := longlist.NewLongListFromConfiguration(&configuration.LongList)
		if err != nil {
			return util.StatusWrap(err, "Failed to create long list")
		}
		log.Printf(
			"Created long list with capacity %d and %d longs per chunk, containing %d values",
			list.Capacity(),
			list.LongsPerChunk(),
			list.Size())
		ready.Store(true)

		e := newExerciser(
			list,
			parameters,
			clock.SystemClock,
			util.NewPrefixingErrorLogger(util.DefaultErrorLogger, "Periodic snapshot"))
		err = program.RunLocal(ctx, func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
			if parameters.progressReportInterval > 0 {
				dependenciesGroup.Go(e.reportProgress)
			}
			return e.run(ctx)
		})
		ready.Store(false)
		if closeErr := list.Close(); closeErr != nil && err == nil {
			err = util.StatusWrap(closeErr, "Failed to close long list")
		}
		return err
	})
}
