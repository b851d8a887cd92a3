package main

import (
	"context"
	"log"
	"time"

	"github.com/hashgraph/hedera-services-sub126/pkg/clock"
	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/hashgraph/hedera-services-sub126/pkg/program"
	"github.com/hashgraph/hedera-services-sub126/pkg/random"
	"github.com/hashgraph/hedera-services-sub126/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// valueForIndex returns the value that the exerciser stores at a given
// index. It is never equal to longlist.ImpermissibleValue.
func valueForIndex(index int64) int64 {
	return index + 1
}

// exerciser repeatedly appends batches of values to a LongList, in the
// same way a Merkle tree would assign paths to new leaves. After every
// batch, the valid range is moved forward, so that chunks holding
// indices that are no longer valid are released.
type exerciser struct {
	list        longlist.LongList
	parameters  exerciserParameters
	clock       clock.Clock
	errorLogger util.ErrorLogger
	generators  []random.SingleThreadedGenerator

	lastSnapshot time.Time
}

// newExerciser creates an exerciser that uses one random number
// generator per writer. Generators are seeded from the configured seed
// if one is provided, so that the order in which values are written
// can be reproduced.
//
// Failures to write periodic snapshots are reported through the
// ErrorLogger, as a later snapshot may still succeed.
func newExerciser(list longlist.LongList, parameters exerciserParameters, clock clock.Clock, errorLogger util.ErrorLogger) *exerciser {
	generators := make([]random.SingleThreadedGenerator, 0, parameters.writers)
	for writer := 0; writer < parameters.writers; writer++ {
		if parameters.seed != nil {
			generators = append(generators, random.NewSeededSingleThreadedGenerator(*parameters.seed+uint64(writer)))
		} else {
			generators = append(generators, random.NewFastSingleThreadedGenerator())
		}
	}
	return &exerciser{
		list:         list,
		parameters:   parameters,
		clock:        clock,
		errorLogger:  errorLogger,
		generators:   generators,
		lastSnapshot: clock.Now(),
	}
}

// run writes batches until the list is full, or until the context is
// canceled. Batches are always written completely, so that no gaps
// are left behind in the valid range.
func (e *exerciser) run(ctx context.Context) error {
	for start := e.list.Size(); start < e.list.Capacity(); {
		end := min(start+e.parameters.batchSize, e.list.Capacity())
		if err := e.writeBatch(ctx, start, end); err != nil {
			return err
		}
		if err := e.list.UpdateValidRange(max(0, end-e.parameters.windowLength), end-1); err != nil {
			return util.StatusWrap(err, "Failed to update valid range")
		}
		if err := e.verifyRange(start, end); err != nil {
			return err
		}
		if ctx.Err() != nil {
			log.Printf("Stopping after writing indices up to %d", end)
			return e.writeSnapshot()
		}
		if e.parameters.snapshotPath != "" && e.clock.Now().Sub(e.lastSnapshot) >= e.parameters.snapshotInterval {
			if err := e.verifyValidRange(context.Background()); err != nil {
				return util.StatusWrap(err, "Failed to verify valid range")
			}
			if err := e.persist(); err != nil {
				e.errorLogger.Log(err)
			}
		}
		start = end
	}
	log.Printf("List is full after writing %d values", e.list.Capacity())
	return e.writeSnapshot()
}

// writeBatch writes the values of indices [start, end) using multiple
// goroutines. Each goroutine writes an interleaved subset of indices
// in random order, so that chunks get allocated concurrently and
// values do not get written in increasing order.
func (e *exerciser) writeBatch(ctx context.Context, start, end int64) error {
	return program.RunLocal(ctx, func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
		for writer := 0; writer < e.parameters.writers; writer++ {
			var indices []int64
			for index := start + int64(writer); index < end; index += int64(e.parameters.writers) {
				indices = append(indices, index)
			}
			e.generators[writer].Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
			siblingsGroup.Go(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
				for _, index := range indices {
					// Alternate between both ways of writing,
					// so that both get exercised.
					if index%2 == 0 {
						if err := e.list.Put(index, valueForIndex(index)); err != nil {
							return err
						}
					} else if swapped, err := e.list.PutIfEqual(index, longlist.ImpermissibleValue, valueForIndex(index)); err != nil {
						return err
					} else if !swapped {
						return status.Errorf(codes.Internal, "Index %d was written before", index)
					}
				}
				return nil
			})
		}
		return nil
	})
}

// reportProgress periodically logs how far the exerciser has
// progressed, until the context is canceled.
func (e *exerciser) reportProgress(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
	ticker, tick := e.clock.NewTicker(e.parameters.progressReportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			log.Printf(
				"Progress: size %d of %d, valid range [%d, %d], %d chunks allocated",
				e.list.Size(),
				e.list.Capacity(),
				e.list.MinValidIndex(),
				e.list.MaxValidIndex(),
				e.list.AllocatedChunkCount())
		}
	}
}

// verifyRange checks that a batch of values was written correctly.
func (e *exerciser) verifyRange(start, end int64) error {
	minValidIndex := e.list.MinValidIndex()
	return e.list.ForEachInRange(longlist.IndexRange{Start: start, End: end}, func(index, value int64) error {
		return checkValue(index, value, minValidIndex)
	})
}

// verifyValidRange checks that all values in the valid range are
// still present.
func (e *exerciser) verifyValidRange(ctx context.Context) error {
	minValidIndex := e.list.MinValidIndex()
	return longlist.ParallelForEach(ctx, e.list, e.parameters.writers, func(index, value int64) error {
		return checkValue(index, value, minValidIndex)
	})
}

func checkValue(index, value, minValidIndex int64) error {
	if index >= minValidIndex && value != valueForIndex(index) {
		return status.Errorf(codes.DataLoss, "Index %d contains value %d, while %d was expected", index, value, valueForIndex(index))
	}
	return nil
}

// writeSnapshot verifies the contents of the valid range and persists
// the list, if a snapshot path is configured. This is also done while
// shutting down, so it does not respect cancelation.
func (e *exerciser) writeSnapshot() error {
	if e.parameters.snapshotPath == "" {
		return nil
	}
	if err := e.verifyValidRange(context.Background()); err != nil {
		return util.StatusWrap(err, "Failed to verify valid range")
	}
	return e.persist()
}

// persist writes a snapshot of the list to the configured path.
func (e *exerciser) persist() error {
	path := e.parameters.snapshotPath
	if err := e.list.WriteSnapshot(path); err != nil {
		return util.StatusWrap(err, "Failed to write snapshot")
	}
	e.lastSnapshot = e.clock.Now()
	log.Printf(
		"Wrote snapshot of indices [%d, %d), holding %d chunks and %d bytes of native memory",
		e.list.MinValidIndex(),
		e.list.Size(),
		e.list.AllocatedChunkCount(),
		e.list.OffHeapConsumptionBytes())
	return nil
}
