// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package store keeps the latest frame of every surface and tracks the
// buffers those frames lend to the compositor.
//
// A Manager owns all surfaces. Each producer obtains a Factory from the
// manager; the factory is the exclusive owner of the surfaces it creates
// and the only handle through which frames are submitted to them.
//
// Resources follow a hold-count discipline. A submitted frame holds each
// resource it lists once; replacing the frame drops those holds. Consumers
// such as the aggregator take extra holds through a Lease. When the last
// hold on a resource goes away it is handed back to the producer's Client
// with the number of times it was received since it was last returned.
//
// Every public method is atomic with respect to the others. Client
// callbacks, draw callbacks and copy results are delivered after the
// manager lock is released, so they may call back into the store.
package store
