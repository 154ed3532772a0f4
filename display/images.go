// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"image"
	"sync"

	"github.com/gogpu/compositor/aggregate"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// ImageSource supplies the pixels behind software resources.
type ImageSource interface {
	Image(key aggregate.ResourceKey) (image.Image, bool)
}

// Resolver maps the resource ids of an aggregated frame back to the
// producer that listed them. *aggregate.Aggregator implements it.
type Resolver interface {
	ResolveResource(id resource.ID) (aggregate.ResourceKey, bool)
}

// ResourceImages is an in-process bitmap registry: producers publish the
// image behind each software resource they submit.
//
// ResourceImages is safe for concurrent use.
type ResourceImages struct {
	mu     sync.RWMutex
	images map[aggregate.ResourceKey]image.Image
}

// NewResourceImages creates an empty registry.
func NewResourceImages() *ResourceImages {
	return &ResourceImages{images: make(map[aggregate.ResourceKey]image.Image)}
}

// Set publishes img as resource id of surface s.
func (r *ResourceImages) Set(s surface.ID, id resource.ID, img image.Image) {
	r.mu.Lock()
	r.images[aggregate.ResourceKey{Surface: s, ID: id}] = img
	r.mu.Unlock()
}

// Delete removes a published image, typically when the producer gets the
// resource back.
func (r *ResourceImages) Delete(s surface.ID, id resource.ID) {
	r.mu.Lock()
	delete(r.images, aggregate.ResourceKey{Surface: s, ID: id})
	r.mu.Unlock()
}

// Image implements ImageSource.
func (r *ResourceImages) Image(key aggregate.ResourceKey) (image.Image, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.images[key]
	return img, ok
}

// Len returns the number of published images.
func (r *ResourceImages) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.images)
}
