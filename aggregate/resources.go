// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/store"
	"github.com/gogpu/compositor/surface"
)

// ResourceKey names a resource by the surface whose frame listed it and
// the producer's local id.
type ResourceKey struct {
	Surface surface.ID
	ID      resource.ID
}

// resourceMap assigns output resource ids for one aggregation.
type resourceMap struct {
	views map[surface.ID]store.View
	ids   map[ResourceKey]resource.ID
	table map[resource.ID]ResourceKey
	list  []resource.Transferable
	next  resource.ID
}

func newResourceMap(views map[surface.ID]store.View) *resourceMap {
	return &resourceMap{
		views: views,
		ids:   make(map[ResourceKey]resource.ID),
		table: make(map[resource.ID]ResourceKey),
		next:  1,
	}
}

// remap returns the output id for local, listing the resource in the
// output frame on first use. Zero stays zero.
func (m *resourceMap) remap(s surface.ID, local resource.ID) resource.ID {
	if local == 0 {
		return 0
	}
	key := ResourceKey{s, local}
	if id, ok := m.ids[key]; ok {
		return id
	}
	id := m.next
	m.next++
	m.ids[key] = id
	m.table[id] = key
	if tr, ok := m.views[s].Frame.Resource(local); ok {
		tr.ID = id
		m.list = append(m.list, tr)
	}
	return id
}
