// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"errors"
	"fmt"

	"github.com/gogpu/compositor/resource"
)

// ErrMalformed is wrapped by every structural validation failure.
var ErrMalformed = errors.New("frame: malformed")

// Validation errors. Each wraps ErrMalformed.
var (
	ErrBadDeviceScale     = fmt.Errorf("%w: device scale must be positive", ErrMalformed)
	ErrZeroPassID         = fmt.Errorf("%w: zero pass id", ErrMalformed)
	ErrDuplicatePassID    = fmt.Errorf("%w: duplicate pass id", ErrMalformed)
	ErrSharedStateIndex   = fmt.Errorf("%w: shared state index out of range", ErrMalformed)
	ErrSharedStateOrder   = fmt.Errorf("%w: shared state runs not contiguous", ErrMalformed)
	ErrVisibleOutsideRect = fmt.Errorf("%w: visible rect outside quad rect", ErrMalformed)
	ErrMissingPayload     = fmt.Errorf("%w: quad without payload", ErrMalformed)
	ErrDanglingPassRef    = fmt.Errorf("%w: render pass reference not found", ErrMalformed)
	ErrDanglingResource   = fmt.Errorf("%w: resource not listed by frame", ErrMalformed)
	ErrNullSurfaceRef     = fmt.Errorf("%w: surface reference to null id", ErrMalformed)
)

// Validate checks the structural invariants of f. An empty pass list is
// valid. A render-pass quad may only reference a pass listed before the
// pass containing it.
func Validate(f *Frame) error {
	if f.DeviceScale <= 0 {
		return ErrBadDeviceScale
	}

	listed := make(map[resource.ID]struct{}, len(f.Resources))
	for _, r := range f.Resources {
		listed[r.ID] = struct{}{}
	}

	earlier := make(map[PassID]struct{}, len(f.Passes))
	for pi, p := range f.Passes {
		if p.ID == 0 {
			return fmt.Errorf("frame: pass %d: %w", pi, ErrZeroPassID)
		}
		if _, dup := earlier[p.ID]; dup {
			return fmt.Errorf("frame: pass %d id %d: %w", pi, p.ID, ErrDuplicatePassID)
		}
		if err := validatePass(p, earlier, listed); err != nil {
			return fmt.Errorf("frame: pass %d: %w", pi, err)
		}
		earlier[p.ID] = struct{}{}
	}
	return nil
}

func validatePass(p *Pass, earlier map[PassID]struct{}, listed map[resource.ID]struct{}) error {
	last := 0
	for qi := range p.Quads {
		q := &p.Quads[qi]
		if q.SharedState < 0 || q.SharedState >= len(p.SharedStates) {
			return fmt.Errorf("quad %d: %w", qi, ErrSharedStateIndex)
		}
		if q.SharedState < last {
			return fmt.Errorf("quad %d: %w", qi, ErrSharedStateOrder)
		}
		last = q.SharedState

		if !q.Rect.Contains(q.VisibleRect) {
			return fmt.Errorf("quad %d: %w", qi, ErrVisibleOutsideRect)
		}

		switch pl := q.Payload.(type) {
		case nil:
			return fmt.Errorf("quad %d: %w", qi, ErrMissingPayload)
		case RenderPassRef:
			if _, ok := earlier[pl.Pass]; !ok {
				return fmt.Errorf("quad %d pass %d: %w", qi, pl.Pass, ErrDanglingPassRef)
			}
		case SurfaceRef:
			if pl.Surface.IsNull() {
				return fmt.Errorf("quad %d: %w", qi, ErrNullSurfaceRef)
			}
		}

		for _, id := range q.Resources() {
			if _, ok := listed[id]; !ok {
				return fmt.Errorf("quad %d resource %d: %w", qi, id, ErrDanglingResource)
			}
		}
	}
	return nil
}
