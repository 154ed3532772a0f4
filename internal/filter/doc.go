// Package filter implements the pixel-moving filters a render pass quad can
// apply to the pass it draws.
//
// Filters operate on premultiplied *image.RGBA buffers and never read
// outside the source bounds: edge pixels are extended.
package filter
