// Package probe provides ffprobe-based media inspection. A single JSON call
// per file yields everything the concat pipeline needs: resolution,
// duration, audio presence, and stream/container bitrates.
//
// ffprobe reports numbers as strings and omits fields freely, so parsing is
// deliberately lenient: missing or malformed bitrates and durations become
// 0 ("unknown") rather than errors. Only a missing video stream or an
// undeterminable resolution fails the probe, because the filter graph
// cannot be built without frame geometry.
package probe
