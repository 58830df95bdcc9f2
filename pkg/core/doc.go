// Package core defines the shared language of the LeapGantt system.
//
// This package contains:
//   - Schedule entities (Row, Kind)
//   - Chart primitives (Bar, Marker) and the ChartSpec that groups them
//   - Project summary metrics
//   - Typed errors raised while reading a schedule
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
