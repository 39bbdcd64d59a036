// Package panel maps the linear pixel address space of a serpentine LED
// panel onto an implicit 2-D grid.
//
// A panel is described by an ordered set of [Strip] descriptors. [Build]
// derives from them:
//
//   - per-strip index sequences in physical order ([Topology.Lines])
//   - the [PositionMatrix]: normalized vertical coordinates of every pixel,
//     scaled against the tallest strip
//   - the [Neighbours] graph: same-strip predecessor/successor plus the
//     closest-by-coordinate pixels of the two adjacent strips
//
// # Thread Safety
//
// A Topology is immutable after Build and may be shared read-only by any
// number of animations.
package panel
