// Package treemap builds and lays out the two-level category tree.
//
// # Tree
//
// [Build] wraps a category list in a synthetic root named "categories".
// Every category becomes one leaf, in input order. A node is either the
// root or a leaf, tagged by [Kind]; leaves carry their category, the root
// carries none.
//
// # Layout
//
// [Layout] assigns bounds to every node with squarified tiling (golden
// ratio aspect target) and the padding model of d3-hierarchy's treemap:
//
//   - the root spans the whole container
//   - children tile the root inset by Padding/2
//   - each leaf is then shrunk by Padding/2 on every side
//
// The net effect is a Padding-wide margin along the container edge and a
// Padding-wide gap between siblings. Leaves are never sorted, so the same
// input always yields the same rectangles.
//
// # Leaves
//
// [Leaves] flattens a laid-out tree into [Leaf] values (category plus
// bounds) used by renderers and for pointer hit testing with [HitTest].
// An empty category list yields zero leaves.
package treemap
