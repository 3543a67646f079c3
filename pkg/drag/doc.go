// Package drag tracks a drag-and-drop gesture over a card layout.
//
// A gesture starts by picking up a node ([Pick]), which snapshots the dragged
// value together with its position. While the pointer moves, candidate drop
// targets are offered to the [Machine]; only targets allowed by the
// compatibility table below become the hovered target:
//
//	source          allowed targets
//	row             row
//	column          column, row
//	module          module, column, layout, layout-child
//	layout-child    module, column, layout, layout-child
//
// Dropping a node onto its own position is never allowed, and container
// modules are never allowed into another container.
//
// The machine does not touch the layout. [Machine.Drop] returns the validated
// (source, target) pair and the caller hands it to the move engine in the
// editor package.
//
// Sources and targets are closed sets of types: [RowSource], [ColumnSource],
// [ModuleSource], [ChildSource] and [RowTarget], [ColumnTarget],
// [ModuleTarget], [ContainerTarget], [ChildTarget].
package drag
