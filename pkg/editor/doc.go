// Package editor implements every structural change to a card layout.
//
// All operations are methods on [Editor] taking the current [layout.Layout]
// and returning a new one. The input is never modified: each operation copies
// the slices on the path it touches and shares the rest. On error the returned
// layout is the input, unchanged, so callers can always publish the result.
//
// # Errors
//
// Operations fail with a structured error from the errors package:
//
//   - INVALID_COORDINATE: an index does not resolve to a node
//   - CAPACITY_EXCEEDED: a row already holds six columns
//   - LAST_ROW: the only row cannot be deleted
//   - NESTED_CONTAINER: a container would end up inside a container
//   - NO_CHANGE: the request is valid but leaves the layout as it is
//
// CAPACITY_EXCEEDED, LAST_ROW and NO_CHANGE are refusals, not failures; see
// errors.IsRefusal.
//
// # Column layouts
//
// [Editor.ChangeColumnLayout] reshapes a row for a new proportion template.
// Growing appends empty columns. Shrinking collects every module in column
// order and deals them round-robin over the remaining columns, so no module is
// ever dropped. Operations that change the column count in other ways (adding,
// duplicating, deleting or moving columns) set the row's template to the equal
// split for the new count.
//
// # Moves
//
// [Editor.Move] relocates the node described by a drag source onto a drop
// target. Moves into a container insert the module before removing it from its
// origin. Reorders inside one column or one container use "insert before
// target" semantics; rows and columns are inserted at the target index of the
// shortened list.
package editor
