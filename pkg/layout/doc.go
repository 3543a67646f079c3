// Package layout defines the card layout tree: rows of columns of modules.
//
// A [Layout] owns an ordered list of [Row] values. Each row owns up to
// [MaxColumns] [Column] values, and each column owns an ordered list of
// [Module] values. Two module types, "horizontal" and "vertical", are layout
// containers: they carry child modules of their own. Containers never hold
// other containers, so the tree is at most two module levels deep below a
// column.
//
// # Values, not references
//
// Every type in this package is a plain value. Operations elsewhere (see the
// editor package) never modify a layout in place; they build a new value,
// copying only the levels they touch. Callers holding an older Layout keep
// seeing the old tree.
//
// # Identity
//
// Rows, columns and modules carry generated ids ("row-1718000000000-3f2504e0").
// Ids are used to correlate a dragged value with its origin; lookups are always
// positional, through [Address].
//
// # Serialization
//
// The JSON form mirrors the host configuration schema:
//
//	{
//	  "rows": [{
//	    "id": "row-...",
//	    "column_layout": "1-2",
//	    "columns": [{
//	      "id": "col-...",
//	      "vertical_alignment": "center",
//	      "horizontal_alignment": "center",
//	      "modules": [{"id": "module-...", "type": "text", "text": "Hello"}]
//	    }]
//	  }]
//	}
//
// Fields not modelled explicitly (margins, colours, display conditions, and
// every type-specific module setting) round-trip through [Fields].
//
// # Column layouts
//
// A row's column_layout names a proportion template ([Template]). Legacy ids
// are accepted on read and resolved with [ResolveTemplateID]; the stored id is
// never rewritten by reading it.
package layout
