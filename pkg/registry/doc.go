// Package registry is the catalogue of module types a card can hold.
//
// The editor consults a [Registry] for two things only: a default value for a
// newly added module ([Registry.CreateDefaultModule]) and the metadata of a
// type ([Registry.GetModule]). Settings panels and renderers live with the
// host and are not modelled here.
//
// [Builtin] returns the catalogue shipped with cardbuilder:
//
//	reg := registry.Builtin(layout.NewID)
//	m, ok := reg.CreateDefaultModule("gauge")
//
// Unknown types can be matched against the catalogue with [Catalog.Suggest],
// which is what the CLI uses for "did you mean" hints.
package registry
