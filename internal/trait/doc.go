// Package trait negotiates the shared per-organism data layout.
//
// Modules claim named traits with an access mode (who may read and who may
// write). The Manager gathers every claim, verifies that the claims on each
// name are consistent, and registers one slot per distinct name in a Layout.
// Once the Layout is locked every organism stores its traits in a Store
// built from it, and a Store refuses values whose cty type does not match
// the slot.
package trait
