// Package engine holds the core domain of VMForge: the specification and
// resource types, the classified error taxonomy, the request state
// machine, the collaborator interfaces (catalog, builder, factories,
// templates, cost estimation), and the coordinator that drives a family
// construction from catalog lookup to the final vm record.
package engine
