// Package providers implements the per-provider resource factories that
// turn validated configurations into simulated resource records, plus the
// registry that resolves a provider id to its factory.
//
// Factories are stateless; resource identifiers come from an injected
// IDGenerator so tests can make them deterministic.
package providers
