// Package builder assembles complete specifications from catalog entries
// or existing specifications, merging partial overrides and filling the
// provider-dependent defaults before validation.
package builder
