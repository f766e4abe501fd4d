// Package templates implements the prototype registry: named
// specifications that are cloned, never shared, and customized through
// the specification builder. An optional store persists the set across
// restarts.
package templates
