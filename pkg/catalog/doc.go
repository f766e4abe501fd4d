// Package catalog holds the sizing tables that map a provider, vm class,
// and size tier to baseline compute, network, and storage configurations.
// The builtin tables cover aws, azure, gcp, and onpremise; extension files
// in YAML can layer additional rows on top.
package catalog
