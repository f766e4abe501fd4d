// Package pricing implements the deterministic cost model used for
// estimates: an hourly per-vcpu rate by vm class, a flat per-GB storage
// rate, and a public/private network rate.
package pricing
