// Package domain defines the core business entities for cadence.
//
// This package is the innermost layer: activities, weekly buckets, and
// OAuth tokens. It imports only the standard library; adapters and
// services depend on domain, never the reverse.
package domain
