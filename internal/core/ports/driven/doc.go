// Package driven defines the outbound interfaces cadence depends on:
// the activity source, the token exchanger, and the persistence stores.
// Adapters under internal/adapters/driven implement them; services accept
// them so the handshake and fetch flows are testable with fakes.
package driven
