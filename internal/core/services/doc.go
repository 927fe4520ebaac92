// Package services contains the core business logic: the authorization
// orchestrator and the weekly stats pipeline. Services orchestrate calls
// to driven ports (adapters) and are pure Go with no external dependencies.
package services
