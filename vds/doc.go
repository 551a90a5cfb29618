// Package vds implements the Verifiable Data Streaming protocol layer
// (spec.md §4.9): a Data Owner that creates, revokes, and updates batches;
// a Storage Server that holds batch secrets and answers Data Consumer and
// Data Auditor proof queries; and a Verifier that checks those proofs
// against the Data Owner's published dynamic public key.
//
// The three roles are logically independent agents communicating only
// through the values their methods return — there is no shared singleton
// state and no network transport here; callers wire the returned headers,
// secrets, and proofs between roles however their deployment requires.
package vds
