// Package billing contains the monetization core: subscription plans and
// their monthly quotas, the per-user credit balance with its append-only
// transaction ledger, the per-month usage counters, and the pure entitlement
// math that decides whether a user may create or publish documents.
//
// Nothing in this package performs I/O. Repositories are defined as
// interfaces here and implemented in infrastructure/persistence; the
// entitlement resolver operates on an in-memory snapshot so both lifecycle
// services share a single source of truth for limit arithmetic.
package billing
