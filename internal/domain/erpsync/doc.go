// Package erpsync contains the ERP Synchronization bounded context.
// This context keeps local parking-operations entities (customers, contracts,
// contract line-items, catalog items) consistent with an external ERP system
// reachable only through a proprietary, session-based HTTP API.
//
// Key concepts:
//   - Connection: credentials and identity for one remote ERP endpoint
//   - Integration: binds a Connection to one remote object and one local entity kind
//   - ErpGateway: port interface for the remote ERP protocol (auth, catalogue, data read/write)
//   - EntityStore: port interface for natural-key based local reads and upserts
//   - SyncStats / SyncProgress: per-run counters and resumable pagination state
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (HTTP client, gorm stores) are in the infrastructure layer
package erpsync
