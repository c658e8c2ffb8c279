// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no GORM tags; each model converts to and from its
// entity and exposes its columns to the audit mirror.
//
// Structure:
//   - base.go: shared columns for tenant-scoped aggregates
//   - partner.go: customers
//   - trade.go: sales and purchase orders
//   - identity.go: users, roles and user-role links
//   - approval.go: approval requests
//   - audit_log.go: audit entries
package models
