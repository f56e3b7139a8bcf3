// Package billing provides the invoice lifecycle domain model for a
// multi-tenant invoicing application.
//
// This package implements the billing bounded context, which is responsible
// for:
//   - Creating and editing draft invoices and their line items
//   - Computing line and invoice totals with fixed-point decimal arithmetic
//   - Enforcing the invoice status lifecycle (draft, sent, paid, overdue,
//     cancelled) and its allowed transitions
//
// Key Aggregates:
//   - Invoice: Owns its line items and all monetary totals derived from them
//
// Totals are recomputed from the items on every mutation and each computed
// amount is rounded half-up to two decimals as it is produced, so the stored
// totals are always consistent with the stored items.
//
// The billing domain integrates with:
//   - Organization domain: For invoice number allocation and defaults
//   - Partner domain: For the billed client
//   - Catalog domain: For optional product references on line items
package billing
