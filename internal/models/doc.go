// Package models defines the core domain models for boardfund.
//
// # Models
//
//   - Fund: a board-controlled treasury and its fixed member set
//   - Transaction: a fund-release request awaiting board approval
//   - Address: the identity of a member, depositor, recipient or treasury
//
// Amounts are decimal.Decimal values in the asset's base units. They are
// never negative.
//
// # Design Principles
//
//  1. **Snapshots, not handles**: these types are plain values copied out of
//     the treasury core; mutating them never changes a treasury
//  2. **Avoid circular references**: funds and transactions refer to each
//     other by ID only
package models
