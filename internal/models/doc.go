// Package models defines the core domain models for tripledger.
//
// # Records
//
//   - Group: a trip that owns participants, expenses and settlements
//   - Participant: a member of a group with two running totals
//   - Expense / ExpenseSplit: a payment by one participant and how it is shared
//   - Settlement: a direct payment between two participants
//   - User: a registered account that may be linked to participants
//
// # Money
//
// Amounts are decimal.Decimal values with two fractional digits. Stores
// persist them as integer minor units so running totals stay exact.
//
// # Design Principles
//
//  1. Relationships use ID strings rather than pointers.
//  2. Running totals are materialized on Participant and only change through
//     ledger operations; nothing recomputes them on read.
package models
