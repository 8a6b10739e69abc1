// Package warehouse keeps the inventory of a small warehouse consistent.
//
// Two stock keeping modes coexist. Bulk items carry a plain quantity that
// transactions add to or subtract from. Serialized items are tracked unit by
// unit: every physical unit is an Asset identified by its signal number, and
// the quantity shown for the item is always the number of its AVAILABLE
// assets (see Reconcile).
//
// All mutations go through a Store. Each operation validates its input,
// computes the next State and commits it in a single step, appending exactly
// one LogEntry to the ledger when the operation moves stock. Destructive
// operations (asset deletion, item deletion, snapshot import) are two-phase:
// a Plan describes the effect and Store.Commit applies it.
package warehouse
