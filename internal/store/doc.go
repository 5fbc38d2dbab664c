// Package store persists contact records into a deduplicated local
// dataset, either a CSV file or an embedded SQLite database.
//
// # Dedup discipline
//
// Every sink keeps an in-memory index of normalized emails. In append
// mode the index is loaded from the existing sink before the first
// candidate is processed, so duplicates across separate runs are caught
// identically to duplicates within one run. Submit holds a mutex across
// the check-then-write, so two concurrently submitted candidates with
// the same address can never both be accepted.
//
// # Failure semantics
//
// A rejected or duplicate candidate is a normal outcome, reported in the
// submit status with a nil error. A sink write failure is returned as a
// non-nil error and is fatal to the run: partial sink state is unsafe to
// continue from.
package store
