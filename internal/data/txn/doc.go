// Package txn owns transaction boundaries.
//
// ExecuteInNewTransaction runs a unit of work once inside a transaction
// described by a Definition. ExecuteInNewRepeatableTransaction runs it under
// serializable isolation and re-runs it wholesale when the store reports an
// optimistic lock or lock acquisition conflict, up to MaxAttempts times.
package txn
