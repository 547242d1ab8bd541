// Package rules defines the immutable data model for the tagweave
// validation engine: conditions, actions, validation rules, the
// per-request validation input, and the aggregated validation result.
//
// All values in this package are read-only once constructed. The engine
// receives snapshots per evaluation call and never mutates them, which is
// what makes concurrent and repeated evaluation safe without locking.
//
// Condition and action kinds are typed string enums with Valid() checks,
// and condition values use the sealed Value union (see value.go) so that
// a new kind or an unsupported value shape fails at the type level rather
// than deep inside evaluation.
package rules
