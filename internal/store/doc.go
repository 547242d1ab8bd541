// Package store provides durable storage for validation rules and plot
// block hierarchies.
//
// SQLite is the only backend. Conditions, actions, and dependency lists
// are stored as JSON columns; everything queried on (fandom, priority,
// id) is a real column with an index. All list reads use deterministic
// ordering so two processes loading the same database evaluate rules in
// the same order.
package store
