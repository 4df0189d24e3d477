// Package store provides durable SQLite storage for parties, seats, queues
// and users.
//
// Every seat/queue primitive runs on a caller-held transaction (Tx). The
// engine opens one transaction per join/leave call, makes its decisions
// against locked state, and commits or rolls back as a unit. Targeted writes
// verify their affected-row count; a mismatch is a consistency failure that
// must abort the enclosing transaction.
package store
