// Package party implements the seat/queue allocation engine.
//
// A party has a fixed number of seats. Users join: if a seat is free they
// take it, otherwise they are appended to a FIFO waiting queue. When a seated
// user leaves a full party, the longest-waiting queued user is promoted into
// the vacated seat within the same transaction (propagation), so a seat is
// never transiently empty while the queue is non-empty.
//
// Every Join and Leave call runs exactly one store transaction. The queue is
// read with write intent at the start of both operations, because both may
// mutate it and Leave's propagation decision must stay valid through the seat
// write. Per (party, user) pair the states are Seated, Queued and Absent, and
// a user is never both seated and queued.
package party
