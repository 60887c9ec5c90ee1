// Package snapshot persists the plaintext answers of a run to the local
// .env.<environment> file so an interrupted session can be resumed.
//
// The file holds one KEY="VALUE" line per answer, sorted by key. Values
// are double quoted with backslash, double quote, newline and carriage
// return escaped, so multi-line values such as SSH keys survive a round
// trip. Comment and blank lines are ignored on read.
//
// The file contains secrets in plaintext. It is written with mode 0600
// and must never be committed.
package snapshot
