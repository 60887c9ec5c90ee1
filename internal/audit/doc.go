// Package audit records what a sync run did to the registry.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line),
// by default at:
//
//	.envsync/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Run ID shared by every entry of one invocation
//   - Environment, operation and item (name, kind, scope)
//   - Status (applied or failed) and the error for failures
//
// Values are never written, neither plaintext nor ciphertext.
//
// # Usage
//
//	recorder := audit.NewRecorder(path)
//	recorder.Record(audit.Entry{Operation: audit.OpCreateSecret, Name: "SMTP_PASSWORD"})
//
// # Failure Handling
//
// Audit logging is best-effort. If the log cannot be written the sync
// continues; Record returns the error so callers can warn about it.
//
// # Reading Logs
//
// ReadEntries parses the log for display. Malformed entries are skipped to
// tolerate partial writes.
package audit
