// Package reconcile classifies collected answers against the registry.
//
// Every answer ends up in exactly one of five outcomes: new secret,
// updated secret, new variable, updated variable, or dropped. Secrets are
// write-only, so a secret that already exists remotely is always an
// update. Variables are compared by value and only updated when they
// differ.
//
// Remote items that no question or derivation rule knows about are
// reported separately as unknown so the operator can spot drift. They
// are never modified.
package reconcile
