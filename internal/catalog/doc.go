// Package catalog declares the configuration items envsync knows about.
//
// A Question is one value the operator supplies. Questions are grouped in
// Sections that run in a fixed order, so later sections can depend on the
// answers of earlier ones through Question.When.
//
// Every item that lives in the registry is identified by a Key: the
// remote name, the value kind (secret or variable) and the scope
// (repository or environment). Questions without a Label are local-only:
// they steer the session but are never compared with remote state.
//
// Secrets are write-only in the registry. RemoteItem.Value is therefore
// only ever populated for variables.
package catalog
