// Package secrets seals secret values for the registry.
//
// The registry publishes a Curve25519 public key per scope (one for the
// repository, one per environment). Secret values are encrypted with a
// NaCl anonymous sealed box against that key before they leave the
// process: an ephemeral sender key pair is generated for every call, so
// only the holder of the registry's private key can open the result and
// the ciphertext is safe to send over any channel.
//
// # Key Handling
//
// Public keys are never cached here. Callers fetch the key for the target
// scope immediately before each Seal and pass the key id back to the
// registry together with the ciphertext.
//
// # Generated Secrets
//
// GeneratePassphrase produces random values for secrets the operator
// should never have to invent, such as database admin passwords.
package secrets
