/*
Package sigs provides basic authentication middleware to verify the
signatures on the transaction, and maintain nonces for replay protection.

Each signer is identified by its ed25519 public key. The first valid
signature creates the signer account that stores the nonce. Every following
signature must carry the current nonce, which is then incremented.
*/
package sigs
