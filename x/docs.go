/*
Package x contains the standard extensions of the wallet engine.

Extensions implement common functionality (Handler, Decorator,
Initializer) and are combined together by the app package to construct
the ledger. The multisig extension holds the wallet logic, while sigs,
cash and code provide caller authentication, value transfers and contract
calls it relies on.
*/
package x
