/*

Package vault defines interfaces used throughout the wallet engine, such as:
storage, transactions, handlers etc.
It also contains helpers to work with conditions, addresses, time and the
context shared by every call.
Look into this package to get a brief overview of design decisions made around
interfaces and extension building blocks.

*/

package vault
