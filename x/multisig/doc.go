/*
Package multisig implements a wallet owned by a group of addresses.

Any owner can submit a transaction. A transaction is executed only once the
number of current owners that approved it reaches the required threshold
and, if configured, the execution delay passed since the threshold was
reached.

The wallet governs itself. Changing the owner set, the threshold, the delays
or the wallet code is done by submitting a transaction that is addressed to
the wallet and carries a governance message as the payload. Such a message is
accepted only when it is dispatched by the wallet during execution.
*/
package multisig
