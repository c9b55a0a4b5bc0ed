/*
Package errors implements the error model shared by all vault extensions.

Every failure returned by a handler wraps one of the root errors created with
Register. A root error carries a numeric code so that clients (the vaultd HTTP
API, the command line tools) can tell the reasons apart without parsing
messages.

Generic root errors are declared in this package. Extensions that need their own
taxonomy (x/multisig for example) register them in their errors.go file using a
dedicated code range.

Create an error instance at the point of failure using Wrap or Wrapf so that a
stack trace is attached:

	return errors.Wrapf(errors.ErrNotFound, "transaction %d", id)

and test for a kind of failure with the Is method of the root error:

	if multisig.ErrAlreadyExecuted.Is(err) { ... }

Formatting with %+v prints the full stack trace of the innermost wrap.
*/
package errors
