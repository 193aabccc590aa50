/*
Package x holds the authentication glue shared by escrowd extensions.

Sub-packages implement the handlers and decorators the application is built
from: sigs verifies transaction signatures and tracks signer nonces, utils
provides the logging, recovery and savepoint decorators, and escrow holds the
escrow lifecycle itself.

Note that protobuf types in exported code are prefixed by the package, so
avoid stutter. Use eg. `escrow.CreateMsg` in place of
`escrow.CreateEscrowMsg`.
*/
package x
