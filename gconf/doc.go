/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single protobuf serialized configuration message under
the "_c:<package>" key. The message is loaded from the "conf" section of the
genesis file during chain initialization and read back by handlers whenever
they need it.

*/
package gconf
