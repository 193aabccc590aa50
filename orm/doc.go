/*
Package orm provides typed access to protobuf models stored in a key value
store.

ModelBucket keeps all entities of a kind under a common "<name>:" prefix and
Sequence hands out dense, monotonically growing identifiers persisted under
"_s.<bucket>:<name>".
*/
package orm
