/*
Package orm provides an easy to use db wrapper.

Models are stored in a bucket under a key prefixed by the bucket name. Break
state space into prefixed sections called Buckets. Each bucket holds a single
model type and can be queried either by the primary key or by a key prefix.
Sequences provide monotonically increasing counters, for example to assign
identifiers.
*/
package orm
