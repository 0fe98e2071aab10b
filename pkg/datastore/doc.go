// Package datastore is the single accessor for modpatch's persisted
// records: the JSON sidecar stored beside every mod archive and the JSON
// profile records in the profiles folder. Nothing else reads or writes
// those files, which keeps the on-disk schema in one place.
package datastore
