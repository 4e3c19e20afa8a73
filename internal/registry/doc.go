// Package registry holds the static description of every entity type the
// sync engine can synchronize.
//
// A type is described by an [EntityDescriptor]: the remote record type it is
// stored as, how local fields map onto record fields, which fields hold
// references to other entities, and an [Accessors] table used to read and
// write local fields without reflection. Descriptors are validated once in
// [Registry.Register]; a single misconfigured descriptor rejects the whole
// batch.
package registry
