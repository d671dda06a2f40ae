// Package uplink uploads binary objects to an S3-compatible store, either
// through an intermediating API that allocates presigned upload slots
// (negotiate, transfer, confirm) or directly against the store with AWS
// Signature Version 4 request signing.
//
// The Client drives the three-phase batch protocol: it negotiates one
// upload slot per object, transfers all objects in parallel, and confirms
// the batch. The caller receives exactly one of an opaque record identifier
// or a typed error. DirectStore covers the signed direct path for single
// objects.
package uplink
