package uplink

import "time"

// ObjectItem is one named binary object in an upload batch.
type ObjectItem struct {
	// Key is the caller-assigned object key within the batch manifest
	Key string

	// Filename names the object; it must be unique within the batch and
	// matches the object to its negotiated upload slot
	Filename string

	// ContentType is the declared MIME type; when empty it is sniffed from
	// the payload's leading bytes
	ContentType string

	// Data is the object payload
	Data []byte
}

// UploadBatch is an immutable request to upload one or more named objects
// on behalf of one owner. It is created by the caller and never mutated.
type UploadBatch struct {
	// OwnerID is the opaque owner identifier
	OwnerID string

	// Objects are the objects to upload
	Objects []ObjectItem
}

// UploadResult reports a fully confirmed batch.
type UploadResult struct {
	// RecordID is the opaque handle identifying the persisted batch
	RecordID string

	// Paths are the addressable object paths, one per object, in batch order
	Paths []string

	// Duration is how long the whole batch took
	Duration time.Duration
}

// ObjectPath returns the addressable path of an uploaded object,
// following the ownerID/recordID/filename convention.
func ObjectPath(ownerID, recordID, filename string) string {
	return ownerID + "/" + recordID + "/" + filename
}
