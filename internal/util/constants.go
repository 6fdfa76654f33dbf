package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// ClientIDHeader carries the opaque per-browser identifier used to key the
// draft/receipt cache.
const ClientIDHeader = "X-Client-ID"

const MimePDF = "application/pdf"
