package constants

// Action names for the single-endpoint router.
const (
	ActionHealthz = "healthz"

	ActionConnectionsList  = "connections_list"
	ActionConnectionGet    = "connection_get"
	ActionConnectionCreate = "connection_create"
	ActionConnectionUpdate = "connection_update"
	ActionConnectionDelete = "connection_delete"
	ActionConnectionSchema = "connection_schema"
	ActionConnectionTest   = "connection_test"
)

// Audit event kinds emitted by connection mutations.
const (
	EventConnectionCreated = "CONNECTION_CREATED"
	EventConnectionUpdated = "CONNECTION_UPDATED"
	EventConnectionDeleted = "CONNECTION_DELETED"
)

// SampleConnectionID identifies the built-in demo connection.
const SampleConnectionID = "sample"

// TotalSizeUnknown is reported when no table size could be determined.
const TotalSizeUnknown = "N/A"

// SizeUnknown labels tables whose size was not retrieved.
const SizeUnknown = "Unknown"

// User facing introspection messages
const (
	MessageConnectionNotFound = "Database connection not found"
	MessageDecryptionFailed   = "Password decryption failed"
	MessageSampleSchema       = "Schema introspection is not applicable to the sample database"
	MessageUnsupportedEngine  = "Unsupported engine: "
)

// DefaultUserIDHeader carries the authenticated user id from upstream auth.
const DefaultUserIDHeader = "X-User-Id"
