package common

const (
	// AuthorizationHeaderName carries the bearer credential on authenticated calls.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// DocumentsStorageKey is the local key-value key holding the document list.
	DocumentsStorageKey = "nkitsi:documents"
)
