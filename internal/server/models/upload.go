package models

// UploadResult references an object written to the content store.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
