package models

import "time"

// File is the metadata row for an uploaded blob. The bytes live in the
// blob store under Key.
type File struct {
	Key         string
	Name        string
	Size        int64
	ContentType string
	// OwnerID is the uploading user; zero when the user was deleted.
	OwnerID   int64
	CreatedAt time.Time
}
