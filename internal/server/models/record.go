package models

// Record is one synced observation row. (UserID, LocalID) is unique: the
// client-generated id joins the row to its device-local counterpart, while
// ID is the server-assigned primary key used to address updates.
//
// Photo payloads are stored as base64 text, exactly as they travel on the
// wire. Meta is opaque JSON owned by the client.
type Record struct {
	ID                int64
	UserID            string
	LocalID           string
	CreatedAt         int64
	UpdatedAt         int64
	PhotoBase64       string
	ExtraPhotosBase64 []string
	View              string
	Meta              map[string]any
}
