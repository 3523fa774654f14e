package models

// User is an identity reference owned by the identity subsystem.
// The chat core only ever compares users by ID and displays Name.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
