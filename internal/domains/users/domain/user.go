package domain

import "github.com/Apurer/petstore-api-harness/internal/shared/optional"

// User represents a Petstore user. Username is the natural key for the
// read, update and delete operations.
type User struct {
	ID         *int64 `json:"id,omitempty"`
	Username   string `json:"username"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password,omitempty"`
	Phone      string `json:"phone,omitempty"`
	UserStatus int32  `json:"userStatus"`
}

// Clone returns a copy that can be edited before an update call.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.ID = optional.Clone(u.ID)
	return &clone
}
