package domain

import "time"

// Favorite is a saved product of one owner. (OwnerID, ProductID) is unique.
type Favorite struct {
	OwnerID   string    `json:"-"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerKind discriminates how a favorites owner was identified
type OwnerKind int

const (
	// OwnerAnonymous is an x-client-id identified browser
	OwnerAnonymous OwnerKind = iota
	// OwnerUser is an authenticated session user
	OwnerUser
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerAnonymous:
		return "anonymous"
	case OwnerUser:
		return "user"
	default:
		return "unknown"
	}
}
