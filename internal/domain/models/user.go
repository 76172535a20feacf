// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Designation values recognized for faculty records. Audience tags resolve
// to subsets of these (see the audience package).
var AllDesignations = []string{
	"Faculty",
	"Assistant Professor",
	"Associate Professor",
	"Lab Assistant",
	"HOD",
	"DEAN",
	"ADMIN",
}

// IsValidDesignation checks if a value is a recognized designation.
func IsValidDesignation(value string) bool {
	for _, d := range AllDesignations {
		if d == value {
			return true
		}
	}
	return false
}

// User is a faculty record. Authentication is handled by an external
// service; this record only carries the profile and the push delivery
// address for that identity.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"`
	Email      string             `bson:"email" json:"email"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`

	// Designation determines which audience tags include this user.
	Designation string `bson:"designation" json:"designation"`

	// FCMToken is the push delivery address; a user without one is silently
	// dropped from dispatch.
	FCMToken *string `bson:"fcm_token,omitempty" json:"-"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
