// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents students, entrepreneurs, and administrators.
//
// NOTE:
//   - Users sign in with Google OAuth only; there is no local password.
//     AuthReturnID holds the Google subject id once the account is linked.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"`
	AuthReturnID *string            `bson:"auth_return_id,omitempty" json:"auth_return_id,omitempty"`
	Role         string             `bson:"role" json:"role"`           // user | admin | superadmin
	UserType     string             `bson:"user_type" json:"user_type"` // student | entrepreneur
	Status       string             `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
