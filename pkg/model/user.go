package model

import "time"

type Role string

const (
	RoleGuest        Role = "guest"
	RoleEmployee     Role = "employee"
	RoleReceptionist Role = "receptionist"
	RoleManager      Role = "manager"
	RoleAdmin        Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleEmployee, RoleReceptionist, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is the identity record. PasswordHash is bcrypt and never serialized.
type User struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Username      string    `json:"username" bson:"username" validate:"required,min=3,max=50"`
	Email         string    `json:"email" bson:"email" validate:"required,email"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	PasswordHash  string    `json:"-" bson:"password_hash"`
	Role          Role      `json:"role" bson:"role" validate:"required,oneof=guest employee receptionist manager admin"`
	LoyaltyPoints int       `json:"loyaltyPoints" bson:"loyalty_points" validate:"min=0"`
	CreatedAt     time.Time `json:"created_at,omitempty" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at,omitempty" bson:"updated_at"`
}
