package model

import (
	"time"

	"github.com/google/uuid"
)

// UserID is the opaque identity of a caller. Empty means anonymous.
type UserID string

// NewUserID generates a new UserID
func NewUserID() UserID {
	return UserID(uuid.Must(uuid.NewV7()).String())
}

func (id UserID) String() string {
	return string(id)
}

// User is an account registered through the agent
type User struct {
	ID        UserID
	Username  string
	Name      string
	Email     string `masq:"secret"`
	CreatedAt time.Time
}

// PetID identifies a Pet
type PetID string

// NewPetID generates a new PetID
func NewPetID() PetID {
	return PetID(uuid.Must(uuid.NewV7()).String())
}

// Pet is an animal owned by a user
type Pet struct {
	ID        PetID
	Owner     UserID
	Name      string
	Species   string
	Breed     string
	Gender    string
	WeightLbs *float64
	BirthDate *time.Time
	CreatedAt time.Time
}
