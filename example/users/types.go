package users

import (
	"time"

	"github.com/northfield/graphweave/schemabuilder"
)

// User is the schema's core object type.
type User struct {
	ID              schemabuilder.ID `graphql:"id,federationKey"`
	Name            string           `graphql:"name"`
	Email           string           `graphql:"email"`
	Age             int32            `graphql:"age"`
	ReputationScore float64          `graphql:"reputation"`
	IsActive        bool             `graphql:"isActive"`
	Role            Role             `graphql:"role"`
	CreatedAt       time.Time        `graphql:"createdAt"`
}

// Role is a GraphQL enum backed by a string.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleGuest  Role = "GUEST"
)

// CreateUserInput carries the fields needed to create a new user. Age is
// deprecated in favor of a future birthdate field.
type CreateUserInput struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Age             int32  `json:"age" graphql:",deprecated=Use birthdate instead" validate:"gte=0,lte=150"`
	ReputationScore float64
	IsActive        bool
	Role            Role
}

// ContactByInput identifies a user by exactly one of Email or Phone.
type ContactByInput struct {
	schemabuilder.OneOfInput
	Email *string
	Phone *string
}

// IdentifierInput is a oneOf input: exactly one of ID or Email identifies an
// existing user.
type IdentifierInput struct {
	schemabuilder.OneOfInput
	ID    *schemabuilder.ID
	Email *string
}

// UserInput carries the fields needed to create a new user.
type UserInput struct {
	Name            string
	Email           string
	Age             int32
	ReputationScore float64
	IsActive        bool
	Role            Role
}

// CreateUserByContactInput resolves an existing user by Identifier, falling
// back to creating one from UserInput when no match is found.
type CreateUserByContactInput struct {
	Identifier IdentifierInput
	UserInput  UserInput
}

// Server mock store for users (in-memory; used by resolvers).
type Server struct {
	users []*User
}

// NewServer creates a Server seeded with one user.
func NewServer() *Server {
	return &Server{
		users: []*User{
			{
				ID:              schemabuilder.ID{Value: "u1"},
				Name:            "John Doe",
				Email:           "jdoe@example.com",
				Age:             30,
				ReputationScore: 9.5,
				IsActive:        true,
				Role:            RoleAdmin,
				CreatedAt:       time.Now(),
			},
		},
	}
}