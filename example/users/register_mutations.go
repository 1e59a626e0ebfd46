package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/northfield/graphweave/schemabuilder"
)

// RegisterCreateUserMutation registers the createUser mutation.
func RegisterCreateUserMutation(sb *schemabuilder.Schema, s *Server) {
	m := sb.Mutation()

	m.FieldFunc("createUser", func(ctx context.Context, args struct {
		Input CreateUserInput
	}) *User {
		newUser := &User{
			ID:              schemabuilder.ID{Value: uuid.New().String()},
			Name:            args.Input.Name,
			Email:           args.Input.Email,
			Age:             args.Input.Age,
			ReputationScore: args.Input.ReputationScore,
			IsActive:        args.Input.IsActive,
			Role:            args.Input.Role,
			CreatedAt:       time.Now(),
		}
		s.users = append(s.users, newUser)
		publishUserCreated(ctx, newUser.ID)
		return newUser
	}, schemabuilder.FieldDesc("Create a new user."))
}

// RegisterContactByMutation registers contactBy, which finds a user by
// exactly one of email or phone.
func RegisterContactByMutation(sb *schemabuilder.Schema, s *Server) {
	m := sb.Mutation()

	m.FieldFunc("contactBy", func(ctx context.Context, args struct {
		Input *ContactByInput
	}) (*User, error) {
		if args.Input == nil {
			return nil, errors.New("input required")
		}
		var matchEmail, matchPhone string
		if args.Input.Email != nil {
			matchEmail = *args.Input.Email
		}
		if args.Input.Phone != nil {
			matchPhone = *args.Input.Phone
		}
		for _, u := range s.users {
			if (matchEmail != "" && u.Email == matchEmail) || (matchPhone != "" && u.Email == matchPhone) {
				return u, nil
			}
		}
		return nil, fmt.Errorf("user not found by email=%s or phone=%s", matchEmail, matchPhone)
	}, schemabuilder.FieldDesc("Find a user by exactly one of email or phone."))
}

// RegisterCreateUserByContactMutation registers createUserByContact, which
// resolves an existing user by its oneOf Identifier (ID or email) or, when no
// user matches, creates one from the embedded UserInput.
func RegisterCreateUserByContactMutation(sb *schemabuilder.Schema, s *Server) {
	m := sb.Mutation()

	m.FieldFunc("createUserByContact", func(ctx context.Context, args struct {
		Input CreateUserByContactInput
	}) (*User, error) {
		id := args.Input.Identifier
		for _, u := range s.users {
			if id.ID != nil && u.ID.Value == id.ID.Value {
				return u, nil
			}
			if id.Email != nil && u.Email == *id.Email {
				return u, nil
			}
		}

		newID, err := schemabuilder.NewResourceID(ctx, "user")
		if err != nil {
			return nil, err
		}

		in := args.Input.UserInput
		newUser := &User{
			ID:              newID,
			Name:            in.Name,
			Email:           in.Email,
			Age:             in.Age,
			ReputationScore: in.ReputationScore,
			IsActive:        in.IsActive,
			Role:            in.Role,
			CreatedAt:       time.Now(),
		}
		s.users = append(s.users, newUser)
		publishUserCreated(ctx, newUser.ID)
		return newUser, nil
	}, schemabuilder.FieldDesc("Resolve a user by identifier, or create one from the user input."))
}

// RegisterMutation registers every mutation field on the schema's shared
// Mutation object.
func RegisterMutation(sb *schemabuilder.Schema, s *Server) {
	RegisterCreateUserMutation(sb, s)
	RegisterContactByMutation(sb, s)
	RegisterCreateUserByContactMutation(sb, s)
}