package users

import (
	"context"
	"fmt"

	"github.com/northfield/graphweave/relay"
	"github.com/northfield/graphweave/schemabuilder"
)

// RegisterQuery registers the root Query fields: me, user, and allUsers.
func RegisterQuery(sb *schemabuilder.Schema, s *Server) {
	q := sb.Query()

	// me: simple resolver returning User (from Server).
	q.FieldFunc("me", func(ctx context.Context) *User {
		if len(s.users) > 0 {
			return s.users[0]
		}
		return nil
	}, schemabuilder.FieldDesc("The first stored user."))

	// user: arg by ID, resolver loop (error if not found).
	q.FieldFunc("user", func(ctx context.Context, args struct {
		ID schemabuilder.ID
	}) (*User, error) {
		for _, u := range s.users {
			if u.ID.Value == args.ID.Value {
				return u, nil
			}
		}
		return nil, fmt.Errorf("user not found")
	}, schemabuilder.FieldDesc("Look up a user by ID."))

	// allUsers: returns slice.
	q.FieldFunc("allUsers", func(ctx context.Context) []*User {
		return s.users
	}, schemabuilder.FieldDesc("All stored users."))

	// usersConnection: Relay cursor-paginated view over the same users.
	q.FieldFunc("usersConnection", func(ctx context.Context, args relay.ConnectionArgs) *relay.Connection[*User] {
		return relay.NewConnection(s.users, args)
	}, schemabuilder.FieldDesc("Relay cursor-paginated view over the users."))
}