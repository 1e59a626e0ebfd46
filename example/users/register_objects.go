package users

import (
	"time"

	"github.com/northfield/graphweave/relay"
	"github.com/northfield/graphweave/schemabuilder"
)

// RegisterObjects registers the schema's output object types.
func RegisterObjects(sb *schemabuilder.Schema) {
	user := sb.Object("User", User{}, "User payload representing a person in the system.")
	user.FieldFunc("id", func(u *User) schemabuilder.ID { return u.ID }, "Unique identifier for the user.")
	user.FieldFunc("name", func(u *User) string { return u.Name }, "Full name of the user.")
	user.FieldFunc("email", func(u *User) string { return u.Email }, "Email address.")
	user.FieldFunc("age", func(u *User) int32 { return u.Age }, "Age in years.")
	user.FieldFunc("reputation", func(u *User) float64 { return u.ReputationScore }, "Reputation score (0-10).")
	user.FieldFunc("isActive", func(u *User) bool { return u.IsActive }, "Whether the user is active.")
	user.FieldFunc("role", func(u *User) Role { return u.Role }, "User role (ADMIN/MEMBER/GUEST).")
	user.FieldFunc("createdAt", func(u *User) time.Time { return u.CreatedAt }, "Account creation timestamp.")

	event := sb.Object("UserEvent", UserEvent{}, "An event published when a user is created.")
	event.FieldFunc("userId", func(e *UserEvent) schemabuilder.ID { return e.UserID })
	event.FieldFunc("kind", func(e *UserEvent) string { return e.Kind })

	pageInfo := sb.Object("PageInfo", relay.PageInfo{}, "Relay cursor-pagination state.")
	pageInfo.FieldFunc("hasNextPage", func(p *relay.PageInfo) bool { return p.HasNextPage })
	pageInfo.FieldFunc("hasPreviousPage", func(p *relay.PageInfo) bool { return p.HasPreviousPage })
	pageInfo.FieldFunc("startCursor", func(p *relay.PageInfo) string { return p.StartCursor })
	pageInfo.FieldFunc("endCursor", func(p *relay.PageInfo) string { return p.EndCursor })

	edge := sb.Object("UserEdge", relay.Edge[*User]{}, "A User and its opaque pagination cursor.")
	edge.FieldFunc("node", func(e *relay.Edge[*User]) *User { return e.Node })
	edge.FieldFunc("cursor", func(e *relay.Edge[*User]) string { return e.Cursor })

	conn := sb.Object("UserConnection", relay.Connection[*User]{}, "A page of Users in Relay cursor-connection shape.")
	conn.FieldFunc("edges", func(c *relay.Connection[*User]) []relay.Edge[*User] { return c.Edges })
	conn.FieldFunc("pageInfo", func(c *relay.Connection[*User]) relay.PageInfo { return c.PageInfo })
	conn.FieldFunc("totalCount", func(c *relay.Connection[*User]) int { return c.TotalCount })
}