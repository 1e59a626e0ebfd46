package users

import "github.com/northfield/graphweave/schemabuilder"

// RegisterSchema wires every scalar, enum, object, input, query, mutation,
// and subscription onto sb. Scalars and enums must register before the
// objects and inputs that reference them.
func RegisterSchema(sb *schemabuilder.Schema, s *Server) {
	// Order: scalars first (DateTime), then enums/objects/inputs, ops last.
	RegisterScalars(sb)
	RegisterEnums(sb)
	RegisterObjects(sb)
	RegisterInputs(sb)

	RegisterQuery(sb, s)
	RegisterMutation(sb, s)
	RegisterSubscription(sb)
}