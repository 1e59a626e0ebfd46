package schemabuilder

import (
	"reflect"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/northfield/graphweave/jerrors"
)

// federationKeyTag marks a struct field as part of an object's federation
// key: the subset of fields a gateway would send back to this service over
// gRPC to re-resolve the entity. Dialing that gateway call is out of scope
// here; FederationKeyFields only identifies which fields carry the tag, so
// the annotation itself is real and inspectable rather than only documented.
const federationKeyTag = "federationKey"

// FederationKeyFields returns the GraphQL field names of t (a registered
// Object's Go struct type) whose struct tag includes `graphql:"...,federationKey"`.
func FederationKeyFields(t reflect.Type) []string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("graphql")
		if tag == "" {
			continue
		}
		for _, part := range splitTag(tag) {
			if part == federationKeyTag {
				info, err := parseGraphQLFieldInfo(field)
				if err == nil && !info.Skipped {
					keys = append(keys, info.Name)
				}
			}
		}
	}
	return keys
}

func splitTag(tag string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(tag); i++ {
		if i == len(tag) || tag[i] == ',' {
			parts = append(parts, tag[start:i])
			start = i + 1
		}
	}
	return parts
}

// FederationResolutionError converts a failure to resolve an entity by its
// federation key into a gRPC status a federation gateway can forward
// verbatim, with the missing/invalid key fields attached as ErrorInfo
// metadata rather than folded into the message string.
func FederationResolutionError(typeName string, keyFields map[string]string, cause error) error {
	st := status.New(codes.NotFound, cause.Error())
	withDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   "FEDERATION_KEY_UNRESOLVED",
		Domain:   typeName,
		Metadata: keyFields,
	})
	if err != nil {
		return jerrors.Wrap(jerrors.AbstractTypeResolution, cause)
	}
	return jerrors.Wrap(jerrors.AbstractTypeResolution, withDetails.Err())
}
