// Package relay implements the Relay cursor connections pattern
// (https://relay.dev/graphql/connections.htm) as a pagination helper to sit
// in front of a schemabuilder.Object field, the way production GraphQL
// servers built on a decorator/builder API near-universally expose list
// fields.
package relay

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const cursorPrefix = "relay:offset:"

// PageInfo reports the cursor-pagination state of a Connection, matching the
// Relay spec's PageInfo type.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     string
	EndCursor       string
}

// Edge pairs a node with the opaque cursor identifying its position.
type Edge[T any] struct {
	Node   T
	Cursor string
}

// Connection is the Relay-shaped wrapper around a page of nodes.
type Connection[T any] struct {
	Edges      []Edge[T]
	PageInfo   PageInfo
	TotalCount int
}

// ConnectionArgs are the four standard Relay pagination arguments. A
// schemabuilder resolver field takes this as its args struct (or mirrors its
// fields in its own; embedding it is rejected) to accept `first`, `after`,
// `last`, `before` from the query.
type ConnectionArgs struct {
	First  *int64  `graphql:"first"`
	After  *string `graphql:"after"`
	Last   *int64  `graphql:"last"`
	Before *string `graphql:"before"`
}

// EncodeCursor produces the opaque cursor for a node at the given zero-based
// offset into the full, unpaginated node list.
func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// DecodeCursor recovers the offset EncodeCursor encoded.
func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("relay: malformed cursor: %w", err)
	}
	s := string(raw)
	if !strings.HasPrefix(s, cursorPrefix) {
		return 0, fmt.Errorf("relay: not a relay cursor: %q", s)
	}
	offset, err := strconv.Atoi(strings.TrimPrefix(s, cursorPrefix))
	if err != nil {
		return 0, fmt.Errorf("relay: malformed cursor offset: %w", err)
	}
	return offset, nil
}

// NewConnection slices nodes (the full, already-ordered, in-memory result
// set) according to args using the standard connectionFromArraySlice
// algorithm from the Relay cursor connections spec: before/after bound the
// window, then first/last trim it from whichever end was requested.
// Malformed cursors are ignored rather than erroring, matching the Relay
// spec's guidance to treat them as not narrowing the result.
func NewConnection[T any](nodes []T, args ConnectionArgs) *Connection[T] {
	start, end := 0, len(nodes)

	if args.After != nil {
		if offset, err := DecodeCursor(*args.After); err == nil && offset+1 > start {
			start = offset + 1
		}
	}
	if args.Before != nil {
		if offset, err := DecodeCursor(*args.Before); err == nil && offset < end {
			end = offset
		}
	}
	if start > end {
		start = end
	}

	window := nodes[start:end]
	baseOffset := start

	var hasNextPage, hasPreviousPage bool
	if args.First != nil && int64(len(window)) > *args.First {
		window = window[:*args.First]
		hasNextPage = true
	}
	if args.Last != nil && int64(len(window)) > *args.Last {
		drop := int64(len(window)) - *args.Last
		baseOffset += int(drop)
		window = window[drop:]
		hasPreviousPage = true
	}
	hasNextPage = hasNextPage || (baseOffset+len(window)) < end
	hasPreviousPage = hasPreviousPage || baseOffset > 0

	edges := make([]Edge[T], len(window))
	for i, node := range window {
		edges[i] = Edge[T]{Node: node, Cursor: EncodeCursor(baseOffset + i)}
	}

	info := PageInfo{HasNextPage: hasNextPage, HasPreviousPage: hasPreviousPage}
	if len(edges) > 0 {
		info.StartCursor = edges[0].Cursor
		info.EndCursor = edges[len(edges)-1].Cursor
	}

	return &Connection[T]{Edges: edges, PageInfo: info, TotalCount: len(nodes)}
}
