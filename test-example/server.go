// Package main provides a comprehensive GraphQL server example matching the
// Star Wars schema from graphql.org, including @specifiedBy, @oneOf, and a
// oneOf mutation input. Run with `go run server.go` to start the server and
// playground at http://localhost:8080/graphql.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/northfield/graphweave"
	"github.com/northfield/graphweave/introspection"
	"github.com/northfield/graphweave/schemabuilder"
)

// Server holds example data for the Star Wars schema.
type Server struct {
	Humans    []*Human
	Droids    []*Droid
	Starships []*Starship
	Reviews   map[string][]*Review // Keyed by episode
}

func (s *Server) findCharacter(id schemabuilder.ID) Character {
	for _, h := range s.Humans {
		if h.IDVal == id {
			return h
		}
	}
	for _, d := range s.Droids {
		if d.IDVal == id {
			return d
		}
	}
	return nil
}

func (s *Server) findDroid(id schemabuilder.ID) *Droid {
	for _, d := range s.Droids {
		if d.IDVal == id {
			return d
		}
	}
	return nil
}

func (s *Server) findHuman(id schemabuilder.ID) *Human {
	for _, h := range s.Humans {
		if h.IDVal == id {
			return h
		}
	}
	return nil
}

func (s *Server) findStarship(id schemabuilder.ID) *Starship {
	for _, sh := range s.Starships {
		if sh.IDVal == id {
			return sh
		}
	}
	return nil
}

// Episode enum.
type Episode string

const (
	NewHope Episode = "NEWHOPE"
	Empire  Episode = "EMPIRE"
	Jedi    Episode = "JEDI"
)

// LengthUnit enum.
type LengthUnit string

const (
	Meter LengthUnit = "METER"
	Foot  LengthUnit = "FOOT"
)

// FilmRating enum.
type FilmRating string

const (
	ThumbsUp   FilmRating = "THUMBS_UP"
	ThumbsDown FilmRating = "THUMBS_DOWN"
)

// Character interface (core from schema).
type Character interface {
	ID() schemabuilder.ID
	Name() string
	Friends() []Character
	AppearsIn() []Episode
}

// characterMarker embeds schemabuilder.Interface to declare the Character
// GraphQL interface.
type characterMarker struct {
	schemabuilder.Interface
}

// Human implements Character (friends stubbed; embeds characterMarker to
// declare membership in the Character interface).
type Human struct {
	characterMarker
	IDVal        schemabuilder.ID
	NameVal      string
	HeightVal    float64
	MassVal      float64
	StarshipsVal []*Starship
	AppearsInVal []Episode
	FriendsVal   []Character
}

func (h *Human) ID() schemabuilder.ID { return h.IDVal }
func (h *Human) Name() string         { return h.NameVal }
func (h *Human) AppearsIn() []Episode { return h.AppearsInVal }
func (h *Human) Friends() []Character { return h.FriendsVal }

// Droid implements Character (friends stubbed; embeds characterMarker to
// declare membership in the Character interface).
type Droid struct {
	characterMarker
	IDVal          schemabuilder.ID
	NameVal        string
	PrimaryFuncVal string
	AppearsInVal   []Episode
	FriendsVal     []Character
}

func (d *Droid) ID() schemabuilder.ID { return d.IDVal }
func (d *Droid) Name() string         { return d.NameVal }
func (d *Droid) AppearsIn() []Episode { return d.AppearsInVal }
func (d *Droid) Friends() []Character { return d.FriendsVal }

// Starship.
type Starship struct {
	IDVal     schemabuilder.ID
	NameVal   string
	LengthVal float64
}

// Review.
type Review struct {
	Stars      int
	Commentary string
}

// ReviewInput is a oneOf input: createReview requires exactly one field set.
type ReviewInput struct {
	Stars      *string `json:"stars,omitempty"`
	Commentary *string `json:"commentary,omitempty"`
}

// PageInfo, FriendsConnection, FriendsEdge (minimal stubs for schema completeness).
type PageInfo struct {
	HasNextPage bool
}

type FriendsEdge struct {
	Cursor schemabuilder.ID
	Node   Character
}

type FriendsConnection struct {
	TotalCount int
	Edges      []*FriendsEdge
	Friends    []Character
	PageInfo   PageInfo
}

// Film stub.
type Film struct{}

// SearchResult is a one-hot union wrapper: the search resolver sets exactly
// one of Human, Droid, or Starship and leaves the others nil.
type SearchResult struct {
	schemabuilder.Union
	*Human
	*Droid
	*Starship
}

// RegisterSchema orchestrates all (separate funcs per request for readability).
func RegisterSchema(sb *schemabuilder.Schema, s *Server) {
	RegisterDirectives(sb) // @specifiedBy, @oneOf
	RegisterScalars(sb)
	RegisterEnums(sb)
	RegisterInterfaces(sb)
	RegisterObjects(sb)
	RegisterInputs(sb)
	RegisterQueries(sb, s)
	RegisterMutations(sb, s)
}

// RegisterDirectives registers @specifiedBy and @oneOf (used in scalars/inputs).
func RegisterDirectives(sb *schemabuilder.Schema) {
	// Directives registered via support in introspection/schema (no extra code).
}

// RegisterScalars registers custom scalars (DateTime with @specifiedBy; ID is built-in).
func RegisterScalars(sb *schemabuilder.Schema) {
	// DateTime with @specifiedBy.
	typ := reflect.TypeOf(time.Time{})
	_ = schemabuilder.RegisterScalar(typ, "DateTime", func(value interface{}, dest reflect.Value) error {
		v, ok := value.(string)
		if !ok {
			return errors.New("invalid type expected string")
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return err
		}
		dest.Set(reflect.ValueOf(t))
		return nil
	}, "https://www.rfc-editor.org/rfc/rfc3339")
}

// RegisterEnums registers Episode, LengthUnit, FilmRating.
func RegisterEnums(sb *schemabuilder.Schema) {
	sb.Enum(NewHope, map[string]interface{}{
		"NEWHOPE": NewHope,
		"EMPIRE":  Empire,
		"JEDI":    Jedi,
	})
	sb.Enum(Meter, map[string]interface{}{
		"METER": Meter,
		"FOOT":  Foot,
	})
	sb.Enum(ThumbsUp, map[string]interface{}{
		"THUMBS_UP":   ThumbsUp,
		"THUMBS_DOWN": ThumbsDown,
	})
}

// RegisterInterfaces registers the Character interface.
func RegisterInterfaces(sb *schemabuilder.Schema) {
	sb.Object("Character", characterMarker{})
}

// RegisterObjects registers Droid, Human, Starship, Review, etc (full fields).
func RegisterObjects(sb *schemabuilder.Schema) {
	// Droid.
	droid := sb.Object("Droid", Droid{})
	droid.FieldFunc("id", func(ctx context.Context, in *Droid) schemabuilder.ID { return in.IDVal })
	droid.FieldFunc("name", func(ctx context.Context, in *Droid) string { return in.NameVal })
	droid.FieldFunc("appearsIn", func(ctx context.Context, in *Droid) []Episode { return in.AppearsInVal })
	droid.FieldFunc("primaryFunction", func(ctx context.Context, in *Droid) string { return in.PrimaryFuncVal })

	// Human.
	human := sb.Object("Human", Human{})
	human.FieldFunc("id", func(ctx context.Context, in *Human) schemabuilder.ID { return in.IDVal })
	human.FieldFunc("name", func(ctx context.Context, in *Human) string { return in.NameVal })
	human.FieldFunc("appearsIn", func(ctx context.Context, in *Human) []Episode { return in.AppearsInVal })
	human.FieldFunc("height", func(ctx context.Context, in *Human, args struct{ Unit *LengthUnit }) float64 {
		return in.HeightVal // Unit ignored for minimal
	})
	human.FieldFunc("mass", func(ctx context.Context, in *Human) float64 { return in.MassVal })
	human.FieldFunc("starships", func(ctx context.Context, in *Human) []*Starship { return in.StarshipsVal })

	// Starship, Film, Review, Friends*, PageInfo (stubs with fields).
	starship := sb.Object("Starship", Starship{})
	starship.FieldFunc("id", func(ctx context.Context, in *Starship) schemabuilder.ID { return in.IDVal })
	starship.FieldFunc("name", func(ctx context.Context, in *Starship) string { return in.NameVal })
	starship.FieldFunc("length", func(ctx context.Context, in *Starship, args struct{ Unit *LengthUnit }) float64 {
		return in.LengthVal
	})
	sb.Object("Review", Review{})
	sb.Object("PageInfo", PageInfo{})
	sb.Object("FriendsConnection", FriendsConnection{})
	sb.Object("FriendsEdge", FriendsEdge{})
	sb.Object("Film", Film{})
}

// RegisterInputs registers ReviewInput with @oneOf for mutation.
func RegisterInputs(sb *schemabuilder.Schema) {
	input := sb.InputObject("ReviewInput", ReviewInput{})
	input.MarkOneOf() // Exactly one field per @oneOf
	input.FieldFunc("stars", func(target *ReviewInput, source *string) {
		target.Stars = source
	})
	input.FieldFunc("commentary", func(target *ReviewInput, source *string) {
		target.Commentary = source
	})
}

// RegisterQueries registers Query type (full from schema).
func RegisterQueries(sb *schemabuilder.Schema, s *Server) {
	q := sb.Query()
	q.FieldFunc("hero", func(ctx context.Context, args struct{ Episode *Episode }) *Droid {
		if len(s.Droids) > 0 {
			return s.Droids[0]
		}
		return &Droid{}
	})
	// character returns the Character interface: the resolved value's
	// concrete Go type (Human or Droid) drives abstract-type dispatch.
	q.FieldFunc("character", func(ctx context.Context, args struct{ ID schemabuilder.ID }) Character {
		return s.findCharacter(args.ID)
	})
	q.FieldFunc("droid", func(ctx context.Context, args struct{ ID schemabuilder.ID }) *Droid {
		return s.findDroid(args.ID)
	})
	q.FieldFunc("human", func(ctx context.Context, args struct{ ID schemabuilder.ID }) *Human {
		return s.findHuman(args.ID)
	})
	q.FieldFunc("starship", func(ctx context.Context, args struct{ ID schemabuilder.ID }) *Starship {
		return s.findStarship(args.ID)
	})
	q.FieldFunc("reviews", func(ctx context.Context, args struct{ Episode Episode }) []*Review {
		return s.Reviews[string(args.Episode)]
	})
	// search resolves to whichever concrete type's name matches, wrapped in
	// the SearchResult one-hot union.
	q.FieldFunc("search", func(ctx context.Context, args struct{ Name string }) *SearchResult {
		for _, h := range s.Humans {
			if h.NameVal == args.Name {
				return &SearchResult{Human: h}
			}
		}
		for _, d := range s.Droids {
			if d.NameVal == args.Name {
				return &SearchResult{Droid: d}
			}
		}
		for _, sh := range s.Starships {
			if sh.NameVal == args.Name {
				return &SearchResult{Starship: sh}
			}
		}
		return nil
	})
}

// RegisterMutations registers Mutation + oneOf input mutation (createReview).
func RegisterMutations(sb *schemabuilder.Schema, s *Server) {
	m := sb.Mutation()
	m.FieldFunc("createReview", func(ctx context.Context, args struct {
		Episode *Episode
		Review  *ReviewInput
	}) (*Review, error) {
		if args.Review == nil {
			return nil, errors.New("review is required")
		}

		review := &Review{}
		switch {
		case args.Review.Stars != nil:
			stars, err := strconv.Atoi(*args.Review.Stars)
			if err != nil {
				return nil, fmt.Errorf("stars: %w", err)
			}
			review.Stars = stars
		case args.Review.Commentary != nil:
			review.Commentary = *args.Review.Commentary
		}

		episode := NewHope
		if args.Episode != nil {
			episode = *args.Episode
		}
		if s.Reviews == nil {
			s.Reviews = map[string][]*Review{}
		}
		s.Reviews[string(episode)] = append(s.Reviews[string(episode)], review)
		return review, nil
	})
}

// HTTPHandler returns an http.Handler serving the example schema.
func HTTPHandler() http.Handler {
	sb := schemabuilder.NewSchema()
	falcon := &Starship{IDVal: schemabuilder.ID{Value: "s1"}, NameVal: "Millennium Falcon", LengthVal: 34.37}
	luke := &Human{
		IDVal:        schemabuilder.ID{Value: "h1"},
		NameVal:      "Luke Skywalker",
		HeightVal:    1.72,
		MassVal:      77,
		AppearsInVal: []Episode{NewHope, Empire, Jedi},
		StarshipsVal: []*Starship{falcon},
	}
	r2d2 := &Droid{
		IDVal:          schemabuilder.ID{Value: "d1"},
		NameVal:        "R2-D2",
		PrimaryFuncVal: "Astromech",
		AppearsInVal:   []Episode{NewHope, Empire, Jedi},
	}
	luke.FriendsVal = []Character{r2d2}
	r2d2.FriendsVal = []Character{luke}

	s := &Server{
		Humans:    []*Human{luke},
		Droids:    []*Droid{r2d2},
		Starships: []*Starship{falcon},
		Reviews:   map[string][]*Review{},
	}
	RegisterSchema(sb, s)
	schema, err := sb.Build()
	if err != nil {
		panic(err) // For demo; in prod handle.
	}
	introspection.AddIntrospectionToSchema(schema)
	return graphweave.HTTPHandler(schema)
}

func main() {
	http.Handle("/graphql", HTTPHandler())
	log.Println("Server running on :8080")
	log.Println("GraphQL Playground: http://localhost:8080/graphql")
	log.Fatal(http.ListenAndServe(":8080", nil))
}
