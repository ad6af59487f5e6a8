// Package graph defines the GraphQL schema and wires each field to the
// service layer.
//
// The schema is built programmatically with graphql-go rather than from SDL
// text — no codegen step, and the resolvers are ordinary closures over the
// injected services. Resolvers stay thin on purpose: argument plucking on
// the way in, nothing else. Identity, validation, and store access all live
// in internal/service.
//
// SCHEMA:
//
//	type User  { id: ID!, email: String! }
//	type Tea   { id: ID!, brand: String!, name: String!, type: String!,
//	             rating: Float!, isPublic: Boolean, userId: ID! }
//	type Brew  { id: ID!, timestamp: String!, temperature: Int!, dose: Float!,
//	             time: Int!, rating: Float!, notes: String!, teaId: ID! }
//
//	type Query {
//	    publicTeas: [Tea!]!
//	    userTeas: [Tea!]!
//	    teaBrews(id: ID!): [Brew!]!
//	}
//	type Mutation {
//	    login(id: ID!, password: String!): String
//	    signup(id: ID!, password: String!, email: String!, picture: String): String
//	    postTea(brand: String!, name: String!, type: String!, isPublic: Boolean): Tea
//	}
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/sakif/tea-journal/internal/service"
)

// NewSchema assembles the executable schema over the given services.
func NewSchema(auths *service.AuthService, teas *service.TeaService) (graphql.Schema, error) {
	// The default resolver reads struct fields through their json tags, so
	// the model types back these objects directly.
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	teaType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Tea",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"brand":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"type":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"rating":   &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"isPublic": &graphql.Field{Type: graphql.Boolean},
			"userId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	brewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Brew",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"timestamp":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"temperature": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"dose":        &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"time":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"rating":      &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"notes":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"teaId":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"publicTeas": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(teaType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return teas.PublicTeas(p.Context)
				},
			},
			"userTeas": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(teaType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return teas.UserTeas(p.Context)
				},
			},
			"teaBrews": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(brewType))),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return teas.TeaBrews(p.Context, id)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				// String, not String! — login has non-token outcomes and the
				// result is a token on success, a plain message otherwise.
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					password, _ := p.Args["password"].(string)

					res, err := auths.Login(p.Context, id, password)
					if err != nil {
						return nil, err
					}
					if res.Token != "" {
						return res.Token, nil
					}
					return res.Message, nil
				},
			},
			"signup": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"picture":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := service.SignupInput{}
					in.ID, _ = p.Args["id"].(string)
					in.Password, _ = p.Args["password"].(string)
					in.Email, _ = p.Args["email"].(string)
					in.Picture, _ = p.Args["picture"].(string)

					return auths.Signup(p.Context, in)
				},
			},
			"postTea": &graphql.Field{
				// Nullable: an anonymous caller's post is a non-error no-op
				// that resolves to null.
				Type: teaType,
				Args: graphql.FieldConfigArgument{
					"brand":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"type":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"isPublic": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := service.PostTeaInput{}
					in.Brand, _ = p.Args["brand"].(string)
					in.Name, _ = p.Args["name"].(string)
					in.Type, _ = p.Args["type"].(string)
					in.IsPublic, _ = p.Args["isPublic"].(bool)

					tea, err := teas.PostTea(p.Context, in)
					if err != nil {
						return nil, err
					}
					if tea == nil {
						// Typed nil pointers still render as objects — return
						// an untyped nil so the field resolves to null.
						return nil, nil
					}
					return tea, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
		// User isn't reachable from any field yet, but it is part of the
		// published schema for clients that introspect it.
		Types: []graphql.Type{userType},
	})
}
