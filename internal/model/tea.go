// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// TeaType is the closed set of tea categories.
//
// WHY A NAMED STRING TYPE (not plain string)?
// The type makes function signatures self-documenting and gives us a single
// place (Valid) to enforce the closed enumeration. The underlying value is
// still a string, so it serializes naturally to JSON and to the store.
type TeaType string

const (
	TeaTypeBlack  TeaType = "Black"
	TeaTypeGreen  TeaType = "Green"
	TeaTypeWhite  TeaType = "White"
	TeaTypeTisane TeaType = "Tisane"
	TeaTypeOther  TeaType = "Other"
)

// Valid reports whether t is one of the five allowed tea types.
// Anything else (including casing variants like "black") is rejected —
// the enumeration is closed on purpose.
func (t TeaType) Valid() bool {
	switch t {
	case TeaTypeBlack, TeaTypeGreen, TeaTypeWhite, TeaTypeTisane, TeaTypeOther:
		return true
	}
	return false
}

// Tea represents one tea record.
//
// VISIBILITY INVARIANT:
// IsPublic=true teas are readable by anyone (publicTeas). IsPublic=false
// teas only ever come back through the owner's own listing (userTeas).
//
// The `json:"..."` struct tags serve double duty: they shape the store
// document AND they are the field names the GraphQL layer resolves against.
type Tea struct {
	ID       string  `json:"id"`
	Brand    string  `json:"brand"`
	Name     string  `json:"name"`
	Type     TeaType `json:"type"`
	Rating   float64 `json:"rating"`
	IsPublic bool    `json:"isPublic"`
	UserID   string  `json:"userId"` // owner — set from the resolved identity, never from input
}

// Document returns the store representation of the tea.
// The id is the document key, so it is not repeated inside the body.
func (t Tea) Document() map[string]any {
	return map[string]any{
		"brand":    t.Brand,
		"name":     t.Name,
		"type":     string(t.Type),
		"rating":   t.Rating,
		"isPublic": t.IsPublic,
		"userId":   t.UserID,
	}
}

// TeaFromDocument rebuilds a Tea from a store document.
// Documents round-trip through JSON, so numbers arrive as float64.
func TeaFromDocument(id string, doc map[string]any) Tea {
	return Tea{
		ID:       id,
		Brand:    docString(doc, "brand"),
		Name:     docString(doc, "name"),
		Type:     TeaType(docString(doc, "type")),
		Rating:   docFloat(doc, "rating"),
		IsPublic: docBool(doc, "isPublic"),
		UserID:   docString(doc, "userId"),
	}
}
