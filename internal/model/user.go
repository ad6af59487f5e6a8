package model

// User represents a registered account.
//
// The user's ID is chosen by the caller at signup (it is the document key in
// the users collection), not generated by the store. That mirrors how login
// works: the caller presents the same id plus a password.
//
// WHY ProfileImage string (not *string)?
// The picture is optional at signup. We use the empty string as "not set"
// rather than a nullable pointer — simpler to work with, and the Document
// method simply omits the field when it is empty.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // bcrypt hash — never serialized to clients
	ProfileImage string `json:"profileImage,omitempty"`
}

// Document returns the store representation of the user.
// profileImage is only attached when one was supplied.
func (u User) Document() map[string]any {
	doc := map[string]any{
		"email":        u.Email,
		"passwordHash": u.PasswordHash,
	}
	if u.ProfileImage != "" {
		doc["profileImage"] = u.ProfileImage
	}
	return doc
}

// UserFromDocument rebuilds a User from a store document.
func UserFromDocument(id string, doc map[string]any) User {
	return User{
		ID:           id,
		Email:        docString(doc, "email"),
		PasswordHash: docString(doc, "passwordHash"),
		ProfileImage: docString(doc, "profileImage"),
	}
}
