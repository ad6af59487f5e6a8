package model

// Brew represents one brewing session, always scoped to an existing Tea.
//
// Timestamp stays a string (as the client sent it) — the server never does
// date arithmetic on it, so parsing it would only invent failure modes.
type Brew struct {
	ID          string  `json:"id"`
	Timestamp   string  `json:"timestamp"`
	Temperature int     `json:"temperature"` // degrees
	Dose        float64 `json:"dose"`        // grams of leaf
	Time        int     `json:"time"`        // steep time in seconds
	Rating      float64 `json:"rating"`
	Notes       string  `json:"notes"`
	TeaID       string  `json:"teaId"`
}

// Document returns the store representation of the brew.
func (b Brew) Document() map[string]any {
	return map[string]any{
		"timestamp":   b.Timestamp,
		"temperature": b.Temperature,
		"dose":        b.Dose,
		"time":        b.Time,
		"rating":      b.Rating,
		"notes":       b.Notes,
		"teaId":       b.TeaID,
	}
}

// BrewFromDocument rebuilds a Brew from a store document.
func BrewFromDocument(id string, doc map[string]any) Brew {
	return Brew{
		ID:          id,
		Timestamp:   docString(doc, "timestamp"),
		Temperature: docInt(doc, "temperature"),
		Dose:        docFloat(doc, "dose"),
		Time:        docInt(doc, "time"),
		Rating:      docFloat(doc, "rating"),
		Notes:       docString(doc, "notes"),
		TeaID:       docString(doc, "teaId"),
	}
}
