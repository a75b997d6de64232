package domain

import "mtp-backend/pkg/utils"

// noteAllowedFields is the set of caller-supplied fields persisted on a
// note item. Anything else is dropped before the item reaches the store.
var noteAllowedFields = map[string]struct{}{
	"date":       {},
	"text":       {},
	"direction":  {},
	"session":    {},
	"risk":       {},
	"win_amount": {},
	"strategyId": {},
	"hit_miss":   {},
}

// Note is the response shape for a stored note. Optional fields are
// omitted entirely when the item does not carry them.
type Note struct {
	NoteID     string   `json:"noteId"`
	Date       string   `json:"date"`
	Text       string   `json:"text"`
	Direction  *string  `json:"direction,omitempty"`
	Session    *string  `json:"session,omitempty"`
	Risk       *float64 `json:"risk,omitempty"`
	WinAmount  *float64 `json:"win_amount,omitempty"`
	StrategyID *string  `json:"strategyId,omitempty"`
	HitMiss    *string  `json:"hit_miss,omitempty"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// FilterNoteFields keeps the allow-listed, non-empty note fields
func FilterNoteFields(fields map[string]interface{}) map[string]interface{} {
	return filterFields(fields, noteAllowedFields)
}

// BuildNoteItem assembles the full single-table item for a new note.
// Both timestamps are stamped to now; the secondary sort key uses the
// supplied date, falling back to the creation timestamp.
func BuildNoteItem(userID, noteID string, fields map[string]interface{}) map[string]interface{} {
	now := utils.NowISO()
	payload := FilterNoteFields(fields)

	sortDate := now
	if date, ok := payload["date"].(string); ok && date != "" {
		sortDate = date
	}

	item := map[string]interface{}{
		"PK":         UserPK(userID),
		"SK":         NoteSK(noteID),
		"GSI1PK":     NoteGSI1PK(userID),
		"GSI1SK":     GSI1SK(sortDate, noteID),
		"entityType": EntityTypeNote,
		"noteId":     noteID,
		"userId":     userID,
		"createdAt":  now,
		"updatedAt":  now,
	}
	for name, value := range payload {
		item[name] = value
	}
	return item
}

// NoteFromItem reshapes a raw item into the note response form
func NoteFromItem(item map[string]interface{}) Note {
	return Note{
		NoteID:     getString(item, "noteId"),
		Date:       getString(item, "date"),
		Text:       getString(item, "text"),
		Direction:  getStringPtr(item, "direction"),
		Session:    getStringPtr(item, "session"),
		Risk:       getFloatPtr(item, "risk"),
		WinAmount:  getFloatPtr(item, "win_amount"),
		StrategyID: getStringPtr(item, "strategyId"),
		HitMiss:    getStringPtr(item, "hit_miss"),
		CreatedAt:  getString(item, "createdAt"),
		UpdatedAt:  getString(item, "updatedAt"),
	}
}
