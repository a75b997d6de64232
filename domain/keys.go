// Package domain defines the entity records, field allow-lists, and the
// single-table key schema shared by notes and strategies.
package domain

import "fmt"

// Entity type tags stored on every item
const (
	EntityTypeNote     = "NOTE"
	EntityTypeStrategy = "STRATEGY"
)

// UserPK builds the partition key owning all of a user's items
func UserPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

// NoteSK builds the sort key for a note item
func NoteSK(noteID string) string {
	return fmt.Sprintf("NOTE#%s", noteID)
}

// StrategySK builds the sort key for a strategy item
func StrategySK(strategyID string) string {
	return fmt.Sprintf("STRAT#%s", strategyID)
}

// NoteGSI1PK builds the secondary-index partition key for a user's notes
func NoteGSI1PK(userID string) string {
	return fmt.Sprintf("NOTE#%s", userID)
}

// StrategyGSI1PK builds the secondary-index partition key for a user's strategies
func StrategyGSI1PK(userID string) string {
	return fmt.Sprintf("STRAT#%s", userID)
}

// GSI1SK builds the secondary-index sort key. Notes use their date,
// strategies their creation timestamp, so listings come back newest-first.
func GSI1SK(sortValue, id string) string {
	return fmt.Sprintf("%s#%s", sortValue, id)
}
