// Package services holds the entity services translating domain CRUD
// calls into access-layer operations.
package services

import (
	"context"

	"go.uber.org/zap"

	"mtp-backend/application/ports"
	"mtp-backend/domain"
	apperrors "mtp-backend/pkg/errors"
	"mtp-backend/pkg/utils"
)

// NoteService owns note CRUD and response shaping
type NoteService struct {
	store  ports.Store
	events ports.EventPublisher
	logger *zap.Logger
}

// NewNoteService creates a note service
func NewNoteService(store ports.Store, events ports.EventPublisher, logger *zap.Logger) *NoteService {
	return &NoteService{store: store, events: events, logger: logger}
}

// NoteListResult is one page of notes
type NoteListResult struct {
	Notes   []domain.Note `json:"notes"`
	LastKey string        `json:"lastKey,omitempty"`
}

// Create persists a new note and returns its generated id. Uniqueness is
// backstopped by the store's conditional create.
func (s *NoteService) Create(ctx context.Context, userID string, fields map[string]interface{}) (string, error) {
	noteID := utils.NewID("note")
	item := domain.BuildNoteItem(userID, noteID, fields)

	if err := s.store.PutItemIfAbsent(ctx, item); err != nil {
		return "", err
	}

	s.logger.Info("Note created", zap.String("userID", userID), zap.String("noteID", noteID))
	s.events.Publish(ctx, "NoteCreated", map[string]string{"userId": userID, "noteId": noteID})
	return noteID, nil
}

// Get fetches one note scoped to the caller
func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	item, err := s.store.GetItem(ctx, domain.UserPK(userID), domain.NoteSK(noteID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NewNotFoundError("Note")
	}

	note := domain.NoteFromItem(item)
	return &note, nil
}

// List pages through the caller's notes, newest date first
func (s *NoteService) List(ctx context.Context, userID string, limit int32, lastKey string) (*NoteListResult, error) {
	page, err := s.store.QueryGSI1(ctx, domain.NoteGSI1PK(userID), limit, lastKey)
	if err != nil {
		return nil, err
	}

	notes := make([]domain.Note, 0, len(page.Items))
	for _, item := range page.Items {
		notes = append(notes, domain.NoteFromItem(item))
	}
	return &NoteListResult{Notes: notes, LastKey: page.LastKey}, nil
}

// Update applies a partial update touching only supplied allow-listed
// fields. A changed date also rewrites the secondary-index sort key so
// listings never see a stale ordering.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, fields map[string]interface{}) (*domain.Note, error) {
	pk, sk := domain.UserPK(userID), domain.NoteSK(noteID)

	existing, err := s.store.GetItem(ctx, pk, sk)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError("Note")
	}

	set := domain.FilterNoteFields(fields)
	if date, ok := set["date"].(string); ok && date != "" {
		set["GSI1SK"] = domain.GSI1SK(date, noteID)
	}
	set["updatedAt"] = utils.NowISO()

	updated, err := s.store.UpdateItem(ctx, pk, sk, set)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "NoteUpdated", map[string]string{"userId": userID, "noteId": noteID})
	note := domain.NoteFromItem(updated)
	return &note, nil
}

// Delete removes a note after confirming it exists
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	pk, sk := domain.UserPK(userID), domain.NoteSK(noteID)

	existing, err := s.store.GetItem(ctx, pk, sk)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewNotFoundError("Note")
	}

	if err := s.store.DeleteItem(ctx, pk, sk); err != nil {
		return err
	}

	s.events.Publish(ctx, "NoteDeleted", map[string]string{"userId": userID, "noteId": noteID})
	return nil
}
