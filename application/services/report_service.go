package services

import (
	"context"
	"math"

	"go.uber.org/zap"

	"mtp-backend/application/ports"
	"mtp-backend/domain"
)

// unknownBucket groups notes missing a hit/miss or session label
const unknownBucket = "UNKNOWN"

// ReportService produces aggregate reports over a user's notes
type ReportService struct {
	store  ports.Store
	logger *zap.Logger
}

// NewReportService creates a report service
func NewReportService(store ports.Store, logger *zap.Logger) *ReportService {
	return &ReportService{store: store, logger: logger}
}

// NotesSummary aggregates a window of notes
type NotesSummary struct {
	TotalNotes       int            `json:"totalNotes"`
	ByHitMiss        map[string]int `json:"byHitMiss"`
	BySession        map[string]int `json:"bySession"`
	AverageWinAmount float64        `json:"averageWinAmount"`
}

// NotesSummary counts notes by outcome and session over an inclusive
// date window and averages win_amount across the notes that carry a
// numeric value for it.
func (s *ReportService) NotesSummary(ctx context.Context, userID, from, to string, limit int32) (*NotesSummary, error) {
	page, err := s.store.QueryGSI1(ctx, domain.NoteGSI1PK(userID), limit, "")
	if err != nil {
		return nil, err
	}

	summary := &NotesSummary{
		ByHitMiss: map[string]int{},
		BySession: map[string]int{},
	}

	var winSum float64
	var winCount int

	for _, item := range page.Items {
		date, _ := item["date"].(string)
		if !inDateRange(date, from, to) {
			continue
		}
		summary.TotalNotes++

		hitMiss, ok := item["hit_miss"].(string)
		if !ok || hitMiss == "" {
			hitMiss = unknownBucket
		}
		summary.ByHitMiss[hitMiss]++

		session, ok := item["session"].(string)
		if !ok || session == "" {
			session = unknownBucket
		}
		summary.BySession[session]++

		if winAmount, ok := item["win_amount"].(float64); ok {
			winSum += winAmount
			winCount++
		}
	}

	if winCount > 0 {
		summary.AverageWinAmount = math.Round(winSum/float64(winCount)*100) / 100
	}
	return summary, nil
}

// inDateRange checks an inclusive ISO date window; notes without a date
// always match.
func inDateRange(date, from, to string) bool {
	if date == "" {
		return true
	}
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}
