package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
)

const entryDateLayout = "2006-01-02"

type CashboxService interface {
	CreateEntry(ctx context.Context, req *models.CreateCashEntryRequest) (*models.CashEntry, error)
	// DailySummary tallies one day's movements. An empty date means today.
	DailySummary(ctx context.Context, date string) (*models.CashboxSummary, error)
}

type cashboxService struct {
	repo repository.CashboxRepository
	now  func() time.Time
}

func NewCashboxService(repo repository.CashboxRepository) CashboxService {
	return &cashboxService{repo: repo, now: time.Now}
}

func (s *cashboxService) CreateEntry(ctx context.Context, req *models.CreateCashEntryRequest) (*models.CashEntry, error) {

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ValidationError("Amount must be greater than zero")
	}

	entryDate := s.now()

	if req.EntryDate != "" {
		parsed, err := time.Parse(entryDateLayout, req.EntryDate)
		if err != nil {
			return nil, errors.ValidationError("entry_date must be formatted as YYYY-MM-DD")
		}

		entryDate = parsed
	}

	entry := &models.CashEntry{
		ID:        uuid.New(),
		Kind:      req.Kind,
		Concept:   req.Concept,
		Amount:    req.Amount,
		EntryDate: entryDate,
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, errors.DatabaseError("Failed to record cash entry").WithError(err)
	}

	return entry, nil
}

func (s *cashboxService) DailySummary(ctx context.Context, date string) (*models.CashboxSummary, error) {

	day := s.now()

	if date != "" {
		parsed, err := time.Parse(entryDateLayout, date)
		if err != nil {
			return nil, errors.ValidationError("date must be formatted as YYYY-MM-DD")
		}

		day = parsed
	}

	entries, err := s.repo.ListEntriesByDate(ctx, day)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cash entries").WithError(err)
	}

	summary := &models.CashboxSummary{
		Date:    day.Format(entryDateLayout),
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Entries: entries,
	}

	for _, entry := range entries {
		if entry.Kind == models.CashEntryIncome {
			summary.Income = summary.Income.Add(entry.Amount)
		} else {
			summary.Expense = summary.Expense.Add(entry.Amount)
		}
	}

	summary.Balance = summary.Income.Sub(summary.Expense)

	return summary, nil
}
