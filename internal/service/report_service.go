package service

import (
	"context"
	"time"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/model"
	"bookpos/internal/repository"

	"github.com/google/uuid"
)

// ReportService feeds the dashboards: per-session breakdowns and the closed
// session history. JSON only — rendering is the frontend's problem.
type ReportService interface {
	SessionReport(ctx context.Context, id uuid.UUID) (*dto.RegisterReportResponse, error)
	History(ctx context.Context, page, limit int) (*dto.RegisterHistoryResponse, error)
}

type reportService struct {
	repo     repository.RegisterRepository
	register RegisterService
}

func NewReportService(repo repository.RegisterRepository, register RegisterService) ReportService {
	return &reportService{repo: repo, register: register}
}

func (s *reportService) SessionReport(ctx context.Context, id uuid.UUID) (*dto.RegisterReportResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "cash register session not found")
	}

	txTotal, err := s.repo.SumTransactions(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(err, "could not sum transactions")
	}
	wdTotal, err := s.repo.SumWithdrawals(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(err, "could not sum withdrawals")
	}
	byMethod, err := s.repo.SumPaymentsByMethod(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(err, "could not sum payments")
	}
	counts, err := s.repo.CountTransactionsByType(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(err, "could not count transactions")
	}

	resp := &dto.RegisterReportResponse{
		RegisterID:       session.ID.String(),
		Status:           session.Status,
		InitialAmount:    session.InitialAmount,
		TransactionTotal: txTotal,
		WithdrawalTotal:  wdTotal,
		CurrentBalance:   session.InitialAmount.Add(txTotal).Sub(wdTotal),
		ByMethod:         byMethod,
		SaleCount:        counts[model.TypeSale],
		ExchangeCount:    counts[model.TypeExchange],
		ReturnCount:      counts[model.TypeReturn],
		OpenedAt:         session.OpenedAt.Format(time.RFC3339),
	}
	if session.ClosedAt != nil {
		t := session.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp, nil
}

func (s *reportService) History(ctx context.Context, page, limit int) (*dto.RegisterHistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sessions, total, err := s.repo.ListClosedSessions(ctx, page, limit)
	if err != nil {
		return nil, apierror.Wrap(err, "could not load session history")
	}

	items := make([]dto.RegisterResponse, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		balance, err := s.register.CurrentBalance(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		item := dto.RegisterResponse{
			ID:             session.ID.String(),
			Status:         session.Status,
			InitialAmount:  session.InitialAmount,
			FinalAmount:    session.FinalAmount,
			CurrentBalance: balance,
			Notes:          session.Notes,
			OpenedAt:       session.OpenedAt.Format(time.RFC3339),
		}
		if session.ClosedAt != nil {
			t := session.ClosedAt.Format(time.RFC3339)
			item.ClosedAt = &t
		}
		items = append(items, item)
	}
	return &dto.RegisterHistoryResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}
