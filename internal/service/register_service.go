package service

import (
	"context"
	"time"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/model"
	"bookpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterService is the cash session manager. It owns the single-open-session
// invariant and the derived session balance.
type RegisterService interface {
	Open(ctx context.Context, station StationContext, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error)
	GetOpen(ctx context.Context) (*dto.RegisterResponse, error)
	Close(ctx context.Context, id uuid.UUID, req dto.CloseRegisterRequest) (*dto.RegisterResponse, error)
	RecordWithdrawal(ctx context.Context, station StationContext, req dto.WithdrawalRequest) (*dto.WithdrawalResponse, error)
	CurrentBalance(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error)

	// RequireOpen is called by the sale/return workflows to gate on an open
	// session. Returns the open register or a no_open_session error.
	RequireOpen(ctx context.Context) (*model.CashRegister, error)
}

type registerService struct {
	repo repository.RegisterRepository
}

func NewRegisterService(repo repository.RegisterRepository) RegisterService {
	return &registerService{repo: repo}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *registerService) Open(ctx context.Context, station StationContext, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error) {
	// Guard: no second open session. The partial unique index on
	// cash_registers(status) WHERE status='open' backs this up against races.
	if existing, err := s.repo.FindOpenSession(ctx); err == nil && existing != nil {
		return nil, apierror.New(apierror.KindSessionAlreadyOpen, "a cash register session is already open")
	}

	session := &model.CashRegister{
		Status:        model.RegisterOpen,
		InitialAmount: req.InitialAmount,
		Notes:         req.Notes,
		OpenedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, apierror.Wrap(err, "could not open register")
	}
	return s.toResponse(ctx, session)
}

// ── GetOpen ──────────────────────────────────────────────────────────────────

// GetOpen returns the open session with its derived balance, or nil when no
// session is open (not an error — the UI asks this on every screen).
func (s *registerService) GetOpen(ctx context.Context) (*dto.RegisterResponse, error) {
	session, err := s.repo.FindOpenSession(ctx)
	if err != nil {
		return nil, nil
	}
	return s.toResponse(ctx, session)
}

// ── Close ────────────────────────────────────────────────────────────────────

func (s *registerService) Close(ctx context.Context, id uuid.UUID, req dto.CloseRegisterRequest) (*dto.RegisterResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "cash register session not found")
	}
	if session.Status != model.RegisterOpen {
		return nil, apierror.New(apierror.KindValidationFailed, "session is already closed")
	}

	now := time.Now().UTC()
	finalAmount := req.FinalAmount
	session.Status = model.RegisterClosed
	session.FinalAmount = &finalAmount
	session.ClosedAt = &now
	if req.Notes != nil {
		session.Notes = req.Notes
	}

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, apierror.Wrap(err, "could not close register")
	}
	return s.toResponse(ctx, session)
}

// ── RecordWithdrawal ─────────────────────────────────────────────────────────

func (s *registerService) RecordWithdrawal(ctx context.Context, station StationContext, req dto.WithdrawalRequest) (*dto.WithdrawalResponse, error) {
	registerID, err := uuid.Parse(req.RegisterID)
	if err != nil {
		return nil, apierror.New(apierror.KindValidationFailed, "invalid register_id")
	}
	session, err := s.repo.FindSessionByID(ctx, registerID)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "cash register session not found")
	}
	if session.Status != model.RegisterOpen {
		return nil, apierror.New(apierror.KindNoOpenSession, "session is closed")
	}

	w := &model.CashWithdrawal{
		CashRegisterID: registerID,
		Amount:         req.Amount,
		Reason:         req.Reason,
		OperatorName:   station.OperatorName,
		StationID:      station.StationID,
	}
	if err := s.repo.CreateWithdrawal(ctx, w); err != nil {
		return nil, apierror.Wrap(err, "could not record withdrawal")
	}

	return &dto.WithdrawalResponse{
		ID:           w.ID.String(),
		RegisterID:   registerID.String(),
		Amount:       w.Amount,
		Reason:       w.Reason,
		OperatorName: w.OperatorName,
		CreatedAt:    w.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ── CurrentBalance ───────────────────────────────────────────────────────────

// CurrentBalance = initial + Σ transaction totals − Σ withdrawals.
// Transaction totals are signed (returns are negative), so a plain sum is
// correct. Recomputed from the store on every call, never cached.
func (s *registerService) CurrentBalance(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	session, err := s.repo.FindSessionByID(ctx, registerID)
	if err != nil {
		return decimal.Zero, apierror.New(apierror.KindNotFound, "cash register session not found")
	}
	txTotal, err := s.repo.SumTransactions(ctx, registerID)
	if err != nil {
		return decimal.Zero, apierror.Wrap(err, "could not sum transactions")
	}
	wdTotal, err := s.repo.SumWithdrawals(ctx, registerID)
	if err != nil {
		return decimal.Zero, apierror.Wrap(err, "could not sum withdrawals")
	}
	return session.InitialAmount.Add(txTotal).Sub(wdTotal), nil
}

// ── RequireOpen ──────────────────────────────────────────────────────────────

func (s *registerService) RequireOpen(ctx context.Context) (*model.CashRegister, error) {
	session, err := s.repo.FindOpenSession(ctx)
	if err != nil || session == nil {
		return nil, apierror.New(apierror.KindNoOpenSession, "no open cash register session")
	}
	return session, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *registerService) toResponse(ctx context.Context, session *model.CashRegister) (*dto.RegisterResponse, error) {
	balance, err := s.CurrentBalance(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.RegisterResponse{
		ID:             session.ID.String(),
		Status:         session.Status,
		InitialAmount:  session.InitialAmount,
		FinalAmount:    session.FinalAmount,
		CurrentBalance: balance,
		Notes:          session.Notes,
		OpenedAt:       session.OpenedAt.Format(time.RFC3339),
		Transactions:   len(session.Transactions),
		Withdrawals:    len(session.Withdrawals),
	}
	if session.ClosedAt != nil {
		t := session.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp, nil
}
