package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"libraryhub/internal/cache"
	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/shared"
)

// OperationService runs every fine, loan, reservation and return write in its
// own relational transaction. Referenced rows are re-read inside it.
type OperationService interface {
	CreateFine(ctx context.Context, req dto.FineCreateRequest) (*models.Fine, error)
	GetFine(ctx context.Context, id int64) (*models.Fine, error)
	UpdateFineStatus(ctx context.Context, id int64, req dto.FineUpdateStatusRequest) (*models.Fine, error)
	DeleteFine(ctx context.Context, id int64) error

	CreateLoan(ctx context.Context, req dto.LoanCreateRequest) (*models.Loan, error)
	GetLoan(ctx context.Context, id int64) (*models.Loan, error)
	UpdateLoan(ctx context.Context, id int64, req dto.LoanUpdateRequest) (*models.Loan, error)
	DeleteLoan(ctx context.Context, id int64) error

	CreateReservation(ctx context.Context, req dto.ReservationCreateRequest) (*models.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error

	CreateReturn(ctx context.Context, req dto.ReturnCreateRequest) (*models.Return, error)
	GetReturn(ctx context.Context, id int64) (*models.Return, error)
	DeleteReturn(ctx context.Context, id int64) error
}

type operationService struct {
	repo    repository.OperationRepository
	reports *cache.ReportCache
	logger  *slog.Logger
	now     func() time.Time
}

func NewOperationService(repo repository.OperationRepository, reports *cache.ReportCache, logger *slog.Logger) OperationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &operationService{repo: repo, reports: reports, logger: logger, now: time.Now}
}

func (s *operationService) CreateFine(ctx context.Context, req dto.FineCreateRequest) (*models.Fine, error) {
	fine := &models.Fine{LoanID: req.LoanID, Amount: req.Amount, Status: models.FinePending}
	err := s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		if _, err := tx.FindLoan(ctx, req.LoanID); err != nil {
			return err
		}
		return tx.CreateFine(ctx, fine)
	})
	if err != nil {
		return nil, err
	}
	return fine, nil
}

func (s *operationService) GetFine(ctx context.Context, id int64) (*models.Fine, error) {
	return s.repo.FindFine(ctx, id)
}

func (s *operationService) UpdateFineStatus(ctx context.Context, id int64, req dto.FineUpdateStatusRequest) (*models.Fine, error) {
	if !models.IsValidFineStatus(req.Status) {
		return nil, fmt.Errorf("fine status %q: %w", req.Status, shared.ErrValidationRejected)
	}
	var fine *models.Fine
	err := s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		var err error
		if fine, err = tx.FindFine(ctx, id); err != nil {
			return err
		}
		if err := tx.UpdateFineStatus(ctx, id, req.Status); err != nil {
			return err
		}
		fine.Status = req.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fine, nil
}

func (s *operationService) DeleteFine(ctx context.Context, id int64) error {
	return s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		if _, err := tx.FindFine(ctx, id); err != nil {
			return err
		}
		return tx.DeleteFine(ctx, id)
	})
}

// CreateLoan opens an ACTIVE loan ending DurationInDays after now and marks
// the copy LOANED. Copies already LOANED or UNAVAILABLE are refused.
func (s *operationService) CreateLoan(ctx context.Context, req dto.LoanCreateRequest) (*models.Loan, error) {
	loan := &models.Loan{BookCopyID: req.BookCopyID, ClientID: req.ClientID, Status: models.LoanActive}
	loan.Schedule(s.now(), req.DurationInDays)

	err := s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		bookCopy, err := tx.LockCopy(ctx, req.BookCopyID)
		if err != nil {
			return err
		}
		if _, err := tx.FindClient(ctx, req.ClientID); err != nil {
			return err
		}
		if bookCopy.Status == models.CopyLoaned || bookCopy.Status == models.CopyUnavailable {
			return fmt.Errorf("book copy %d is %s: %w", bookCopy.ID, bookCopy.Status, shared.ErrConflict)
		}
		if err := tx.CreateLoan(ctx, loan); err != nil {
			return err
		}
		return tx.SetCopyStatus(ctx, bookCopy.ID, models.CopyLoaned)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("loan_created", "loan_id", loan.ID, "book_copy_id", loan.BookCopyID, "client_id", loan.ClientID)
	return s.withOverdue(loan), nil
}

func (s *operationService) GetLoan(ctx context.Context, id int64) (*models.Loan, error) {
	loan, err := s.repo.FindLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withOverdue(loan), nil
}

// UpdateLoan applies an extension and a status change independently. An
// extension restarts the loan now.
func (s *operationService) UpdateLoan(ctx context.Context, id int64, req dto.LoanUpdateRequest) (*models.Loan, error) {
	if req.Status != nil && !models.IsValidLoanStatus(*req.Status) {
		return nil, fmt.Errorf("loan status %q: %w", *req.Status, shared.ErrValidationRejected)
	}
	var loan *models.Loan
	err := s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		var err error
		if loan, err = tx.FindLoan(ctx, id); err != nil {
			return err
		}
		if req.DurationInDays != nil {
			loan.Schedule(s.now(), *req.DurationInDays)
		}
		if req.Status != nil {
			loan.Status = *req.Status
		}
		return tx.UpdateLoan(ctx, loan)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.withOverdue(loan), nil
}

func (s *operationService) withOverdue(loan *models.Loan) *models.Loan {
	loan.IsOverdue = loan.Overdue(s.now())
	return loan
}

// DeleteLoan frees the copy of an open loan. Loans with a return or fines
// still referencing them fail with shared.ErrConflict.
func (s *operationService) DeleteLoan(ctx context.Context, id int64) error {
	err := s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		loan, err := tx.FindLoan(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteLoan(ctx, id); err != nil {
			return err
		}
		if loan.Returned {
			return nil
		}
		return s.releaseCopy(ctx, tx, loan.BookCopyID, models.CopyLoaned)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// CreateReservation holds an AVAILABLE copy for the client
func (s *operationService) CreateReservation(ctx context.Context, req dto.ReservationCreateRequest) (*models.Reservation, error) {
	start := s.now()
	reservation := &models.Reservation{
		BookCopyID: req.BookCopyID,
		ClientID:   req.ClientID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, req.DurationInDays),
	}
	err := s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		bookCopy, err := tx.LockCopy(ctx, req.BookCopyID)
		if err != nil {
			return err
		}
		if _, err := tx.FindClient(ctx, req.ClientID); err != nil {
			return err
		}
		if bookCopy.Status != models.CopyAvailable {
			return fmt.Errorf("book copy %d is %s: %w", bookCopy.ID, bookCopy.Status, shared.ErrConflict)
		}
		if err := tx.CreateReservation(ctx, reservation); err != nil {
			return err
		}
		return tx.SetCopyStatus(ctx, bookCopy.ID, models.CopyReserved)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return reservation, nil
}

func (s *operationService) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.repo.FindReservation(ctx, id)
}

func (s *operationService) DeleteReservation(ctx context.Context, id int64) error {
	err := s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		reservation, err := tx.FindReservation(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteReservation(ctx, id); err != nil {
			return err
		}
		return s.releaseCopy(ctx, tx, reservation.BookCopyID, models.CopyReserved)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// CreateReturn closes the loan and makes its copy AVAILABLE again. A loan can
// be returned once.
func (s *operationService) CreateReturn(ctx context.Context, req dto.ReturnCreateRequest) (*models.Return, error) {
	ret := &models.Return{LoanID: req.LoanID, ReturnDate: s.now()}
	err := s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		loan, err := tx.FindLoan(ctx, req.LoanID)
		if err != nil {
			return err
		}
		if loan.Returned {
			return fmt.Errorf("loan %d already returned: %w", loan.ID, shared.ErrConflict)
		}
		if err := tx.CreateReturn(ctx, ret); err != nil {
			return err
		}
		return s.releaseCopy(ctx, tx, loan.BookCopyID, models.CopyLoaned)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("loan_returned", "loan_id", ret.LoanID, "return_id", ret.ID)
	return ret, nil
}

func (s *operationService) GetReturn(ctx context.Context, id int64) (*models.Return, error) {
	return s.repo.FindReturn(ctx, id)
}

// DeleteReturn reopens the loan; its copy goes back to LOANED if still AVAILABLE
func (s *operationService) DeleteReturn(ctx context.Context, id int64) error {
	err := s.repo.Transaction(ctx, func(tx repository.OperationRepository) error {
		ret, err := tx.FindReturn(ctx, id)
		if err != nil {
			return err
		}
		loan, err := tx.FindLoan(ctx, ret.LoanID)
		if err != nil {
			return err
		}
		if err := tx.DeleteReturn(ctx, id); err != nil {
			return err
		}
		bookCopy, err := tx.LockCopy(ctx, loan.BookCopyID)
		if err != nil {
			return err
		}
		if bookCopy.Status != models.CopyAvailable {
			return nil
		}
		return tx.SetCopyStatus(ctx, bookCopy.ID, models.CopyLoaned)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// releaseCopy sets the copy AVAILABLE when it is still in the held status
func (s *operationService) releaseCopy(ctx context.Context, tx repository.OperationRepository, copyID int64, held models.CopyStatus) error {
	bookCopy, err := tx.LockCopy(ctx, copyID)
	if err != nil {
		return err
	}
	if bookCopy.Status != held {
		return nil
	}
	return tx.SetCopyStatus(ctx, copyID, models.CopyAvailable)
}

func (s *operationService) invalidate(ctx context.Context) {
	if err := s.reports.InvalidateReports(ctx); err != nil {
		s.logger.Warn("report_cache_invalidate_failed", "error", err)
	}
}
