package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestOperationService() (*operationService, *MockOperationRepository) {
	repo := new(MockOperationRepository)
	svc := NewOperationService(repo, nil, nil).(*operationService)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func notFound(what string) error {
	return fmt.Errorf("find %s: %w", what, shared.ErrNotFound)
}

func TestOperationService_CreateLoan_SevenDayWindow(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyAvailable}, nil)
	repo.On("FindClient", mock.Anything, int64(2)).Return(&models.Client{ID: 2}, nil)
	repo.On("CreateLoan", mock.Anything, mock.AnythingOfType("*models.Loan")).Return(nil)
	repo.On("SetCopyStatus", mock.Anything, int64(1), models.CopyLoaned).Return(nil)

	loan, err := svc.CreateLoan(context.Background(), dto.LoanCreateRequest{BookCopyID: 1, ClientID: 2, DurationInDays: 7})

	require.NoError(t, err)
	assert.Equal(t, fixedNow, loan.StartDate)
	assert.Equal(t, 7*24*time.Hour, loan.EndDate.Sub(loan.StartDate))
	assert.Equal(t, models.LoanActive, loan.Status)
	assert.False(t, loan.Returned)
	assert.False(t, loan.IsOverdue)
	repo.AssertExpectations(t)
}

func TestOperationService_CreateLoan_MissingClientWritesNothing(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyAvailable}, nil)
	repo.On("FindClient", mock.Anything, int64(404)).Return(nil, notFound("client"))

	_, err := svc.CreateLoan(context.Background(), dto.LoanCreateRequest{BookCopyID: 1, ClientID: 404, DurationInDays: 7})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SetCopyStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOperationService_CreateLoan_MissingCopy(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("LockCopy", mock.Anything, int64(404)).Return(nil, notFound("book copy"))

	_, err := svc.CreateLoan(context.Background(), dto.LoanCreateRequest{BookCopyID: 404, ClientID: 2, DurationInDays: 7})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
}

func TestOperationService_CreateLoan_RefusesUnlendableCopy(t *testing.T) {
	for _, status := range []models.CopyStatus{models.CopyLoaned, models.CopyUnavailable} {
		t.Run(string(status), func(t *testing.T) {
			svc, repo := newTestOperationService()
			repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: status}, nil)
			repo.On("FindClient", mock.Anything, int64(2)).Return(&models.Client{ID: 2}, nil)

			_, err := svc.CreateLoan(context.Background(), dto.LoanCreateRequest{BookCopyID: 1, ClientID: 2, DurationInDays: 3})

			assert.ErrorIs(t, err, shared.ErrConflict)
			repo.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
		})
	}
}

func TestOperationService_CreateLoan_ReservedCopyCanBeLent(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyReserved}, nil)
	repo.On("FindClient", mock.Anything, int64(2)).Return(&models.Client{ID: 2}, nil)
	repo.On("CreateLoan", mock.Anything, mock.AnythingOfType("*models.Loan")).Return(nil)
	repo.On("SetCopyStatus", mock.Anything, int64(1), models.CopyLoaned).Return(nil)

	_, err := svc.CreateLoan(context.Background(), dto.LoanCreateRequest{BookCopyID: 1, ClientID: 2, DurationInDays: 1})

	require.NoError(t, err)
}

func TestOperationService_UpdateLoan_ExtendRestartsNow(t *testing.T) {
	svc, repo := newTestOperationService()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindLoan", mock.Anything, int64(5)).Return(&models.Loan{
		ID: 5, Status: models.LoanActive, StartDate: old, EndDate: old.AddDate(0, 0, 7),
	}, nil)
	repo.On("UpdateLoan", mock.Anything, mock.AnythingOfType("*models.Loan")).Return(nil)
	days := 14

	loan, err := svc.UpdateLoan(context.Background(), 5, dto.LoanUpdateRequest{DurationInDays: &days})

	require.NoError(t, err)
	assert.Equal(t, fixedNow, loan.StartDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, 14), loan.EndDate)
	assert.Equal(t, models.LoanActive, loan.Status)
}

func TestOperationService_UpdateLoan_StatusOnlyKeepsWindow(t *testing.T) {
	svc, repo := newTestOperationService()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindLoan", mock.Anything, int64(5)).Return(&models.Loan{
		ID: 5, Status: models.LoanActive, StartDate: old, EndDate: old.AddDate(0, 0, 7),
	}, nil)
	repo.On("UpdateLoan", mock.Anything, mock.AnythingOfType("*models.Loan")).Return(nil)
	status := models.LoanLoaned

	loan, err := svc.UpdateLoan(context.Background(), 5, dto.LoanUpdateRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, old, loan.StartDate)
	assert.Equal(t, models.LoanLoaned, loan.Status)
	assert.True(t, loan.IsOverdue)
}

func TestOperationService_GetLoan_FlagsOverdue(t *testing.T) {
	tests := []struct {
		name     string
		loan     models.Loan
		expected bool
	}{
		{"OpenPastEnd", models.Loan{ID: 1, EndDate: fixedNow.Add(-time.Hour)}, true},
		{"OpenBeforeEnd", models.Loan{ID: 1, EndDate: fixedNow.Add(time.Hour)}, false},
		{"ReturnedPastEnd", models.Loan{ID: 1, EndDate: fixedNow.Add(-time.Hour), Returned: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestOperationService()
			loan := tt.loan
			repo.On("FindLoan", mock.Anything, int64(1)).Return(&loan, nil)

			got, err := svc.GetLoan(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.IsOverdue)
		})
	}
}

func TestOperationService_GetLoan_NotFound(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("FindLoan", mock.Anything, int64(404)).Return(nil, notFound("loan"))

	_, err := svc.GetLoan(context.Background(), 404)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOperationService_CreateReturn_FreesCopy(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("FindLoan", mock.Anything, int64(5)).Return(&models.Loan{ID: 5, BookCopyID: 1}, nil)
	repo.On("CreateReturn", mock.Anything, mock.AnythingOfType("*models.Return")).Return(nil)
	repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyLoaned}, nil)
	repo.On("SetCopyStatus", mock.Anything, int64(1), models.CopyAvailable).Return(nil)

	ret, err := svc.CreateReturn(context.Background(), dto.ReturnCreateRequest{LoanID: 5})

	require.NoError(t, err)
	assert.Equal(t, fixedNow, ret.ReturnDate)
	repo.AssertExpectations(t)
}

func TestOperationService_CreateReturn_Twice(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("FindLoan", mock.Anything, int64(5)).Return(&models.Loan{ID: 5, BookCopyID: 1, Returned: true}, nil)

	_, err := svc.CreateReturn(context.Background(), dto.ReturnCreateRequest{LoanID: 5})

	assert.ErrorIs(t, err, shared.ErrConflict)
	repo.AssertNotCalled(t, "CreateReturn", mock.Anything, mock.Anything)
}

func TestOperationService_CreateReservation(t *testing.T) {
	t.Run("AvailableCopy", func(t *testing.T) {
		svc, repo := newTestOperationService()
		repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyAvailable}, nil)
		repo.On("FindClient", mock.Anything, int64(2)).Return(&models.Client{ID: 2}, nil)
		repo.On("CreateReservation", mock.Anything, mock.AnythingOfType("*models.Reservation")).Return(nil)
		repo.On("SetCopyStatus", mock.Anything, int64(1), models.CopyReserved).Return(nil)

		r, err := svc.CreateReservation(context.Background(), dto.ReservationCreateRequest{BookCopyID: 1, ClientID: 2, DurationInDays: 2})

		require.NoError(t, err)
		assert.Equal(t, fixedNow.AddDate(0, 0, 2), r.EndDate)
	})

	t.Run("LoanedCopy", func(t *testing.T) {
		svc, repo := newTestOperationService()
		repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyLoaned}, nil)
		repo.On("FindClient", mock.Anything, int64(2)).Return(&models.Client{ID: 2}, nil)

		_, err := svc.CreateReservation(context.Background(), dto.ReservationCreateRequest{BookCopyID: 1, ClientID: 2, DurationInDays: 2})

		assert.ErrorIs(t, err, shared.ErrConflict)
	})
}

func TestOperationService_DeleteReservation_FreesReservedCopy(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("FindReservation", mock.Anything, int64(3)).Return(&models.Reservation{ID: 3, BookCopyID: 1}, nil)
	repo.On("DeleteReservation", mock.Anything, int64(3)).Return(nil)
	repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyReserved}, nil)
	repo.On("SetCopyStatus", mock.Anything, int64(1), models.CopyAvailable).Return(nil)

	require.NoError(t, svc.DeleteReservation(context.Background(), 3))
	repo.AssertExpectations(t)
}

func TestOperationService_DeleteReservation_LeavesLoanedCopy(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("FindReservation", mock.Anything, int64(3)).Return(&models.Reservation{ID: 3, BookCopyID: 1}, nil)
	repo.On("DeleteReservation", mock.Anything, int64(3)).Return(nil)
	repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyLoaned}, nil)

	require.NoError(t, svc.DeleteReservation(context.Background(), 3))
	repo.AssertNotCalled(t, "SetCopyStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOperationService_CreateFine(t *testing.T) {
	t.Run("StartsPending", func(t *testing.T) {
		svc, repo := newTestOperationService()
		repo.On("FindLoan", mock.Anything, int64(5)).Return(&models.Loan{ID: 5}, nil)
		repo.On("CreateFine", mock.Anything, mock.AnythingOfType("*models.Fine")).Return(nil)

		fine, err := svc.CreateFine(context.Background(), dto.FineCreateRequest{LoanID: 5, Amount: 12.5})

		require.NoError(t, err)
		assert.Equal(t, models.FinePending, fine.Status)
		assert.Equal(t, 12.5, fine.Amount)
	})

	t.Run("MissingLoan", func(t *testing.T) {
		svc, repo := newTestOperationService()
		repo.On("FindLoan", mock.Anything, int64(404)).Return(nil, notFound("loan"))

		_, err := svc.CreateFine(context.Background(), dto.FineCreateRequest{LoanID: 404, Amount: 1})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertNotCalled(t, "CreateFine", mock.Anything, mock.Anything)
	})
}

func TestOperationService_UpdateFineStatus(t *testing.T) {
	t.Run("Overwrites", func(t *testing.T) {
		svc, repo := newTestOperationService()
		repo.On("FindFine", mock.Anything, int64(8)).Return(&models.Fine{ID: 8, Status: models.FinePaid}, nil)
		repo.On("UpdateFineStatus", mock.Anything, int64(8), models.FinePending).Return(nil)

		fine, err := svc.UpdateFineStatus(context.Background(), 8, dto.FineUpdateStatusRequest{Status: models.FinePending})

		require.NoError(t, err)
		assert.Equal(t, models.FinePending, fine.Status)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		svc, repo := newTestOperationService()

		_, err := svc.UpdateFineStatus(context.Background(), 8, dto.FineUpdateStatusRequest{Status: "WAIVED"})

		assert.ErrorIs(t, err, shared.ErrValidationRejected)
		repo.AssertNotCalled(t, "FindFine", mock.Anything, mock.Anything)
	})
}

func TestOperationService_DeleteLoan_OpenLoanFreesCopy(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("FindLoan", mock.Anything, int64(5)).Return(&models.Loan{ID: 5, BookCopyID: 1}, nil)
	repo.On("DeleteLoan", mock.Anything, int64(5)).Return(nil)
	repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyLoaned}, nil)
	repo.On("SetCopyStatus", mock.Anything, int64(1), models.CopyAvailable).Return(nil)

	require.NoError(t, svc.DeleteLoan(context.Background(), 5))
	repo.AssertExpectations(t)
}

func TestOperationService_DeleteReturn_ReopensLoan(t *testing.T) {
	svc, repo := newTestOperationService()
	repo.On("FindReturn", mock.Anything, int64(6)).Return(&models.Return{ID: 6, LoanID: 5}, nil)
	repo.On("FindLoan", mock.Anything, int64(5)).Return(&models.Loan{ID: 5, BookCopyID: 1, Returned: true}, nil)
	repo.On("DeleteReturn", mock.Anything, int64(6)).Return(nil)
	repo.On("LockCopy", mock.Anything, int64(1)).Return(&models.BookCopy{ID: 1, Status: models.CopyAvailable}, nil)
	repo.On("SetCopyStatus", mock.Anything, int64(1), models.CopyLoaned).Return(nil)

	require.NoError(t, svc.DeleteReturn(context.Background(), 6))
	repo.AssertExpectations(t)
}
