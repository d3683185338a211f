package update_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/LRS-BookingService/pkg/ptr"
	"github.com/m04kA/LRS-BookingService/pkg/types"
)

type fakeReservationRepo struct {
	byID     map[int64]*domain.Reservation
	overlaps []*domain.Reservation
	updated  []*domain.Reservation
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (f *fakeReservationRepo) FindOverlapping(_ context.Context, _ int64, start, end time.Time, excludeID *int64, _ []domain.ReservationStatus) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.overlaps {
		if excludeID != nil && res.ID == *excludeID {
			continue
		}
		if domain.Overlaps(start, end, res.StartTime, res.EndTime) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) Update(_ context.Context, res *domain.Reservation) error {
	copied := *res
	f.updated = append(f.updated, &copied)
	return nil
}

type fakeLabRepo struct {
	lab *domain.Lab
}

func (f *fakeLabRepo) GetByID(_ context.Context, _ int64) (*domain.Lab, error) {
	return f.lab, nil
}

type passTxManager struct{}

func (passTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

func ts(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func testLab() *domain.Lab {
	day := domain.DaySchedule{IsOpen: true, OpenTime: ts("08:00"), CloseTime: ts("20:00")}
	return &domain.Lab{
		ID:       1,
		Capacity: 20,
		Active:   true,
		Hours: domain.OperatingHours{
			Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
			Friday: day, Saturday: day, Sunday: day,
		},
		Rules: domain.BookingRules{
			MaxBookingDurationMinutes: domain.DefaultMaxBookingDurationMinutes,
			MinAdvanceBookingMinutes:  domain.DefaultMinAdvanceBookingMinutes,
			MaxAdvanceBookingMinutes:  domain.DefaultMaxAdvanceBookingMinutes,
			RequireApproval:           true,
		},
	}
}

var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

var owner = domain.Actor{ID: 42, Role: domain.RoleStudent}

func existing(status domain.ReservationStatus) *domain.Reservation {
	res := &domain.Reservation{
		ID:                 1,
		ReferenceNumber:    "260302042",
		LabID:              1,
		RequesterID:        owner.ID,
		StartTime:          testNow.Add(4 * time.Hour), // 12:00
		EndTime:            testNow.Add(6 * time.Hour), // 14:00
		ExpectedAttendance: 5,
		Status:             status,
		Priority:           domain.PriorityNormal,
	}
	if status == domain.StatusApproved {
		approverID := int64(7)
		approvedAt := testNow.Add(-time.Hour)
		res.ApprovedBy = &approverID
		res.ApprovedAt = &approvedAt
	}
	return res
}

func newTestUseCase(repo *fakeReservationRepo) *UseCase {
	uc := NewUseCase(repo, &fakeLabRepo{lab: testLab()}, passTxManager{}, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: testNow}
	return uc
}

func TestExecute_UpdatesPurposeWithoutStatusChange(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusApproved)}}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:         owner,
		ReservationID: 1,
		Purpose:       ptr.Ptr("демонстрация опыта"),
	})
	require.NoError(t, err)

	// Незначимое поле не сбрасывает подтверждение
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	require.NotNil(t, resp.Purpose)
	assert.Equal(t, "демонстрация опыта", *resp.Purpose)
}

func TestExecute_SignificantChangeRevertsApprovedToPending(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusApproved)}}
	uc := newTestUseCase(repo)

	newStart := testNow.Add(5 * time.Hour)
	newEnd := testNow.Add(7 * time.Hour)
	resp, err := uc.Execute(context.Background(), &Request{
		Actor:         owner,
		ReservationID: 1,
		StartTime:     &newStart,
		EndTime:       &newEnd,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Nil(t, resp.ApprovedBy)
	assert.Nil(t, resp.ApprovedAt)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, domain.StatusPending, repo.updated[0].Status)
}

func TestExecute_AttendanceChangeIsSignificant(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusApproved)}}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:              owner,
		ReservationID:      1,
		ExpectedAttendance: ptr.Ptr(10),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Nil(t, resp.ApprovedBy)
}

func TestExecute_SubmitDraft(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusDraft)}}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:         owner,
		ReservationID: 1,
		Submit:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestExecute_SubmitDraftChecksConflicts(t *testing.T) {
	draft := existing(domain.StatusDraft)
	blocking := &domain.Reservation{
		ID:        2,
		LabID:     1,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
		Status:    domain.StatusApproved,
	}
	repo := &fakeReservationRepo{
		byID:     map[int64]*domain.Reservation{1: draft},
		overlaps: []*domain.Reservation{blocking},
	}
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		Actor:         owner,
		ReservationID: 1,
		Submit:        true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, int64(2), conflictErr.Conflicts[0].ID)
	assert.Empty(t, repo.updated)
}

func TestExecute_SubmitNonDraft(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusPending)}}
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		Actor:         owner,
		ReservationID: 1,
		Submit:        true,
	})
	assert.ErrorIs(t, err, ErrNotDraft)
}

func TestExecute_NotModifiable(t *testing.T) {
	t.Run("starts too soon", func(t *testing.T) {
		res := existing(domain.StatusPending)
		res.StartTime = testNow.Add(90 * time.Minute)
		res.EndTime = testNow.Add(3 * time.Hour)
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: res}}
		uc := newTestUseCase(repo)

		_, err := uc.Execute(context.Background(), &Request{
			Actor:         owner,
			ReservationID: 1,
			Purpose:       ptr.Ptr("поздно"),
		})
		assert.ErrorIs(t, err, ErrNotModifiable)
	})

	t.Run("terminal status", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusCancelled)}}
		uc := newTestUseCase(repo)

		_, err := uc.Execute(context.Background(), &Request{
			Actor:         owner,
			ReservationID: 1,
			Purpose:       ptr.Ptr("отменено"),
		})
		assert.ErrorIs(t, err, ErrNotModifiable)
	})
}

func TestExecute_AccessDenied(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusPending)}}
	uc := newTestUseCase(repo)

	stranger := domain.Actor{ID: 55, Role: domain.RoleStudent}
	_, err := uc.Execute(context.Background(), &Request{
		Actor:         stranger,
		ReservationID: 1,
		Purpose:       ptr.Ptr("чужая бронь"),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_StaffMayUpdateOthers(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusPending)}}
	uc := newTestUseCase(repo)

	staff := domain.Actor{ID: 7, Role: domain.RoleTechnicalStaff}
	_, err := uc.Execute(context.Background(), &Request{
		Actor:         staff,
		ReservationID: 1,
		Purpose:       ptr.Ptr("корректировка персоналом"),
	})
	assert.NoError(t, err)
}

func TestExecute_InvalidInput(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusPending)}}
	uc := newTestUseCase(repo)

	t.Run("nothing to update", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{Actor: owner, ReservationID: 1})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("end before start", func(t *testing.T) {
		newEnd := testNow.Add(3 * time.Hour) // раньше текущего начала 12:00
		_, err := uc.Execute(context.Background(), &Request{
			Actor:         owner,
			ReservationID: 1,
			EndTime:       &newEnd,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_LabRulesRechecked(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: existing(domain.StatusPending)}}
	uc := newTestUseCase(repo)

	t.Run("capacity", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			Actor:              owner,
			ReservationID:      1,
			ExpectedAttendance: ptr.Ptr(100),
		})
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("outside operating hours", func(t *testing.T) {
		newStart := testNow.Add(11 * time.Hour) // 19:00
		newEnd := testNow.Add(13 * time.Hour)   // 21:00, позже закрытия
		_, err := uc.Execute(context.Background(), &Request{
			Actor:         owner,
			ReservationID: 1,
			StartTime:     &newStart,
			EndTime:       &newEnd,
		})
		assert.ErrorIs(t, err, ErrOutsideOperatingHours)
	})
}

func TestExecute_NotFound(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{}}
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		Actor:         owner,
		ReservationID: 404,
		Purpose:       ptr.Ptr("нет такой"),
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
