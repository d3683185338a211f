package approve_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
)

type fakeReservationRepo struct {
	byID     map[int64]*domain.Reservation
	overlaps []*domain.Reservation
	approved []int64
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (f *fakeReservationRepo) FindOverlapping(_ context.Context, _ int64, start, end time.Time, excludeID *int64, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.overlaps {
		if excludeID != nil && res.ID == *excludeID {
			continue
		}
		matched := false
		for _, s := range statuses {
			if res.Status == s {
				matched = true
				break
			}
		}
		if matched && domain.Overlaps(start, end, res.StartTime, res.EndTime) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) Approve(_ context.Context, id int64, approverID int64, at time.Time) error {
	f.approved = append(f.approved, id)
	if res, ok := f.byID[id]; ok {
		res.Status = domain.StatusApproved
		res.ApprovedBy = &approverID
		res.ApprovedAt = &at
	}
	return nil
}

type passTxManager struct{}

func (passTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmitter struct {
	events []domain.EventKind
}

func (f *fakeEmitter) Emit(kind domain.EventKind, _ *domain.Reservation, _ map[string]string) {
	f.events = append(f.events, kind)
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

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func pendingReservation(id int64) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		ReferenceNumber: "260302101",
		LabID:           1,
		RequesterID:     42,
		StartTime:       testNow.Add(3 * time.Hour),
		EndTime:         testNow.Add(5 * time.Hour),
		Status:          domain.StatusPending,
	}
}

func newTestUseCase(repo *fakeReservationRepo, emitter *fakeEmitter) *UseCase {
	uc := NewUseCase(repo, passTxManager{}, emitter, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: testNow}
	return uc
}

func TestExecute_ApprovesPendingReservation(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{
		1: pendingReservation(1),
	}}
	emitter := &fakeEmitter{}
	uc := newTestUseCase(repo, emitter)

	approver := domain.Actor{ID: 7, Role: domain.RoleTechnicalStaff}
	resp, err := uc.Execute(context.Background(), &Request{Actor: approver, ReservationID: 1})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, int64(7), *resp.ApprovedBy)
	assert.Equal(t, testNow.Format(time.RFC3339), resp.ApprovedAt)

	assert.Equal(t, []int64{1}, repo.approved)
	assert.Equal(t, []domain.EventKind{domain.EventReservationApproved}, emitter.events)
}

func TestExecute_StudentCannotApprove(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{
		1: pendingReservation(1),
	}}
	uc := newTestUseCase(repo, &fakeEmitter{})

	student := domain.Actor{ID: 42, Role: domain.RoleStudent}
	_, err := uc.Execute(context.Background(), &Request{Actor: student, ReservationID: 1})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.approved)
}

func TestExecute_NotFound(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{}}
	uc := newTestUseCase(repo, &fakeEmitter{})

	approver := domain.Actor{ID: 7, Role: domain.RoleTechnicalStaff}
	_, err := uc.Execute(context.Background(), &Request{Actor: approver, ReservationID: 404})

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_NonPendingStatuses(t *testing.T) {
	statuses := []domain.ReservationStatus{
		domain.StatusDraft,
		domain.StatusApproved, // повторное подтверждение
		domain.StatusRejected,
		domain.StatusCancelled,
		domain.StatusCompleted,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			res := pendingReservation(1)
			res.Status = status
			repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: res}}
			uc := newTestUseCase(repo, &fakeEmitter{})

			approver := domain.Actor{ID: 7, Role: domain.RoleTechnicalStaff}
			_, err := uc.Execute(context.Background(), &Request{Actor: approver, ReservationID: 1})

			assert.ErrorIs(t, err, ErrNotPending)
			assert.Empty(t, repo.approved)
		})
	}
}

func TestExecute_ConflictWithApprovedLeavesPending(t *testing.T) {
	target := pendingReservation(1)
	blocking := &domain.Reservation{
		ID:        2,
		LabID:     1,
		StartTime: target.StartTime.Add(30 * time.Minute),
		EndTime:   target.EndTime.Add(30 * time.Minute),
		Status:    domain.StatusApproved,
	}
	repo := &fakeReservationRepo{
		byID:     map[int64]*domain.Reservation{1: target},
		overlaps: []*domain.Reservation{blocking},
	}
	emitter := &fakeEmitter{}
	uc := newTestUseCase(repo, emitter)

	approver := domain.Actor{ID: 7, Role: domain.RoleTechnicalStaff}
	_, err := uc.Execute(context.Background(), &Request{Actor: approver, ReservationID: 1})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrTimeConflict)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, int64(2), conflictErr.Conflicts[0].ID)

	assert.Empty(t, repo.approved)
	assert.Empty(t, emitter.events)
	assert.Equal(t, domain.StatusPending, repo.byID[1].Status)
}

func TestExecute_PendingNeighboursDoNotBlock(t *testing.T) {
	target := pendingReservation(1)
	neighbour := pendingReservation(2)
	repo := &fakeReservationRepo{
		byID:     map[int64]*domain.Reservation{1: target},
		overlaps: []*domain.Reservation{neighbour},
	}
	uc := newTestUseCase(repo, &fakeEmitter{})

	approver := domain.Actor{ID: 7, Role: domain.RoleLectureInCharge}
	resp, err := uc.Execute(context.Background(), &Request{Actor: approver, ReservationID: 1})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
}

func TestExecute_InvalidID(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeEmitter{})

	approver := domain.Actor{ID: 7, Role: domain.RoleTechnicalStaff}
	_, err := uc.Execute(context.Background(), &Request{Actor: approver, ReservationID: 0})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
