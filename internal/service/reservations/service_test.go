package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/LRS-BookingService/internal/service/reservations/models"
)

type fakeRepo struct {
	byID      map[int64]*domain.Reservation
	cancelled []int64
	rejected  []int64
	statuses  map[int64]domain.ReservationStatus
	fromSeen  []domain.ReservationStatus
	completed int64

	// транзишен-ошибки для имитации гонки между чтением и UPDATE
	rejectErr       error
	cancelErr       error
	updateStatusErr error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (f *fakeRepo) ListByRequester(_ context.Context, requesterID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.byID {
		if res.RequesterID != requesterID {
			continue
		}
		if status != nil && res.Status != *status {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (f *fakeRepo) ListByLabAndDate(_ context.Context, filter domain.LabDayFilter) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.byID {
		if res.LabID == filter.LabID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListPendingByLab(_ context.Context, labID int64) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.byID {
		if res.LabID == labID && res.Status == domain.StatusPending {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeRepo) Reject(_ context.Context, id int64, _ int64, _ time.Time, _ string) error {
	if f.rejectErr != nil {
		return f.rejectErr
	}
	f.rejected = append(f.rejected, id)
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, id int64, _ string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus, from []domain.ReservationStatus) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	if f.statuses == nil {
		f.statuses = make(map[int64]domain.ReservationStatus)
	}
	f.statuses[id] = status
	f.fromSeen = from
	return nil
}

func (f *fakeRepo) CompleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return f.completed, nil
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

var (
	owner = domain.Actor{ID: 42, Role: domain.RoleStudent}
	staff = domain.Actor{ID: 7, Role: domain.RoleTechnicalStaff}
	other = domain.Actor{ID: 55, Role: domain.RoleStudent}
)

func reservation(id int64, status domain.ReservationStatus, startsIn time.Duration) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		ReferenceNumber: "260302042",
		LabID:           1,
		RequesterID:     owner.ID,
		StartTime:       testNow.Add(startsIn),
		EndTime:         testNow.Add(startsIn + 2*time.Hour),
		Status:          status,
	}
}

func newTestService(repo *fakeRepo, emitter *fakeEmitter) *Service {
	svc := NewService(repo, emitter, nopLogger{})
	svc.timeProvider = fixedTimeProvider{now: testNow}
	return svc
}

func TestGetByID_Access(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: reservation(1, domain.StatusApproved, 3*time.Hour),
	}}
	svc := newTestService(repo, &fakeEmitter{})

	resp, err := svc.GetByID(context.Background(), 1, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = svc.GetByID(context.Background(), 1, staff)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 1, other)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 404, owner)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestGetUserReservations(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: reservation(1, domain.StatusApproved, 3*time.Hour),
		2: reservation(2, domain.StatusCancelled, 24*time.Hour),
	}}
	svc := newTestService(repo, &fakeEmitter{})

	resp, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		Actor:       owner,
		RequesterID: owner.ID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)

	// Фильтр по статусу
	status := "approved"
	resp, err = svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		Actor:       owner,
		RequesterID: owner.ID,
		Status:      &status,
	})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "approved", resp.Reservations[0].Status)

	// Невалидный статус
	bad := "unknown"
	_, err = svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		Actor:       owner,
		RequesterID: owner.ID,
		Status:      &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Чужая история: студенту нельзя, персоналу можно
	_, err = svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		Actor:       other,
		RequesterID: owner.ID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		Actor:       staff,
		RequesterID: owner.ID,
	})
	assert.NoError(t, err)
}

func TestGetLabReservations_StaffOnly(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: reservation(1, domain.StatusApproved, 3*time.Hour),
	}}
	svc := newTestService(repo, &fakeEmitter{})

	_, err := svc.GetLabReservations(context.Background(), &models.GetLabReservationsRequest{
		Actor: owner,
		LabID: 1,
		Date:  testNow,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.GetLabReservations(context.Background(), &models.GetLabReservationsRequest{
		Actor: staff,
		LabID: 1,
		Date:  testNow,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 1)
}

func TestGetPendingQueue_StaffOnly(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: reservation(1, domain.StatusPending, 3*time.Hour),
		2: reservation(2, domain.StatusApproved, 5*time.Hour),
	}}
	svc := newTestService(repo, &fakeEmitter{})

	_, err := svc.GetPendingQueue(context.Background(), 1, owner)
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.GetPendingQueue(context.Background(), 1, staff)
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "pending", resp.Reservations[0].Status)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		res     *domain.Reservation
		actor   domain.Actor
		wantErr error
	}{
		{
			name:  "owner cancels two hours before start",
			res:   reservation(1, domain.StatusApproved, 2*time.Hour),
			actor: owner,
		},
		{
			name:  "staff cancels someone else's reservation",
			res:   reservation(1, domain.StatusPending, 2*time.Hour),
			actor: staff,
		},
		{
			name:    "stranger cannot cancel",
			res:     reservation(1, domain.StatusApproved, 2*time.Hour),
			actor:   other,
			wantErr: ErrAccessDenied,
		},
		{
			name:    "too close to start",
			res:     reservation(1, domain.StatusApproved, 30*time.Minute),
			actor:   owner,
			wantErr: ErrCannotCancel,
		},
		{
			name:    "draft cannot be cancelled",
			res:     reservation(1, domain.StatusDraft, 3*time.Hour),
			actor:   owner,
			wantErr: ErrCannotCancel,
		},
		{
			name:    "completed cannot be cancelled",
			res:     reservation(1, domain.StatusCompleted, -3*time.Hour),
			actor:   owner,
			wantErr: ErrCannotCancel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{byID: map[int64]*domain.Reservation{1: tt.res}}
			emitter := &fakeEmitter{}
			svc := newTestService(repo, emitter)

			err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
				Actor:              tt.actor,
				CancellationReason: "перенос занятия",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.cancelled)
				assert.Empty(t, emitter.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int64{1}, repo.cancelled)
			assert.Equal(t, []domain.EventKind{domain.EventReservationCancelled}, emitter.events)
		})
	}
}

func TestReject(t *testing.T) {
	t.Run("requires reason", func(t *testing.T) {
		repo := &fakeRepo{byID: map[int64]*domain.Reservation{
			1: reservation(1, domain.StatusPending, 3*time.Hour),
		}}
		svc := newTestService(repo, &fakeEmitter{})

		err := svc.Reject(context.Background(), 1, &models.RejectReservationRequest{
			Actor:           staff,
			RejectionReason: "   ",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("staff only", func(t *testing.T) {
		repo := &fakeRepo{byID: map[int64]*domain.Reservation{
			1: reservation(1, domain.StatusPending, 3*time.Hour),
		}}
		svc := newTestService(repo, &fakeEmitter{})

		err := svc.Reject(context.Background(), 1, &models.RejectReservationRequest{
			Actor:           owner,
			RejectionReason: "лаборатория занята под ремонт",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("pending only", func(t *testing.T) {
		repo := &fakeRepo{byID: map[int64]*domain.Reservation{
			1: reservation(1, domain.StatusApproved, 3*time.Hour),
		}}
		svc := newTestService(repo, &fakeEmitter{})

		err := svc.Reject(context.Background(), 1, &models.RejectReservationRequest{
			Actor:           staff,
			RejectionReason: "недостаточно обоснована цель",
		})
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("success emits event", func(t *testing.T) {
		repo := &fakeRepo{byID: map[int64]*domain.Reservation{
			1: reservation(1, domain.StatusPending, 3*time.Hour),
		}}
		emitter := &fakeEmitter{}
		svc := newTestService(repo, emitter)

		err := svc.Reject(context.Background(), 1, &models.RejectReservationRequest{
			Actor:           staff,
			RejectionReason: "недостаточно обоснована цель",
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, repo.rejected)
		assert.Equal(t, []domain.EventKind{domain.EventReservationRejected}, emitter.events)
	})
}

func TestMarkNoShow(t *testing.T) {
	t.Run("staff only", func(t *testing.T) {
		repo := &fakeRepo{byID: map[int64]*domain.Reservation{
			1: reservation(1, domain.StatusApproved, -time.Hour),
		}}
		svc := newTestService(repo, &fakeEmitter{})

		err := svc.MarkNoShow(context.Background(), 1, owner)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("approved only", func(t *testing.T) {
		repo := &fakeRepo{byID: map[int64]*domain.Reservation{
			1: reservation(1, domain.StatusPending, -time.Hour),
		}}
		svc := newTestService(repo, &fakeEmitter{})

		err := svc.MarkNoShow(context.Background(), 1, staff)
		assert.ErrorIs(t, err, ErrNotApproved)
	})

	t.Run("success", func(t *testing.T) {
		repo := &fakeRepo{byID: map[int64]*domain.Reservation{
			1: reservation(1, domain.StatusApproved, -time.Hour),
		}}
		svc := newTestService(repo, &fakeEmitter{})

		err := svc.MarkNoShow(context.Background(), 1, staff)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoShow, repo.statuses[1])
		// Переход выполняется только из approved
		assert.Equal(t, []domain.ReservationStatus{domain.StatusApproved}, repo.fromSeen)
	})
}

// Гонки переходов: статус меняется между чтением в сервисе и UPDATE,
// репозиторий возвращает ErrInvalidTransition вместо слепой перезаписи
func TestConcurrentTransitionRaces(t *testing.T) {
	t.Run("reject racing an approve", func(t *testing.T) {
		repo := &fakeRepo{
			byID:      map[int64]*domain.Reservation{1: reservation(1, domain.StatusPending, 3 * time.Hour)},
			rejectErr: reservationRepo.ErrInvalidTransition,
		}
		emitter := &fakeEmitter{}
		svc := newTestService(repo, emitter)

		err := svc.Reject(context.Background(), 1, &models.RejectReservationRequest{
			Actor:           staff,
			RejectionReason: "лаборатория занята под ремонт",
		})
		assert.ErrorIs(t, err, ErrNotPending)
		assert.Empty(t, repo.rejected)
		assert.Empty(t, emitter.events)
	})

	t.Run("cancel racing a completion", func(t *testing.T) {
		repo := &fakeRepo{
			byID:      map[int64]*domain.Reservation{1: reservation(1, domain.StatusApproved, 2 * time.Hour)},
			cancelErr: reservationRepo.ErrInvalidTransition,
		}
		emitter := &fakeEmitter{}
		svc := newTestService(repo, emitter)

		err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
			Actor: owner,
		})
		assert.ErrorIs(t, err, ErrCannotCancel)
		assert.Empty(t, repo.cancelled)
		assert.Empty(t, emitter.events)
	})

	t.Run("no-show racing a cancel", func(t *testing.T) {
		repo := &fakeRepo{
			byID:            map[int64]*domain.Reservation{1: reservation(1, domain.StatusApproved, -time.Hour)},
			updateStatusErr: reservationRepo.ErrInvalidTransition,
		}
		svc := newTestService(repo, &fakeEmitter{})

		err := svc.MarkNoShow(context.Background(), 1, staff)
		assert.ErrorIs(t, err, ErrNotApproved)
	})
}

func TestCompleteExpired(t *testing.T) {
	repo := &fakeRepo{completed: 3}
	svc := newTestService(repo, &fakeEmitter{})

	count, err := svc.CompleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
