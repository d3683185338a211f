package create_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/LRS-BookingService/pkg/types"
)

type fakeReservationRepo struct {
	overlaps   []*domain.Reservation
	created    []*domain.Reservation
	createErrs []error
	nextID     int64
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.nextID++
	stored := *res
	stored.ID = f.nextID
	f.created = append(f.created, &stored)
	return &stored, nil
}

func (f *fakeReservationRepo) FindOverlapping(_ context.Context, _ int64, start, end time.Time, _ *int64, _ []domain.ReservationStatus) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.overlaps {
		if domain.Overlaps(start, end, res.StartTime, res.EndTime) {
			out = append(out, res)
		}
	}
	return out, nil
}

type fakeLabRepo struct {
	lab *domain.Lab
	err error
}

func (f *fakeLabRepo) GetByID(_ context.Context, _ int64) (*domain.Lab, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lab, nil
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

func ts(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

// testLab лаборатория, открытая каждый день 08:00-20:00
func testLab() *domain.Lab {
	day := domain.DaySchedule{IsOpen: true, OpenTime: ts("08:00"), CloseTime: ts("20:00")}
	return &domain.Lab{
		ID:       1,
		Name:     "Физическая лаборатория",
		OwnerID:  100,
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

// 2026-03-02 это понедельник
var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeReservationRepo, labs *fakeLabRepo, emitter *fakeEmitter) *UseCase {
	uc := NewUseCase(repo, labs, passTxManager{}, emitter, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		Actor:              domain.Actor{ID: 42, Role: domain.RoleStudent},
		LabID:              1,
		StartTime:          testNow.Add(2 * time.Hour),  // 10:00
		EndTime:            testNow.Add(4 * time.Hour),  // 12:00
		ExpectedAttendance: 5,
	}
}

func TestExecute_CreatesPendingReservation(t *testing.T) {
	repo := &fakeReservationRepo{}
	emitter := &fakeEmitter{}
	uc := newTestUseCase(repo, &fakeLabRepo{lab: testLab()}, emitter)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Nil(t, resp.ApprovedBy)
	assert.Nil(t, resp.ApprovedAt)
	assert.Len(t, resp.ReferenceNumber, 9)
	assert.Equal(t, []domain.EventKind{domain.EventReservationCreated}, emitter.events)
}

func TestExecute_AutoApproveSetsApprover(t *testing.T) {
	repo := &fakeReservationRepo{}
	uc := newTestUseCase(repo, &fakeLabRepo{lab: testLab()}, &fakeEmitter{})

	req := validRequest()
	req.Actor = domain.Actor{ID: 7, Role: domain.RoleLectureInCharge}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, int64(7), *resp.ApprovedBy)
	require.NotNil(t, resp.ApprovedAt)
	assert.Equal(t, testNow, *resp.ApprovedAt)
}

func TestExecute_NoApprovalRequiredIsApprovedWithoutApprover(t *testing.T) {
	lab := testLab()
	lab.Rules.RequireApproval = false
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeLabRepo{lab: lab}, &fakeEmitter{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	assert.Nil(t, resp.ApprovedBy)
	assert.Nil(t, resp.ApprovedAt)
}

func TestExecute_DraftSkipsConflictCheck(t *testing.T) {
	repo := &fakeReservationRepo{
		overlaps: []*domain.Reservation{{
			ID:        99,
			LabID:     1,
			StartTime: testNow.Add(2 * time.Hour),
			EndTime:   testNow.Add(3 * time.Hour),
			Status:    domain.StatusApproved,
		}},
	}
	uc := newTestUseCase(repo, &fakeLabRepo{lab: testLab()}, &fakeEmitter{})

	req := validRequest()
	req.AsDraft = true

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDraft), resp.Status)
}

func TestExecute_ConflictReturnsConflictError(t *testing.T) {
	existing := &domain.Reservation{
		ID:        99,
		LabID:     1,
		StartTime: testNow.Add(3 * time.Hour), // 11:00
		EndTime:   testNow.Add(5 * time.Hour), // 13:00
		Status:    domain.StatusApproved,
	}
	repo := &fakeReservationRepo{overlaps: []*domain.Reservation{existing}}
	emitter := &fakeEmitter{}
	uc := newTestUseCase(repo, &fakeLabRepo{lab: testLab()}, emitter)

	_, err := uc.Execute(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, int64(99), conflictErr.Conflicts[0].ID)

	assert.Empty(t, repo.created)
	assert.Empty(t, emitter.events)
}

func TestExecute_TouchingIntervalsDoNotConflict(t *testing.T) {
	// Существующее заканчивается ровно в момент начала нового
	existing := &domain.Reservation{
		ID:        99,
		LabID:     1,
		StartTime: testNow.Add(1 * time.Hour), // 09:00
		EndTime:   testNow.Add(2 * time.Hour), // 10:00
		Status:    domain.StatusApproved,
	}
	repo := &fakeReservationRepo{overlaps: []*domain.Reservation{existing}}
	uc := newTestUseCase(repo, &fakeLabRepo{lab: testLab()}, &fakeEmitter{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
}

func TestExecute_RuleViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name: "capacity exceeded",
			mutate: func(req *Request) {
				req.ExpectedAttendance = 21
			},
			wantErr: ErrCapacityExceeded,
		},
		{
			name: "duration too long",
			mutate: func(req *Request) {
				req.EndTime = req.StartTime.Add(5 * time.Hour)
			},
			wantErr: ErrDurationTooLong,
		},
		{
			name: "too late to book",
			mutate: func(req *Request) {
				req.StartTime = testNow.Add(30 * time.Minute)
				req.EndTime = req.StartTime.Add(time.Hour)
			},
			wantErr: ErrTooLateToBook,
		},
		{
			name: "too far in advance",
			mutate: func(req *Request) {
				req.StartTime = testNow.AddDate(0, 2, 0)
				req.EndTime = req.StartTime.Add(time.Hour)
			},
			wantErr: ErrTooFarInAdvance,
		},
		{
			name: "before opening",
			mutate: func(req *Request) {
				req.StartTime = time.Date(2026, 3, 3, 7, 0, 0, 0, time.UTC)
				req.EndTime = time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
			},
			wantErr: ErrOutsideOperatingHours,
		},
		{
			name: "past closing",
			mutate: func(req *Request) {
				req.StartTime = time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)
				req.EndTime = time.Date(2026, 3, 3, 21, 0, 0, 0, time.UTC)
			},
			wantErr: ErrOutsideOperatingHours,
		},
		{
			name: "recurring not allowed",
			mutate: func(req *Request) {
				req.IsRecurring = true
				endDate := testNow.AddDate(0, 1, 0)
				req.Recurrence = &domain.Recurrence{
					Frequency: domain.FrequencyWeekly,
					Interval:  1,
					EndDate:   &endDate,
				}
			},
			wantErr: ErrRecurringNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeReservationRepo{}
			uc := newTestUseCase(repo, &fakeLabRepo{lab: testLab()}, &fakeEmitter{})

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.created)
		})
	}
}

func TestExecute_ClosedDay(t *testing.T) {
	lab := testLab()
	lab.Hours.Monday = domain.DaySchedule{IsOpen: false}
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeLabRepo{lab: lab}, &fakeEmitter{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOutsideOperatingHours)
}

func TestExecute_LabNotBookable(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(lab *domain.Lab)
	}{
		{name: "inactive", mutate: func(lab *domain.Lab) { lab.Active = false }},
		{name: "under maintenance", mutate: func(lab *domain.Lab) { lab.UnderMaintenance = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lab := testLab()
			tt.mutate(lab)
			uc := newTestUseCase(&fakeReservationRepo{}, &fakeLabRepo{lab: lab}, &fakeEmitter{})

			_, err := uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrLabNotBookable)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "end before start", mutate: func(req *Request) { req.EndTime = req.StartTime.Add(-time.Hour) }},
		{name: "zero attendance", mutate: func(req *Request) { req.ExpectedAttendance = 0 }},
		{name: "missing lab id", mutate: func(req *Request) { req.LabID = 0 }},
		{name: "recurring without descriptor", mutate: func(req *Request) { req.IsRecurring = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeReservationRepo{}, &fakeLabRepo{lab: testLab()}, &fakeEmitter{})

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_RetriesOnReferenceCollision(t *testing.T) {
	repo := &fakeReservationRepo{
		createErrs: []error{reservationRepo.ErrReferenceNumberTaken},
	}
	uc := newTestUseCase(repo, &fakeLabRepo{lab: testLab()}, &fakeEmitter{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Len(t, resp.ReferenceNumber, 9)
}

func TestExecute_GivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := &fakeReservationRepo{
		createErrs: []error{
			reservationRepo.ErrReferenceNumberTaken,
			reservationRepo.ErrReferenceNumberTaken,
			reservationRepo.ErrReferenceNumberTaken,
		},
	}
	uc := newTestUseCase(repo, &fakeLabRepo{lab: testLab()}, &fakeEmitter{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}
