package reservation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	"github.com/m04kA/LRS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LRS-BookingService/pkg/psqlbuilder"
)

// reservationColumns полный список колонок таблицы reservations
var reservationColumns = []string{
	"id",
	"reference_number",
	"lab_id",
	"requester_id",
	"purpose",
	"start_time",
	"end_time",
	"expected_attendance",
	"status",
	"priority",
	"approved_by",
	"approved_at",
	"rejected_by",
	"rejected_at",
	"rejection_reason",
	"cancelled_at",
	"cancellation_reason",
	"is_recurring",
	"recurrence",
	"parent_reservation_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value),
// использует её. Последовательность "проверить конфликты - создать" обязана
// выполняться в сериализуемой транзакции, иначе два конкурирующих запроса
// могут записать пересекающиеся интервалы.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	recurrenceJSON, err := marshalRecurrence(res.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal recurrence: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"reference_number",
			"lab_id",
			"requester_id",
			"purpose",
			"start_time",
			"end_time",
			"expected_attendance",
			"status",
			"priority",
			"approved_by",
			"approved_at",
			"is_recurring",
			"recurrence",
			"parent_reservation_id",
		).
		Values(
			res.ReferenceNumber,
			res.LabID,
			res.RequesterID,
			res.Purpose,
			res.StartTime,
			res.EndTime,
			res.ExpectedAttendance,
			res.Status,
			res.Priority,
			res.ApprovedBy,
			res.ApprovedAt,
			res.IsRecurring,
			recurrenceJSON,
			res.ParentReservationID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrReferenceNumberTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: переходы статуса не должны
	// гоняться друг с другом
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// FindOverlapping возвращает бронирования лаборатории, чьи интервалы
// пересекаются с [start, end) и статус входит в statuses
// Пересечение полуинтервалов: start_time < end AND end_time > start,
// граничащие интервалы не пересекаются
// excludeID исключает собственное бронирование при обновлении его времени
func (r *Repository) FindOverlapping(
	ctx context.Context,
	labID int64,
	start, end time.Time,
	excludeID *int64,
	statuses []domain.ReservationStatus,
) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"lab_id": labID}).
		Where(squirrel.Eq{"status": statusStrings}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	// Если используется транзакция, блокируем найденные строки до фиксации:
	// проверка конфликтов и запись статуса становятся одной атомарной
	// операцией на таймлайне лаборатории
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListByLabAndDate получает все бронирования лаборатории на конкретную дату
// По умолчанию только активные (pending, approved)
func (r *Repository) ListByLabAndDate(ctx context.Context, filter domain.LabDayFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"lab_id": filter.LabID}).
		Where(squirrel.Lt{"start_time": dayEnd}).
		Where(squirrel.Gt{"end_time": dayStart}).
		OrderBy("start_time ASC")

	if !filter.IncludeInactive {
		activeStatusStrings := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			activeStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLabAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLabAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListByRequester получает бронирования пользователя, опционально по статусу
func (r *Repository) ListByRequester(ctx context.Context, requesterID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"requester_id": requesterID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequester - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequester - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListPendingByLab получает все pending бронирования лаборатории
// Сортировка по приоритету (urgent первыми), затем по времени начала -
// приоритет используется только как ключ сортировки
func (r *Repository) ListPendingByLab(ctx context.Context, labID int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"lab_id": labID, "status": domain.StatusPending}).
		OrderBy(
			"CASE priority WHEN 'urgent' THEN 3 WHEN 'high' THEN 2 WHEN 'normal' THEN 1 ELSE 0 END DESC",
			"start_time ASC",
		).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingByLab - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingByLab - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// MaxActiveAttendance возвращает наибольшую ожидаемую посещаемость среди
// активных бронирований лаборатории; 0, если активных бронирований нет
// Используется каталогом при уменьшении вместимости лаборатории
func (r *Repository) MaxActiveAttendance(ctx context.Context, labID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(MAX(expected_attendance), 0)").
		From("reservations").
		Where(squirrel.Eq{"lab_id": labID}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MaxActiveAttendance - build select query: %v", ErrBuildQuery, err)
	}

	var attendance int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&attendance); err != nil {
		return 0, fmt.Errorf("%w: MaxActiveAttendance - scan attendance: %v", ErrScanRow, err)
	}

	return attendance, nil
}

// Update обновляет изменяемые поля бронирования
// Используется usecase обновления: время, вместимость, цель, приоритет и
// откат approved -> pending с очисткой полей подтверждения
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("start_time", res.StartTime).
		Set("end_time", res.EndTime).
		Set("expected_attendance", res.ExpectedAttendance).
		Set("purpose", res.Purpose).
		Set("priority", res.Priority).
		Set("status", res.Status).
		Set("approved_by", res.ApprovedBy).
		Set("approved_at", res.ApprovedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Update")
}

// Approve переводит бронирование в approved с записью подтвердившего
func (r *Repository) Approve(ctx context.Context, id int64, approverID int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusApproved).
		Set("approved_by", approverID).
		Set("approved_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Approve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Approve - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Approve")
}

// Reject переводит бронирование в rejected с записью отклонившего и причины
// Переход зашит в сам UPDATE: отклонить можно только pending строку, и
// гонка с параллельным подтверждением не перезапишет approved статус
func (r *Repository) Reject(ctx context.Context, id int64, rejecterID int64, at time.Time, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusRejected).
		Set("rejected_by", rejecterID).
		Set("rejected_at", at).
		Set("rejection_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reject - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reject - execute update: %v", ErrExecQuery, err)
	}

	return checkTransition(result, "Reject")
}

// Cancel отменяет бронирование с указанием причины
// Физическое удаление не поддерживается: отменённые и отклонённые
// бронирования остаются для аудита и статистики
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return checkTransition(result, "Cancel")
}

// UpdateStatus обновляет только статус бронирования (no_show и т.п.)
// from задает статусы, из которых переход разрешен; строка в другом
// статусе не затрагивается и возвращается ErrInvalidTransition
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus, from []domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return checkTransition(result, "UpdateStatus")
}

// CompleteExpired помечает approved бронирования с прошедшим end_time
// как completed, возвращает количество закрытых
func (r *Repository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusApproved}).
		Where(squirrel.LtOrEq{"end_time": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CompleteExpired - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteExpired - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservation сканирует одну строку в бронирование
func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime
	var recurrenceJSON []byte

	err := row.Scan(
		&res.ID,
		&res.ReferenceNumber,
		&res.LabID,
		&res.RequesterID,
		&res.Purpose,
		&res.StartTime,
		&res.EndTime,
		&res.ExpectedAttendance,
		&res.Status,
		&res.Priority,
		&res.ApprovedBy,
		&res.ApprovedAt,
		&res.RejectedBy,
		&res.RejectedAt,
		&res.RejectionReason,
		&res.CancelledAt,
		&res.CancellationReason,
		&res.IsRecurring,
		&recurrenceJSON,
		&res.ParentReservationID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(recurrenceJSON) > 0 {
		var rec domain.Recurrence
		if err := json.Unmarshal(recurrenceJSON, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal recurrence: %v", err)
		}
		res.Recurrence = &rec
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// checkAffected возвращает ErrReservationNotFound, если ни одна строка
// не была обновлена
func checkAffected(result sql.Result, method string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// checkTransition как checkAffected, но для UPDATE со статусным предикатом:
// ноль строк означает, что строка либо отсутствует, либо уже покинула
// исходный статус (например, проиграна гонка параллельному переходу)
func checkTransition(result sql.Result, method string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// marshalRecurrence сериализует описание повторения в JSONB (NULL для nil)
func marshalRecurrence(rec *domain.Recurrence) (interface{}, error) {
	if rec == nil {
		return nil, nil
	}
	return json.Marshal(rec)
}

// isUniqueViolation возвращает true для нарушения unique-ограничения
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
