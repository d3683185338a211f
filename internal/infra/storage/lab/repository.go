package lab

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	"github.com/m04kA/LRS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LRS-BookingService/pkg/psqlbuilder"
)

// DBExecutor переиспользуем интерфейс из dbmetrics
type DBExecutor = dbmetrics.DBExecutor

var labColumns = []string{
	"id",
	"name",
	"description",
	"owner_id",
	"capacity",
	"active",
	"under_maintenance",
	"operating_hours",
	"booking_rules",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога лабораторий
// Расписание и правила хранятся как JSONB; чтение всегда идёт в БД,
// кэширование между запросами не допускается - ограничения проверяются
// по последней зафиксированной конфигурации
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория лабораторий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую лабораторию
func (r *Repository) Create(ctx context.Context, lab *domain.Lab) (*domain.Lab, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	hoursJSON, err := json.Marshal(lab.Hours)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal operating hours: %v", ErrBuildQuery, err)
	}
	rulesJSON, err := json.Marshal(lab.Rules)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal booking rules: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("labs").
		Columns(
			"name",
			"description",
			"owner_id",
			"capacity",
			"active",
			"under_maintenance",
			"operating_hours",
			"booking_rules",
		).
		Values(
			lab.Name,
			lab.Description,
			lab.OwnerID,
			lab.Capacity,
			lab.Active,
			lab.UnderMaintenance,
			hoursJSON,
			rulesJSON,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&lab.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	lab.CreatedAt = createdAt.Time
	lab.UpdatedAt = updatedAt.Time

	return lab, nil
}

// GetByID получает лабораторию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Lab, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(labColumns...).
		From("labs").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	lab, err := scanLab(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLabNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lab: %v", ErrScanRow, err)
	}

	return lab, nil
}

// List получает все лаборатории
// onlyBookable фильтрует активные и не находящиеся на обслуживании
func (r *Repository) List(ctx context.Context, onlyBookable bool) ([]*domain.Lab, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(labColumns...).
		From("labs").
		OrderBy("name ASC")

	if onlyBookable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{
			"active":            true,
			"under_maintenance": false,
		})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	labs := make([]*domain.Lab, 0)
	for rows.Next() {
		lab, err := scanLab(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		labs = append(labs, lab)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return labs, nil
}

// Update обновляет лабораторию целиком
func (r *Repository) Update(ctx context.Context, lab *domain.Lab) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	hoursJSON, err := json.Marshal(lab.Hours)
	if err != nil {
		return fmt.Errorf("%w: Update - marshal operating hours: %v", ErrBuildQuery, err)
	}
	rulesJSON, err := json.Marshal(lab.Rules)
	if err != nil {
		return fmt.Errorf("%w: Update - marshal booking rules: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update("labs").
		Set("name", lab.Name).
		Set("description", lab.Description).
		Set("capacity", lab.Capacity).
		Set("active", lab.Active).
		Set("under_maintenance", lab.UnderMaintenance).
		Set("operating_hours", hoursJSON).
		Set("booking_rules", rulesJSON).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lab.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrLabNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanLab сканирует строку в лабораторию, разворачивая JSONB-поля
func scanLab(row rowScanner) (*domain.Lab, error) {
	var lab domain.Lab
	var createdAt, updatedAt sql.NullTime
	var hoursJSON, rulesJSON []byte

	err := row.Scan(
		&lab.ID,
		&lab.Name,
		&lab.Description,
		&lab.OwnerID,
		&lab.Capacity,
		&lab.Active,
		&lab.UnderMaintenance,
		&hoursJSON,
		&rulesJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(hoursJSON, &lab.Hours); err != nil {
		return nil, fmt.Errorf("unmarshal operating hours: %v", err)
	}
	if err := json.Unmarshal(rulesJSON, &lab.Rules); err != nil {
		return nil, fmt.Errorf("unmarshal booking rules: %v", err)
	}

	lab.CreatedAt = createdAt.Time
	lab.UpdatedAt = updatedAt.Time

	return &lab, nil
}
