package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/session"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// sessions_one_active is a partial unique index on (employee_id) where
// status = 'active'. The insert in Create either wins or violates it; the
// active-session invariant is never checked in application code.
const activeSessionConstraint = "sessions_one_active"

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepository{db: db}
}

// Create implements session.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, s session.Session) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sessions (
			id, employee_id, client_id, status, started_at,
			start_latitude, start_longitude
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID,
		s.EmployeeID,
		s.ClientID,
		s.Status,
		s.StartedAt,
		s.StartLatitude,
		s.StartLongitude,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == activeSessionConstraint {
			return session.Session{}, session.ErrActiveSessionExists
		}
		return session.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return s, nil
}

// GetByID implements session.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.employee_id, s.client_id, s.status, s.started_at, s.ended_at,
			   s.start_latitude, s.start_longitude, s.end_latitude, s.end_longitude,
			   s.closed_by, s.created_at, s.updated_at,
			   e.full_name AS employee_name,
			   c.name AS client_name
		FROM sessions s
		LEFT JOIN employees e ON e.id = s.employee_id
		LEFT JOIN clients c ON c.id = s.client_id
		WHERE s.id = $1
	`

	var s session.Session
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.EmployeeID, &s.ClientID, &s.Status, &s.StartedAt, &s.EndedAt,
		&s.StartLatitude, &s.StartLongitude, &s.EndLatitude, &s.EndLongitude,
		&s.ClosedBy, &s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName, &s.ClientName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to get session by ID: %w", err)
	}

	return s, nil
}

// Close implements session.SessionRepository.
func (r *sessionRepository) Close(ctx context.Context, id string, employeeID string, endedAt time.Time, endLat, endLng *float64, closedBy *string) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE sessions
		SET status = $1,
			ended_at = $2,
			end_latitude = $3,
			end_longitude = $4,
			closed_by = $5,
			updated_at = $6
		WHERE id = $7
		  AND employee_id = $8
		  AND status = $9
		RETURNING id, employee_id, client_id, status, started_at, ended_at,
				  start_latitude, start_longitude, end_latitude, end_longitude,
				  closed_by, created_at, updated_at
	`

	var s session.Session
	err := q.QueryRow(ctx, query,
		session.StatusClosed,
		endedAt,
		endLat,
		endLng,
		closedBy,
		time.Now().UTC(),
		id,
		employeeID,
		session.StatusActive,
	).Scan(
		&s.ID, &s.EmployeeID, &s.ClientID, &s.Status, &s.StartedAt, &s.EndedAt,
		&s.StartLatitude, &s.StartLongitude, &s.EndLatitude, &s.EndLongitude,
		&s.ClosedBy, &s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to close session: %w", err)
	}

	return s, nil
}

// ListByEmployee implements session.SessionRepository.
func (r *sessionRepository) ListByEmployee(ctx context.Context, filter session.MySessionsFilter) ([]session.Session, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "s.employee_id = $1"
	args := []interface{}{filter.EmployeeID}
	argIdx := 2

	// Date-range filters compare against the session's start date
	if filter.StartDate != nil && *filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", *filter.StartDate)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid start_date filter: %w", err)
		}
		baseWhere += fmt.Sprintf(" AND s.started_at >= $%d", argIdx)
		args = append(args, start)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", *filter.EndDate)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid end_date filter: %w", err)
		}
		baseWhere += fmt.Sprintf(" AND s.started_at < $%d", argIdx)
		args = append(args, end.AddDate(0, 0, 1))
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND s.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM sessions s WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT s.id, s.employee_id, s.client_id, s.status, s.started_at, s.ended_at,
			   s.start_latitude, s.start_longitude, s.end_latitude, s.end_longitude,
			   s.closed_by, s.created_at, s.updated_at,
			   e.full_name AS employee_name,
			   c.name AS client_name
		FROM sessions s
		LEFT JOIN employees e ON e.id = s.employee_id
		LEFT JOIN clients c ON c.id = s.client_id
		WHERE %s
		ORDER BY s.started_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	offset := (page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		var s session.Session
		err := rows.Scan(
			&s.ID, &s.EmployeeID, &s.ClientID, &s.Status, &s.StartedAt, &s.EndedAt,
			&s.StartLatitude, &s.StartLongitude, &s.EndLatitude, &s.EndLongitude,
			&s.ClosedBy, &s.CreatedAt, &s.UpdatedAt,
			&s.EmployeeName, &s.ClientName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, total, nil
}
