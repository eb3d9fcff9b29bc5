package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/client"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/employee"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/session"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/geo"
	"github.com/google/uuid"
)

type SessionServiceImpl struct {
	session.SessionRepository
	client.ClientRepository
	employee.EmployeeRepository
}

func NewSessionService(
	sessionRepo session.SessionRepository,
	clientRepo client.ClientRepository,
	employeeRepo employee.EmployeeRepository,
) session.SessionService {
	return &SessionServiceImpl{
		SessionRepository:  sessionRepo,
		ClientRepository:   clientRepo,
		EmployeeRepository: employeeRepo,
	}
}

// CheckIn implements session.SessionService. The one-active-session invariant
// is enforced by the session store's partial unique index: the insert below
// either wins or comes back as ErrActiveSessionExists. There is no separate
// existence check, so concurrent attempts for the same employee resolve to
// exactly one winner.
func (s *SessionServiceImpl) CheckIn(ctx context.Context, req session.CheckInRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	assigned, err := s.ClientRepository.IsAssigned(ctx, req.EmployeeID, req.ClientID)
	if err != nil {
		return session.SessionResponse{}, fmt.Errorf("failed to check client assignment: %w", err)
	}
	if !assigned {
		return session.SessionResponse{}, session.ErrClientNotAssigned
	}

	cl, err := s.ClientRepository.GetByID(ctx, req.ClientID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	if cl.GeofenceRadiusM != nil {
		if !geo.WithinRadius(*req.Latitude, *req.Longitude, cl.Latitude, cl.Longitude, float64(*cl.GeofenceRadiusM)) {
			return session.SessionResponse{}, session.ErrOutsideClientRadius
		}
	}

	created, err := s.SessionRepository.Create(ctx, session.Session{
		ID:             uuid.NewString(),
		EmployeeID:     req.EmployeeID,
		ClientID:       req.ClientID,
		Status:         session.StatusActive,
		StartedAt:      time.Now().UTC(),
		StartLatitude:  *req.Latitude,
		StartLongitude: *req.Longitude,
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	return session.ToResponse(created), nil
}

// CheckOut implements session.SessionService.
func (s *SessionServiceImpl) CheckOut(ctx context.Context, req session.CheckOutRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	closed, err := s.SessionRepository.Close(ctx, req.SessionID, req.EmployeeID, time.Now().UTC(), req.Latitude, req.Longitude, nil)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return session.SessionResponse{}, s.classifyCloseFailure(ctx, req.SessionID, req.EmployeeID)
		}
		return session.SessionResponse{}, err
	}

	return session.ToResponse(closed), nil
}

// ForceCheckOut implements session.SessionService.
func (s *SessionServiceImpl) ForceCheckOut(ctx context.Context, req session.ForceCheckOutRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	sess, err := s.SessionRepository.GetByID(ctx, req.SessionID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	onTeam, err := s.EmployeeRepository.IsOnTeam(ctx, req.ManagerID, sess.EmployeeID)
	if err != nil {
		return session.SessionResponse{}, fmt.Errorf("failed to check team membership: %w", err)
	}
	if !onTeam {
		return session.SessionResponse{}, employee.ErrNotOnTeam
	}

	closedBy := req.ManagerID
	closed, err := s.SessionRepository.Close(ctx, req.SessionID, sess.EmployeeID, time.Now().UTC(), nil, nil, &closedBy)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return session.SessionResponse{}, s.classifyCloseFailure(ctx, req.SessionID, sess.EmployeeID)
		}
		return session.SessionResponse{}, err
	}

	return session.ToResponse(closed), nil
}

// classifyCloseFailure distinguishes a missing session from one that was
// already closed, keeping check-out idempotent-safe: a repeat attempt is a
// conflict, never a silent double-close.
func (s *SessionServiceImpl) classifyCloseFailure(ctx context.Context, sessionID string, employeeID string) error {
	existing, err := s.SessionRepository.GetByID(ctx, sessionID)
	if err != nil {
		return session.ErrSessionNotFound
	}
	if existing.EmployeeID != employeeID {
		return session.ErrSessionNotFound
	}
	if existing.Status == session.StatusClosed {
		return session.ErrSessionAlreadyClosed
	}
	return session.ErrSessionNotFound
}

// GetMySessions implements session.SessionService.
func (s *SessionServiceImpl) GetMySessions(ctx context.Context, filter session.MySessionsFilter) (session.ListSessionsResponse, error) {
	if err := filter.Validate(); err != nil {
		return session.ListSessionsResponse{}, err
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	sessions, total, err := s.SessionRepository.ListByEmployee(ctx, filter)
	if err != nil {
		return session.ListSessionsResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]session.SessionResponse, len(sessions))
	for i, sess := range sessions {
		responses[i] = session.ToResponse(sess)
	}

	return session.ListSessionsResponse{
		Sessions: responses,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}
