package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/client"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/employee"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/session"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessionRepo mimics the storage behavior the service depends on: Create
// enforces at most one active session per employee under a lock, exactly as
// the partial unique index does.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]session.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s session.Session) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.sessions {
		if existing.EmployeeID == s.EmployeeID && existing.Status == session.StatusActive {
			return session.Session{}, session.ErrActiveSessionExists
		}
	}
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) Close(ctx context.Context, id string, employeeID string, endedAt time.Time, endLat, endLng *float64, closedBy *string) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.EmployeeID != employeeID || s.Status != session.StatusActive {
		return session.Session{}, session.ErrSessionNotFound
	}
	s.Status = session.StatusClosed
	s.EndedAt = &endedAt
	s.EndLatitude = endLat
	s.EndLongitude = endLng
	s.ClosedBy = closedBy
	s.UpdatedAt = endedAt
	f.sessions[id] = s
	return s, nil
}

func (f *fakeSessionRepo) ListByEmployee(ctx context.Context, filter session.MySessionsFilter) ([]session.Session, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []session.Session
	for _, s := range f.sessions {
		if s.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && s.Status != *filter.Status {
			continue
		}
		result = append(result, s)
	}
	return result, int64(len(result)), nil
}

type fakeClientRepo struct {
	clients     map[string]client.Client
	assignments map[string]map[string]bool // employeeID -> clientID
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{
		clients:     make(map[string]client.Client),
		assignments: make(map[string]map[string]bool),
	}
}

func (f *fakeClientRepo) GetByID(ctx context.Context, id string) (client.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return client.Client{}, client.ErrClientNotFound
	}
	return c, nil
}

func (f *fakeClientRepo) IsAssigned(ctx context.Context, employeeID string, clientID string) (bool, error) {
	return f.assignments[employeeID][clientID], nil
}

func (f *fakeClientRepo) assign(employeeID, clientID string) {
	if f.assignments[employeeID] == nil {
		f.assignments[employeeID] = make(map[string]bool)
	}
	f.assignments[employeeID][clientID] = true
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	teams     map[string][]string // managerID -> employee IDs
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		employees: make(map[string]employee.Employee),
		teams:     make(map[string][]string),
	}
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) ListIDsByManager(ctx context.Context, managerID string) ([]string, error) {
	return f.teams[managerID], nil
}

func (f *fakeEmployeeRepo) IsOnTeam(ctx context.Context, managerID string, employeeID string) (bool, error) {
	for _, id := range f.teams[managerID] {
		if id == employeeID {
			return true, nil
		}
	}
	return false, nil
}

const (
	clientID1 = "5a8f3c21-9d4e-4b7a-8c6f-1e2d3a4b5c6d"
	clientID2 = "6b9e4d32-0e5f-4c8b-9d7a-2f3e4b5c6d7e"
)

func ptr(f float64) *float64 { return &f }

func newTestService() (session.SessionService, *fakeSessionRepo, *fakeClientRepo, *fakeEmployeeRepo) {
	sessionRepo := newFakeSessionRepo()
	clientRepo := newFakeClientRepo()
	employeeRepo := newFakeEmployeeRepo()
	svc := NewSessionService(sessionRepo, clientRepo, employeeRepo)
	return svc, sessionRepo, clientRepo, employeeRepo
}

func TestCheckInSuccess(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1, Latitude: -6.2, Longitude: 106.8}
	clientRepo.assign("emp-1", clientID1)

	resp, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1",
		ClientID:   clientID1,
		Latitude:   ptr(-6.2),
		Longitude:  ptr(106.8),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, session.StatusActive, resp.Status)
	assert.Equal(t, -6.2, resp.StartLatitude)
}

func TestCheckInRejectsMissingCoordinates(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.assign("emp-1", clientID1)

	_, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1",
		ClientID:   clientID1,
		Longitude:  ptr(106.8),
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, validationErrs.ToMap(), "latitude")
}

func TestCheckInRejectsMalformedClientID(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CheckIn(context.Background(), session.CheckInRequest{
		EmployeeID: "emp-1",
		ClientID:   "abc",
		Latitude:   ptr(-6.2),
		Longitude:  ptr(106.8),
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, validationErrs.ToMap(), "client_id")
}

func TestCheckInRejectsUnassignedClient(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}

	_, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1",
		ClientID:   clientID1,
		Latitude:   ptr(-6.2),
		Longitude:  ptr(106.8),
	})

	assert.ErrorIs(t, err, session.ErrClientNotAssigned)
}

func TestCheckInGeofence(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	radius := 100
	clientRepo.clients[clientID1] = client.Client{
		ID:              clientID1,
		Latitude:        -6.2,
		Longitude:       106.8,
		GeofenceRadiusM: &radius,
	}
	clientRepo.assign("emp-1", clientID1)

	// ~1.1km north of the site
	_, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1",
		ClientID:   clientID1,
		Latitude:   ptr(-6.19),
		Longitude:  ptr(106.8),
	})
	assert.ErrorIs(t, err, session.ErrOutsideClientRadius)

	// at the site
	_, err = svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1",
		ClientID:   clientID1,
		Latitude:   ptr(-6.2),
		Longitude:  ptr(106.8),
	})
	assert.NoError(t, err)
}

func TestCheckInSecondActiveSessionConflicts(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.clients[clientID2] = client.Client{ID: clientID2}
	clientRepo.assign("emp-1", clientID1)
	clientRepo.assign("emp-1", clientID2)

	_, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1", ClientID: clientID1,
		Latitude: ptr(-6.2), Longitude: ptr(106.8),
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1", ClientID: clientID2,
		Latitude: ptr(-6.2), Longitude: ptr(106.8),
	})
	assert.ErrorIs(t, err, session.ErrActiveSessionExists)
}

func TestCheckInConcurrentAttemptsSingleWinner(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.assign("emp-1", clientID1)

	const attempts = 20
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(ctx, session.CheckInRequest{
				EmployeeID: "emp-1", ClientID: clientID1,
				Latitude: ptr(-6.2), Longitude: ptr(106.8),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	winners, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, session.ErrActiveSessionExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, attempts-1, conflicts)
}

func TestCheckOutSuccess(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.assign("emp-1", clientID1)

	created, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1", ClientID: clientID1,
		Latitude: ptr(-6.2), Longitude: ptr(106.8),
	})
	require.NoError(t, err)

	closed, err := svc.CheckOut(ctx, session.CheckOutRequest{
		EmployeeID: "emp-1",
		SessionID:  created.ID,
		Latitude:   ptr(-6.21),
		Longitude:  ptr(106.81),
	})

	require.NoError(t, err)
	assert.Equal(t, session.StatusClosed, closed.Status)
	require.NotNil(t, closed.EndedAt)
	require.NotNil(t, closed.EndLatitude)
	assert.Equal(t, -6.21, *closed.EndLatitude)
}

func TestCheckOutWithoutEndCoordinates(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.assign("emp-1", clientID1)

	created, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1", ClientID: clientID1,
		Latitude: ptr(-6.2), Longitude: ptr(106.8),
	})
	require.NoError(t, err)

	closed, err := svc.CheckOut(ctx, session.CheckOutRequest{
		EmployeeID: "emp-1",
		SessionID:  created.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, session.StatusClosed, closed.Status)
	assert.Nil(t, closed.EndLatitude)
	assert.Nil(t, closed.EndLongitude)
}

func TestCheckOutAlreadyClosed(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.assign("emp-1", clientID1)

	created, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1", ClientID: clientID1,
		Latitude: ptr(-6.2), Longitude: ptr(106.8),
	})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, session.CheckOutRequest{EmployeeID: "emp-1", SessionID: created.ID})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, session.CheckOutRequest{EmployeeID: "emp-1", SessionID: created.ID})
	assert.ErrorIs(t, err, session.ErrSessionAlreadyClosed)
}

func TestCheckOutUnknownSession(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CheckOut(context.Background(), session.CheckOutRequest{
		EmployeeID: "emp-1",
		SessionID:  "018f6f2a-4c1d-4e2b-8a3c-5d6e7f8a9b0c",
	})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestCheckOutRejectsMalformedSessionID(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CheckOut(context.Background(), session.CheckOutRequest{
		EmployeeID: "emp-1",
		SessionID:  "not-a-uuid",
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, validationErrs.ToMap(), "session_id")
}

func TestCheckOutOtherEmployeesSession(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.assign("emp-1", clientID1)

	created, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1", ClientID: clientID1,
		Latitude: ptr(-6.2), Longitude: ptr(106.8),
	})
	require.NoError(t, err)

	// Another employee must not be able to close it, and must not learn it exists.
	_, err = svc.CheckOut(ctx, session.CheckOutRequest{EmployeeID: "emp-2", SessionID: created.ID})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestForceCheckOut(t *testing.T) {
	svc, _, clientRepo, employeeRepo := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.assign("emp-1", clientID1)
	employeeRepo.teams["mgr-1"] = []string{"emp-1"}

	created, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1", ClientID: clientID1,
		Latitude: ptr(-6.2), Longitude: ptr(106.8),
	})
	require.NoError(t, err)

	closed, err := svc.ForceCheckOut(ctx, session.ForceCheckOutRequest{
		ManagerID: "mgr-1",
		SessionID: created.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, session.StatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedBy)
	assert.Equal(t, "mgr-1", *closed.ClosedBy)
}

func TestForceCheckOutRequiresTeamMembership(t *testing.T) {
	svc, _, clientRepo, employeeRepo := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.assign("emp-1", clientID1)
	employeeRepo.teams["mgr-2"] = []string{"emp-9"}

	created, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1", ClientID: clientID1,
		Latitude: ptr(-6.2), Longitude: ptr(106.8),
	})
	require.NoError(t, err)

	_, err = svc.ForceCheckOut(ctx, session.ForceCheckOutRequest{
		ManagerID: "mgr-2",
		SessionID: created.ID,
	})
	assert.ErrorIs(t, err, employee.ErrNotOnTeam)
}

func TestGetMySessionsDefaultsPagination(t *testing.T) {
	svc, _, clientRepo, _ := newTestService()
	ctx := context.Background()

	clientRepo.clients[clientID1] = client.Client{ID: clientID1}
	clientRepo.assign("emp-1", clientID1)

	_, err := svc.CheckIn(ctx, session.CheckInRequest{
		EmployeeID: "emp-1", ClientID: clientID1,
		Latitude: ptr(-6.2), Longitude: ptr(106.8),
	})
	require.NoError(t, err)

	result, err := svc.GetMySessions(ctx, session.MySessionsFilter{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.Limit)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Sessions, 1)
}

func TestGetMySessionsRejectsBadStatus(t *testing.T) {
	svc, _, _, _ := newTestService()

	bad := "pending"
	_, err := svc.GetMySessions(context.Background(), session.MySessionsFilter{
		EmployeeID: "emp-1",
		Status:     &bad,
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, validationErrs.ToMap(), "status")
}
