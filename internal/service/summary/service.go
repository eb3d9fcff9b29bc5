package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/employee"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/summary"
)

type SummaryServiceImpl struct {
	summary.SummaryRepository
	employee.EmployeeRepository
}

func NewSummaryService(
	summaryRepo summary.SummaryRepository,
	employeeRepo employee.EmployeeRepository,
) summary.SummaryService {
	return &SummaryServiceImpl{
		SummaryRepository:  summaryRepo,
		EmployeeRepository: employeeRepo,
	}
}

// DailySummary implements summary.SummaryService. The day window is computed
// here as [midnight, next midnight) UTC and passed to SQL as absolute
// timestamps. When an employee filter is present the team block covers just
// the filtered set.
func (s *SummaryServiceImpl) DailySummary(ctx context.Context, req summary.DailySummaryRequest) (summary.DailySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return summary.DailySummaryResponse{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		// Validate already checked the format; treat a parse failure here as a bug
		return summary.DailySummaryResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	if req.EmployeeID != nil {
		onTeam, err := s.EmployeeRepository.IsOnTeam(ctx, req.ManagerID, *req.EmployeeID)
		if err != nil {
			return summary.DailySummaryResponse{}, fmt.Errorf("failed to check team membership: %w", err)
		}
		if !onTeam {
			return summary.DailySummaryResponse{}, employee.ErrNotOnTeam
		}
	}

	perEmployee, err := s.SummaryRepository.DailyPerEmployee(ctx, req.ManagerID, dayStart, dayEnd, req.EmployeeID)
	if err != nil {
		return summary.DailySummaryResponse{}, err
	}

	team := summary.TeamDailyResponse{
		Date:      req.Date,
		Employees: len(perEmployee),
	}
	responses := make([]summary.EmployeeDailyResponse, len(perEmployee))
	for i, d := range perEmployee {
		team.Checkins += d.Checkins
		team.TotalHours += d.TotalHours
		responses[i] = summary.EmployeeDailyResponse{
			EmployeeID:      d.EmployeeID,
			EmployeeName:    d.EmployeeName,
			Checkins:        d.Checkins,
			DistinctClients: d.DistinctClients,
			TotalHours:      d.TotalHours,
		}
	}

	// Distinct clients must be deduplicated across employees, which the
	// per-employee rows cannot provide.
	if req.EmployeeID != nil {
		if len(perEmployee) == 1 {
			team.DistinctClients = perEmployee[0].DistinctClients
		}
	} else {
		teamClients, err := s.SummaryRepository.DailyTeamClients(ctx, req.ManagerID, dayStart, dayEnd)
		if err != nil {
			return summary.DailySummaryResponse{}, err
		}
		team.DistinctClients = teamClients
	}

	return summary.DailySummaryResponse{
		Team:        team,
		PerEmployee: responses,
	}, nil
}
