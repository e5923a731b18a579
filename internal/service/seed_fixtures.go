package service

import (
	"time"

	"github.com/campus-desk/complaint-service/internal/domain"
)

// fixtureComplaints is a fixed demo set covering every category and status so
// freshly seeded dashboards have something to chart.
func fixtureComplaints(reporterID string, now time.Time) []domain.Complaint {
	daysAgo := func(days int) time.Time {
		return now.Add(-time.Duration(days) * 24 * time.Hour)
	}
	resolvedAfter := func(created time.Time, hours int) *time.Time {
		t := created.Add(time.Duration(hours) * time.Hour)
		return &t
	}

	type fixture struct {
		title         string
		description   string
		category      domain.ComplaintCategory
		priority      domain.ComplaintPriority
		status        domain.ComplaintStatus
		ageDays       int
		resolvedHours int
	}

	rows := []fixture{
		{"Test Projector broken in LH-3", "The projector flickers and shuts off mid-lecture.", domain.CategoryAcademic, domain.ComplaintPriorityHigh, domain.ComplaintStatusResolved, 12, 30},
		{"Test Library AC not working", "Reading hall AC has been off for a week.", domain.CategoryInfrastructure, domain.ComplaintPriorityMedium, domain.ComplaintStatusInProgress, 9, 0},
		{"Test Hostel water leakage", "Water leaking from the ceiling in block B.", domain.CategoryHostel, domain.ComplaintPriorityHigh, domain.ComplaintStatusPending, 5, 0},
		{"Test Canteen food quality", "Lunch served cold on multiple days.", domain.CategoryCanteen, domain.ComplaintPriorityLow, domain.ComplaintStatusResolved, 20, 96},
		{"Test Wifi outage in lab 2", "No connectivity during practical sessions.", domain.CategoryInfrastructure, domain.ComplaintPriorityHigh, domain.ComplaintStatusResolved, 15, 12},
		{"Test Lost and found desk unmanned", "Nobody at the desk during posted hours.", domain.CategoryOther, domain.ComplaintPriorityLow, domain.ComplaintStatusRejected, 7, 0},
		{"Test Exam schedule clash", "Two exams scheduled in the same slot.", domain.CategoryAcademic, domain.ComplaintPriorityMedium, domain.ComplaintStatusPending, 3, 0},
		{"Test Hostel mess timings", "Dinner closes before evening labs end.", domain.CategoryHostel, domain.ComplaintPriorityMedium, domain.ComplaintStatusInProgress, 4, 0},
		{"Test Canteen billing error", "Charged twice for the same order.", domain.CategoryCanteen, domain.ComplaintPriorityMedium, domain.ComplaintStatusResolved, 10, 48},
		{"Test Parking lot lighting", "Lights out near the east gate lot.", domain.CategoryOther, domain.ComplaintPriorityLow, domain.ComplaintStatusPending, 2, 0},
	}

	complaints := make([]domain.Complaint, 0, len(rows))
	for _, row := range rows {
		createdAt := daysAgo(row.ageDays)
		complaint := domain.Complaint{
			Title:       row.title,
			Description: row.description,
			Category:    row.category,
			Priority:    row.priority,
			Status:      row.status,
			SubmittedBy: reporterID,
			CreatedAt:   createdAt,
		}
		if row.status == domain.ComplaintStatusResolved && row.resolvedHours > 0 {
			complaint.ResolvedAt = resolvedAfter(createdAt, row.resolvedHours)
		}
		complaints = append(complaints, complaint)
	}
	return complaints
}
