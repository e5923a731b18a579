package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campus-desk/complaint-service/internal/auth"
	"github.com/campus-desk/complaint-service/internal/config"
	"github.com/campus-desk/complaint-service/internal/domain"
	"github.com/campus-desk/complaint-service/internal/repository"
)

const (
	seedUserEmailPrefix     = "test."
	seedComplaintPrefix     = "Test "
	seedFixtureReporterMail = "test.reporter@example.com"
)

// SeedService provides the test-data utilities behind the /seed routes.
type SeedService struct {
	users      repository.UserRepository
	complaints repository.ComplaintRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewSeedService builds the service.
func NewSeedService(cfg config.Config, users repository.UserRepository, complaints repository.ComplaintRepository, logger *zap.Logger) *SeedService {
	return &SeedService{
		users:      users,
		complaints: complaints,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// Seed clears previous test data, then inserts two test students and twenty
// randomized complaints spread over the past thirty days.
func (s *SeedService) Seed(ctx context.Context) error {
	if err := s.complaints.DeleteByTitlePrefix(ctx, seedComplaintPrefix); err != nil {
		return err
	}
	if err := s.users.DeleteByEmailPrefix(ctx, seedUserEmailPrefix); err != nil {
		return err
	}

	hash, err := auth.HashPassword("password123", s.bcryptCost)
	if err != nil {
		return err
	}

	students := []*domain.User{
		{Name: "Test Student 1", Email: "test.student1@example.com", PasswordHash: hash, Department: "Computer Science", Role: domain.RoleStudent},
		{Name: "Test Student 2", Email: "test.student2@example.com", PasswordHash: hash, Department: "Electronics", Role: domain.RoleStudent},
	}
	for _, student := range students {
		if err := s.users.Create(ctx, student); err != nil {
			return err
		}
	}

	priorities := []domain.ComplaintPriority{domain.ComplaintPriorityLow, domain.ComplaintPriorityMedium, domain.ComplaintPriorityHigh}
	statuses := []domain.ComplaintStatus{domain.ComplaintStatusPending, domain.ComplaintStatusInProgress, domain.ComplaintStatusResolved, domain.ComplaintStatusRejected}

	complaints := make([]domain.Complaint, 0, 20)
	for i := 0; i < 20; i++ {
		createdAt := time.Now().Add(-time.Duration(rand.Intn(30)) * 24 * time.Hour)
		status := statuses[rand.Intn(len(statuses))]
		complaint := domain.Complaint{
			Title:       fmt.Sprintf("Test Complaint %d", i+1),
			Description: fmt.Sprintf("This is a test complaint description %d", i+1),
			Category:    domain.Categories[rand.Intn(len(domain.Categories))],
			Priority:    priorities[rand.Intn(len(priorities))],
			Status:      status,
			SubmittedBy: students[rand.Intn(len(students))].ID,
			CreatedAt:   createdAt,
		}
		if status == domain.ComplaintStatusResolved {
			resolvedAt := createdAt.Add(time.Duration(1+rand.Intn(72)) * time.Hour)
			complaint.ResolvedAt = &resolvedAt
		}
		complaints = append(complaints, complaint)
	}

	if err := s.complaints.BulkInsert(ctx, complaints); err != nil {
		return err
	}
	s.logger.Info("test data seeded", zap.Int("complaints", len(complaints)))
	return nil
}

// AddFixtureComplaints bulk-inserts a fixed complaint set under a dedicated
// reporter account, creating the account if needed.
func (s *SeedService) AddFixtureComplaints(ctx context.Context) (int, error) {
	reporter, err := s.users.GetByEmail(ctx, seedFixtureReporterMail)
	if err == pgx.ErrNoRows {
		hash, hashErr := auth.HashPassword("password123", s.bcryptCost)
		if hashErr != nil {
			return 0, hashErr
		}
		reporter = &domain.User{
			Name:         "Test Reporter",
			Email:        seedFixtureReporterMail,
			PasswordHash: hash,
			Department:   "Administration",
			Role:         domain.RoleStudent,
		}
		if err := s.users.Create(ctx, reporter); err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	fixtures := fixtureComplaints(reporter.ID, time.Now())
	if err := s.complaints.BulkInsert(ctx, fixtures); err != nil {
		return 0, err
	}
	return len(fixtures), nil
}
