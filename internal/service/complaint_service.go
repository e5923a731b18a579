package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-desk/complaint-service/internal/auth"
	"github.com/campus-desk/complaint-service/internal/domain"
	"github.com/campus-desk/complaint-service/internal/events"
	"github.com/campus-desk/complaint-service/internal/repository"
	apperrors "github.com/campus-desk/complaint-service/pkg/util"
)

// defaultAdminPageSize and maxPageSize bound admin pagination.
const (
	defaultAdminPageSize = 10
	maxPageSize          = 100
)

// ComplaintService coordinates complaint workflows.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    domain.ComplaintCategory
	Priority    domain.ComplaintPriority
}

// ComplaintListFilter describes listing filters shared by both list endpoints.
type ComplaintListFilter struct {
	Status   *domain.ComplaintStatus
	Category *domain.ComplaintCategory
	Priority *domain.ComplaintPriority
}

// NewComplaintService constructs the service.
func NewComplaintService(complaints repository.ComplaintRepository, dispatcher events.Dispatcher) *ComplaintService {
	return &ComplaintService{complaints: complaints, dispatcher: dispatcher}
}

// List returns complaints visible to the caller, newest first. Non-admin
// callers only ever see their own submissions regardless of filters.
func (s *ComplaintService) List(ctx context.Context, caller *auth.Principal, filter ComplaintListFilter) ([]domain.Complaint, error) {
	repoFilter := repository.ComplaintFilter{
		Status:   filter.Status,
		Category: filter.Category,
		Priority: filter.Priority,
	}
	if !auth.CanAccess(caller, auth.ActionComplaintListAll, nil) {
		id := caller.User.ID
		repoFilter.SubmittedBy = &id
	}
	return s.complaints.ListWithFilter(ctx, repoFilter)
}

// ListPaged returns a page of complaints plus the total match count. Admin
// callers only; the route guard enforces that, the page size cap lives here.
func (s *ComplaintService) ListPaged(ctx context.Context, filter ComplaintListFilter, page, limit int) ([]domain.Complaint, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultAdminPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	repoFilter := repository.ComplaintFilter{
		Status:   filter.Status,
		Category: filter.Category,
		Priority: filter.Priority,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	complaints, err := s.complaints.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.complaints.CountWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

// Create validates and stores a new complaint owned by the caller. The
// submitter is always the caller; a submittedBy in the payload is ignored.
func (s *ComplaintService) Create(ctx context.Context, caller *auth.Principal, input ComplaintCreateInput) (*domain.Complaint, error) {
	if err := validateComplaintInput(input); err != nil {
		return nil, err
	}

	complaint := &domain.Complaint{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.ComplaintStatusPending,
		SubmittedBy: caller.User.ID,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       actorFor(caller),
		Payload: events.ComplaintCreatedPayload{
			Title:    complaint.Title,
			Category: complaint.Category,
			Priority: complaint.Priority,
		},
	})
	return complaint, nil
}

// Delete removes a complaint. Only the original submitter may delete it;
// every other caller, admins included, is rejected as unauthorized.
func (s *ComplaintService) Delete(ctx context.Context, caller *auth.Principal, id string) error {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return err
	}

	if !auth.CanAccess(caller, auth.ActionComplaintDelete, complaint) {
		return apperrors.NewUnauthorized("You are not authorized to delete this complaint")
	}

	if err := s.complaints.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ComplaintID: id,
		Actor:       actorFor(caller),
	})
	return nil
}

// SetStatus transitions a complaint to the given status and returns the
// updated record. ResolvedAt stamping happens in the domain transition.
func (s *ComplaintService) SetStatus(ctx context.Context, caller *auth.Principal, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if !auth.CanAccess(caller, auth.ActionComplaintSetStatus, nil) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if !domain.ValidComplaintStatus(status) {
		return nil, apperrors.NewValidationError("Invalid status", map[string]any{"status": status})
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, err
	}

	oldStatus := complaint.Status
	complaint.ApplyStatus(status, time.Now())
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       actorFor(caller),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return complaint, nil
}

// AddComment appends a comment authored by the caller and returns the updated
// complaint with its full thread.
func (s *ComplaintService) AddComment(ctx context.Context, caller *auth.Principal, id, text string) (*domain.Complaint, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("Comment text is required", nil)
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, err
	}

	comment := &domain.Comment{
		ComplaintID: complaint.ID,
		Text:        text,
		AuthorID:    caller.User.ID,
	}
	if err := s.complaints.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCommentAdded,
		ComplaintID: complaint.ID,
		Actor:       actorFor(caller),
		Payload: events.ComplaintCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    comment.AuthorID,
			BodyPreview: stringPreview(text, 80),
		},
	})

	return s.complaints.GetByID(ctx, complaint.ID)
}

func validateComplaintInput(input ComplaintCreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidationError("Title is required", nil)
	}
	if strings.TrimSpace(input.Description) == "" {
		return apperrors.NewValidationError("Description is required", nil)
	}
	if input.Category == "" {
		return apperrors.NewValidationError("Category is required", nil)
	}
	if !domain.ValidComplaintCategory(input.Category) {
		return apperrors.NewValidationError("Invalid category", map[string]any{"category": input.Category})
	}
	if input.Priority == "" {
		return apperrors.NewValidationError("Priority is required", nil)
	}
	if !domain.ValidComplaintPriority(input.Priority) {
		return apperrors.NewValidationError("Invalid priority", map[string]any{"priority": input.Priority})
	}
	return nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(caller *auth.Principal) events.Actor {
	return events.Actor{UserID: caller.User.ID, Role: caller.User.Role}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
