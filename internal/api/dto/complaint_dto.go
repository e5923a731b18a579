package dto

import (
	"time"

	"github.com/campus-desk/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
}

// SetStatusRequest payload.
type SetStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// UserRefResponse is the embedded reference to a user.
type UserRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommentResponse is one entry of a complaint thread.
type CommentResponse struct {
	ID        string           `json:"id"`
	Text      string           `json:"text"`
	User      *UserRefResponse `json:"user"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ComplaintResponse is the full complaint shape.
type ComplaintResponse struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Category    domain.ComplaintCategory  `json:"category"`
	Priority    domain.ComplaintPriority  `json:"priority"`
	Status      domain.ComplaintStatus    `json:"status"`
	SubmittedBy *UserRefResponse          `json:"submittedBy"`
	AssignedTo  *UserRefResponse          `json:"assignedTo,omitempty"`
	Comments    []CommentResponse         `json:"comments"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
	ResolvedAt  *time.Time                `json:"resolvedAt,omitempty"`
}

// ComplaintPageResponse wraps the paginated admin listing.
type ComplaintPageResponse struct {
	Complaints      []ComplaintResponse `json:"complaints"`
	TotalComplaints int                 `json:"totalComplaints"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(complaint *domain.Complaint) ComplaintResponse {
	comments := make([]CommentResponse, 0, len(complaint.Comments))
	for i := range complaint.Comments {
		comments = append(comments, newCommentResponse(&complaint.Comments[i]))
	}
	return ComplaintResponse{
		ID:          complaint.ID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    complaint.Category,
		Priority:    complaint.Priority,
		Status:      complaint.Status,
		SubmittedBy: newUserRefResponse(complaint.Submitter),
		AssignedTo:  newUserRefResponse(complaint.Assignee),
		Comments:    comments,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
		ResolvedAt:  complaint.ResolvedAt,
	}
}

// NewComplaintResponses maps a slice of complaints.
func NewComplaintResponses(complaints []domain.Complaint) []ComplaintResponse {
	items := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, NewComplaintResponse(&complaints[i]))
	}
	return items
}

func newCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Text:      comment.Text,
		User:      newUserRefResponse(comment.Author),
		CreatedAt: comment.CreatedAt,
	}
}

func newUserRefResponse(ref *domain.UserRef) *UserRefResponse {
	if ref == nil {
		return nil
	}
	return &UserRefResponse{ID: ref.ID, Name: ref.Name, Email: ref.Email}
}
