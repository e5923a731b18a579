package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
	ComplaintStatusRejected   ComplaintStatus = "Rejected"
)

// ValidComplaintStatus reports whether the value is a known status.
func ValidComplaintStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusRejected:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "Low"
	ComplaintPriorityMedium ComplaintPriority = "Medium"
	ComplaintPriorityHigh   ComplaintPriority = "High"
)

// ValidComplaintPriority reports whether the value is a known priority.
func ValidComplaintPriority(p ComplaintPriority) bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh:
		return true
	}
	return false
}

// ComplaintCategory enumerates the campus areas a complaint can target.
type ComplaintCategory string

const (
	CategoryAcademic       ComplaintCategory = "Academic"
	CategoryInfrastructure ComplaintCategory = "Infrastructure"
	CategoryHostel         ComplaintCategory = "Hostel"
	CategoryCanteen        ComplaintCategory = "Canteen"
	CategoryOther          ComplaintCategory = "Other"
)

// Categories lists every complaint category.
var Categories = []ComplaintCategory{
	CategoryAcademic,
	CategoryInfrastructure,
	CategoryHostel,
	CategoryCanteen,
	CategoryOther,
}

// ValidComplaintCategory reports whether the value is a known category.
func ValidComplaintCategory(c ComplaintCategory) bool {
	for _, candidate := range Categories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Complaint is the aggregate for student-submitted issue reports.
type Complaint struct {
	ID          string
	Title       string
	Description string
	Category    ComplaintCategory
	Priority    ComplaintPriority
	Status      ComplaintStatus
	SubmittedBy string
	AssignedTo  *string
	Submitter   *UserRef
	Assignee    *UserRef
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
}

// ApplyStatus transitions the complaint to the given status. ResolvedAt is
// stamped the first time the complaint reaches Resolved and never overwritten
// after that.
func (c *Complaint) ApplyStatus(status ComplaintStatus, now time.Time) {
	c.Status = status
	if status == ComplaintStatusResolved && c.ResolvedAt == nil {
		resolved := now
		c.ResolvedAt = &resolved
	}
	c.UpdatedAt = now
}

// OwnedBy reports whether the given user submitted the complaint.
func (c *Complaint) OwnedBy(userID string) bool {
	return c != nil && c.SubmittedBy == userID
}

// Comment is an entry in a complaint's discussion thread.
type Comment struct {
	ID          string
	ComplaintID string
	Text        string
	AuthorID    string
	Author      *UserRef
	CreatedAt   time.Time
}
