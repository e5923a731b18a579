package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-desk/complaint-service/internal/domain"
)

// ComplaintFilter captures listing parameters.
type ComplaintFilter struct {
	SubmittedBy *string
	Status      *domain.ComplaintStatus
	Category    *domain.ComplaintCategory
	Priority    *domain.ComplaintPriority
	Limit       int
	Offset      int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	CountWithFilter(ctx context.Context, filter ComplaintFilter) (int, error)
	AddComment(ctx context.Context, comment *domain.Comment) error
	ListComments(ctx context.Context, complaintID string) ([]domain.Comment, error)
	BulkInsert(ctx context.Context, complaints []domain.Complaint) error
	DeleteByTitlePrefix(ctx context.Context, prefix string) error
}

const complaintColumns = `
        c.id, c.title, c.description, c.category, c.priority, c.status,
        c.submitted_by, c.assigned_to, c.created_at, c.updated_at, c.resolved_at,
        s.name, s.email, a.id, a.name, a.email`

const complaintJoins = `
        FROM complaints c
        JOIN users s ON s.id = c.submitted_by
        LEFT JOIN users a ON a.id = c.assigned_to`

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, category, priority, status, submitted_by, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.SubmittedBy,
		complaint.AssignedTo,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET title=$1, description=$2, category=$3, priority=$4,
            status=$5, assigned_to=$6, resolved_at=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.AssignedTo,
		complaint.ResolvedAt,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + complaintJoins + ` WHERE c.id=$1`

	var complaint domain.Complaint
	if err := r.scanComplaint(r.pool.QueryRow(ctx, query, id), &complaint); err != nil {
		return nil, err
	}

	comments, err := r.ListComments(ctx, complaint.ID)
	if err != nil {
		return nil, err
	}
	complaint.Comments = comments
	return &complaint, nil
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM complaints WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses, args := complaintFilterClauses(filter)

	query := `SELECT ` + complaintColumns + complaintJoins +
		` WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY c.created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := r.scanComplaint(rows, &complaint); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) > 0 {
		ids := make([]string, len(result))
		for i := range result {
			ids[i] = result[i].ID
		}
		threads, err := r.commentsByComplaint(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range result {
			result[i].Comments = threads[result[i].ID]
		}
	}
	return result, nil
}

func (r *complaintRepository) CountWithFilter(ctx context.Context, filter ComplaintFilter) (int, error) {
	clauses, args := complaintFilterClauses(filter)
	query := `SELECT COUNT(*) FROM complaints c WHERE ` + strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func complaintFilterClauses(filter ComplaintFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SubmittedBy != nil {
		args = append(args, *filter.SubmittedBy)
		clauses = append(clauses, fmt.Sprintf("c.submitted_by=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("c.status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("c.category=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("c.priority=$%d", len(args)))
	}
	return clauses, args
}

// scannable covers both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func (r *complaintRepository) scanComplaint(row scannable, complaint *domain.Complaint) error {
	var (
		submitterName  string
		submitterEmail string
		assigneeID     *string
		assigneeName   *string
		assigneeEmail  *string
	)
	if err := row.Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Status,
		&complaint.SubmittedBy,
		&complaint.AssignedTo,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.ResolvedAt,
		&submitterName,
		&submitterEmail,
		&assigneeID,
		&assigneeName,
		&assigneeEmail,
	); err != nil {
		return err
	}
	complaint.Submitter = &domain.UserRef{ID: complaint.SubmittedBy, Name: submitterName, Email: submitterEmail}
	if assigneeID != nil {
		complaint.Assignee = &domain.UserRef{ID: *assigneeID, Name: deref(assigneeName), Email: deref(assigneeEmail)}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *complaintRepository) AddComment(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO complaint_comments (complaint_id, author_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.ComplaintID,
		comment.AuthorID,
		comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *complaintRepository) ListComments(ctx context.Context, complaintID string) ([]domain.Comment, error) {
	const query = `
        SELECT cc.id, cc.complaint_id, cc.body, cc.author_id, u.name, u.email, cc.created_at
        FROM complaint_comments cc
        JOIN users u ON u.id = cc.author_id
        WHERE cc.complaint_id=$1
        ORDER BY cc.created_at ASC`

	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var (
			comment     domain.Comment
			authorName  string
			authorEmail string
		)
		if err := rows.Scan(
			&comment.ID,
			&comment.ComplaintID,
			&comment.Text,
			&comment.AuthorID,
			&authorName,
			&authorEmail,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comment.Author = &domain.UserRef{ID: comment.AuthorID, Name: authorName, Email: authorEmail}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// commentsByComplaint loads the threads for a batch of complaints in one
// query, keyed by complaint id.
func (r *complaintRepository) commentsByComplaint(ctx context.Context, complaintIDs []string) (map[string][]domain.Comment, error) {
	const query = `
        SELECT cc.id, cc.complaint_id, cc.body, cc.author_id, u.name, u.email, cc.created_at
        FROM complaint_comments cc
        JOIN users u ON u.id = cc.author_id
        WHERE cc.complaint_id = ANY($1)
        ORDER BY cc.created_at ASC`

	rows, err := r.pool.Query(ctx, query, complaintIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := make(map[string][]domain.Comment)
	for rows.Next() {
		var (
			comment     domain.Comment
			authorName  string
			authorEmail string
		)
		if err := rows.Scan(
			&comment.ID,
			&comment.ComplaintID,
			&comment.Text,
			&comment.AuthorID,
			&authorName,
			&authorEmail,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comment.Author = &domain.UserRef{ID: comment.AuthorID, Name: authorName, Email: authorEmail}
		threads[comment.ComplaintID] = append(threads[comment.ComplaintID], comment)
	}
	return threads, rows.Err()
}

// BulkInsert writes complaints preserving their provided timestamps. Seed
// utilities use this to spread fixtures across past days.
func (r *complaintRepository) BulkInsert(ctx context.Context, complaints []domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, category, priority, status, submitted_by, created_at, updated_at, resolved_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$7,$8)`

	for i := range complaints {
		c := &complaints[i]
		if _, err := r.pool.Exec(ctx, query,
			c.Title,
			c.Description,
			c.Category,
			c.Priority,
			c.Status,
			c.SubmittedBy,
			c.CreatedAt,
			c.ResolvedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *complaintRepository) DeleteByTitlePrefix(ctx context.Context, prefix string) error {
	const query = `DELETE FROM complaints WHERE title LIKE $1 || '%'`
	_, err := r.pool.Exec(ctx, query, prefix)
	return err
}
