package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-desk/complaint-service/internal/domain"
)

// UserListOptions captures admin listing parameters.
type UserListOptions struct {
	Limit     int
	Offset    int
	SortField string
	SortOrder string
}

// UserWithComplaintCount augments a user with the number of complaints they
// have submitted.
type UserWithComplaintCount struct {
	domain.User
	ComplaintCount int
}

// UserRepository defines persistence access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListExcluding(ctx context.Context, excludeID string, opts UserListOptions) ([]UserWithComplaintCount, error)
	CountExcluding(ctx context.Context, excludeID string) (int, error)
	DeleteByEmailPrefix(ctx context.Context, prefix string) error
}

// user list sort fields exposed to the API, mapped to SQL expressions.
var userSortColumns = map[string]string{
	"name":           "u.name",
	"email":          "u.email",
	"department":     "u.department",
	"role":           "u.role",
	"createdAt":      "u.created_at",
	"complaintCount": "complaint_count",
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, department, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Department,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, department=$4, role=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Department,
		user.Role,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, department, role, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, department, role, created_at, updated_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Department,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListExcluding(ctx context.Context, excludeID string, opts UserListOptions) ([]UserWithComplaintCount, error) {
	orderCol, ok := userSortColumns[opts.SortField]
	if !ok {
		orderCol = "u.created_at"
	}
	orderDir := "DESC"
	if opts.SortOrder == "asc" {
		orderDir = "ASC"
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT u.id, u.name, u.email, u.department, u.role, u.created_at, u.updated_at,
               COUNT(c.id) AS complaint_count
        FROM users u
        LEFT JOIN complaints c ON c.submitted_by = u.id
        WHERE u.id <> $1
        GROUP BY u.id
        ORDER BY %s %s
        LIMIT %d OFFSET %d`, orderCol, orderDir, limit, offset)

	rows, err := r.pool.Query(ctx, query, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []UserWithComplaintCount
	for rows.Next() {
		var entry UserWithComplaintCount
		if err := rows.Scan(
			&entry.ID,
			&entry.Name,
			&entry.Email,
			&entry.Department,
			&entry.Role,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.ComplaintCount,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *userRepository) CountExcluding(ctx context.Context, excludeID string) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE id <> $1`
	var total int
	if err := r.pool.QueryRow(ctx, query, excludeID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// DeleteByEmailPrefix removes accounts whose email starts with the given
// prefix. Only the seed utilities use this, to clear test identities.
func (r *userRepository) DeleteByEmailPrefix(ctx context.Context, prefix string) error {
	const query = `DELETE FROM users WHERE email LIKE $1 || '%'`
	_, err := r.pool.Exec(ctx, query, prefix)
	return err
}
