package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/complaint-notifier/assignment"
)

/* Repository reads the complaint workflow tables owned by the CRUD application.
 * It never writes.
 * Uses pointer semantics as it's an API, not data
 */
type Repository struct {
	DB *sql.DB
}

const listDueQuery = `
		SELECT a.id, a.complaint_id, a.assigned_to_user_id, a.assigned_to_group_id,
			a.assigned_to_dept_id, a.assigned_date, a.target_date_offset, a.is_active,
			c.status, c.subject, c.ticket_id
		FROM complaint_assignments a
		JOIN complaints c ON c.id = a.complaint_id
		WHERE a.is_active = TRUE
			AND a.target_date_offset IS NOT NULL
			AND c.status NOT IN ($1, $2)
		ORDER BY a.complaint_id, a.id`

const activeUserQuery = `
		SELECT email, full_name FROM users
		WHERE id = $1 AND is_active = TRUE`

const groupMembersQuery = `
		SELECT u.email, u.full_name
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1 AND u.is_active = TRUE
		ORDER BY u.id`

const departmentMembersQuery = `
		SELECT email, full_name FROM users
		WHERE department_id = $1 AND is_active = TRUE
		ORDER BY id`

// NewRepository opens a pool with the default settings (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig opens a pool; zero values keep the driver defaults
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{DB: db}, nil
}

// ListDue returns reminder candidates; the deadline itself is computed by the caller
func (r *Repository) ListDue(ctx context.Context) ([]assignment.Snapshot, error) {
	rows, err := r.DB.QueryContext(ctx, listDueQuery, assignment.StatusCompleted, assignment.StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("selecting due assignments: %w", err)
	}
	defer rows.Close()

	var out []assignment.Snapshot
	for rows.Next() {
		var (
			s                     assignment.Snapshot
			userID, groupID, dept sql.NullInt64
			offset                sql.NullInt32
			subject, ticket       sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.ComplaintID, &userID, &groupID, &dept,
			&s.AssignedDate, &offset, &s.IsActive,
			&s.ComplaintStatus, &subject, &ticket); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		s.AssignedToUserID = nullInt64(userID)
		s.AssignedToGroupID = nullInt64(groupID)
		s.AssignedToDeptID = nullInt64(dept)
		if offset.Valid {
			days := int(offset.Int32)
			s.TargetDateOffsetDays = &days
		}
		s.ComplaintSubject = subject.String
		s.TicketID = ticket.String
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}

	return out, nil
}

// ActiveUser returns false when the user does not exist or is inactive
func (r *Repository) ActiveUser(ctx context.Context, userID int64) (assignment.Recipient, bool, error) {
	var (
		email, name sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, activeUserQuery, userID).Scan(&email, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return assignment.Recipient{}, false, nil
	}
	if err != nil {
		return assignment.Recipient{}, false, fmt.Errorf("selecting user %d: %w", userID, err)
	}

	return assignment.Recipient{Email: email.String, DisplayName: name.String}, true, nil
}

func (r *Repository) ActiveGroupMembers(ctx context.Context, groupID int64) ([]assignment.Recipient, error) {
	return r.recipients(ctx, groupMembersQuery, groupID, "group members")
}

func (r *Repository) ActiveDepartmentMembers(ctx context.Context, deptID int64) ([]assignment.Recipient, error) {
	return r.recipients(ctx, departmentMembersQuery, deptID, "department members")
}

func (r *Repository) recipients(ctx context.Context, query string, id int64, what string) ([]assignment.Recipient, error) {
	rows, err := r.DB.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", what, err)
	}
	defer rows.Close()

	var out []assignment.Recipient
	for rows.Next() {
		var email, name sql.NullString
		if err := rows.Scan(&email, &name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}
		out = append(out, assignment.Recipient{Email: email.String, DisplayName: name.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", what, err)
	}

	return out, nil
}

// Close closes the pool
func (r *Repository) Close(_ context.Context) error {
	return r.DB.Close()
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
