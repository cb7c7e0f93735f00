package assignment

import "context"

// Reader loads reminder candidates
type Reader interface {
	/* ListDue returns active assignments that carry a target-date offset and
	 * whose complaint is not Completed or Closed. Deadline filtering is left to the caller.
	 */
	ListDue(ctx context.Context) ([]Snapshot, error)
}

// Directory looks up active people
type Directory interface {
	// ActiveUser returns false when the user is missing or inactive
	ActiveUser(ctx context.Context, userID int64) (Recipient, bool, error)
	ActiveGroupMembers(ctx context.Context, groupID int64) ([]Recipient, error)
	ActiveDepartmentMembers(ctx context.Context, deptID int64) ([]Recipient, error)
}

type Repository interface {
	Reader
	Directory
	Close(ctx context.Context) error
}
