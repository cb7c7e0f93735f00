package assignment

import (
	"context"
	"fmt"
	"strings"
)

/* Resolver finds who gets a reminder for an assignment
 * Only the first matching tier is queried: user, then group, then department
 */
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns the recipients and the tier they came from
func (r *Resolver) Resolve(ctx context.Context, s Snapshot) ([]Recipient, Tier, error) {
	tier := s.Tier()

	var (
		found []Recipient
		err   error
	)
	switch tier {
	case TierUser:
		var (
			user Recipient
			ok   bool
		)
		user, ok, err = r.dir.ActiveUser(ctx, *s.AssignedToUserID)
		if ok {
			found = []Recipient{user}
		}
	case TierGroup:
		found, err = r.dir.ActiveGroupMembers(ctx, *s.AssignedToGroupID)
	case TierDepartment:
		found, err = r.dir.ActiveDepartmentMembers(ctx, *s.AssignedToDeptID)
	default:
		return nil, TierNone, nil
	}
	if err != nil {
		return nil, tier, fmt.Errorf("resolving %s recipients for assignment %d: %w", tier, s.ID, err)
	}

	return dedupe(found), tier, nil
}

// dedupe drops recipients without an email and repeats of the same address
func dedupe(in []Recipient) []Recipient {
	out := make([]Recipient, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		key := strings.ToLower(strings.TrimSpace(r.Email))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
