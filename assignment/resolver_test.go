package assignment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marcelsud/complaint-notifier/assignment"
	"github.com/marcelsud/complaint-notifier/assignment/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("user tier wins over group", func(t *testing.T) {
		dir := mocks.NewDirectory(t)
		r := assignment.NewResolver(dir)

		dir.On("ActiveUser", ctx, int64(7)).Return(assignment.Recipient{Email: "dana@city.gov", DisplayName: "Dana"}, true, nil)

		got, tier, err := r.Resolve(ctx, assignment.Snapshot{ID: 1, AssignedToUserID: ptr(int64(7)), AssignedToGroupID: ptr(int64(3))})

		require.NoError(t, err)
		assert.Equal(t, assignment.TierUser, tier)
		assert.Equal(t, []assignment.Recipient{{Email: "dana@city.gov", DisplayName: "Dana"}}, got)
		dir.AssertNotCalled(t, "ActiveGroupMembers")
	})

	t.Run("inactive user yields nobody, no fallback", func(t *testing.T) {
		dir := mocks.NewDirectory(t)
		r := assignment.NewResolver(dir)

		dir.On("ActiveUser", ctx, int64(7)).Return(assignment.Recipient{}, false, nil)

		got, tier, err := r.Resolve(ctx, assignment.Snapshot{AssignedToUserID: ptr(int64(7)), AssignedToDeptID: ptr(int64(2))})

		require.NoError(t, err)
		assert.Equal(t, assignment.TierUser, tier)
		assert.Empty(t, got)
		dir.AssertNotCalled(t, "ActiveDepartmentMembers")
	})

	t.Run("group tier", func(t *testing.T) {
		dir := mocks.NewDirectory(t)
		r := assignment.NewResolver(dir)

		dir.On("ActiveGroupMembers", ctx, int64(3)).Return([]assignment.Recipient{
			{Email: "a@city.gov", DisplayName: "A"},
			{Email: "B@city.gov", DisplayName: "B"},
			{Email: "b@city.gov", DisplayName: "B again"},
			{Email: "", DisplayName: "No mail"},
		}, nil)

		got, tier, err := r.Resolve(ctx, assignment.Snapshot{AssignedToGroupID: ptr(int64(3)), AssignedToDeptID: ptr(int64(2))})

		require.NoError(t, err)
		assert.Equal(t, assignment.TierGroup, tier)
		assert.Equal(t, []assignment.Recipient{
			{Email: "a@city.gov", DisplayName: "A"},
			{Email: "B@city.gov", DisplayName: "B"},
		}, got)
	})

	t.Run("department tier", func(t *testing.T) {
		dir := mocks.NewDirectory(t)
		r := assignment.NewResolver(dir)

		dir.On("ActiveDepartmentMembers", ctx, int64(2)).Return([]assignment.Recipient{{Email: "d@city.gov"}}, nil)

		got, tier, err := r.Resolve(ctx, assignment.Snapshot{AssignedToDeptID: ptr(int64(2))})

		require.NoError(t, err)
		assert.Equal(t, assignment.TierDepartment, tier)
		assert.Len(t, got, 1)
	})

	t.Run("nothing assigned", func(t *testing.T) {
		dir := mocks.NewDirectory(t)
		got, tier, err := assignment.NewResolver(dir).Resolve(ctx, assignment.Snapshot{ID: 5})

		require.NoError(t, err)
		assert.Equal(t, assignment.TierNone, tier)
		assert.Empty(t, got)
	})

	t.Run("directory error is wrapped", func(t *testing.T) {
		dir := mocks.NewDirectory(t)
		dir.On("ActiveGroupMembers", ctx, int64(3)).Return(nil, errors.New("db gone"))

		_, _, err := assignment.NewResolver(dir).Resolve(ctx, assignment.Snapshot{ID: 11, AssignedToGroupID: ptr(int64(3))})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "resolving group recipients for assignment 11")
	})
}

func TestSnapshot_Eligible(t *testing.T) {
	base := assignment.Snapshot{IsActive: true, TargetDateOffsetDays: ptr(3), ComplaintStatus: "In Progress"}
	assert.True(t, base.Eligible())

	inactive := base
	inactive.IsActive = false
	assert.False(t, inactive.Eligible())

	noOffset := base
	noOffset.TargetDateOffsetDays = nil
	assert.False(t, noOffset.Eligible())

	for _, status := range []string{"Completed", "Closed", "closed"} {
		done := base
		done.ComplaintStatus = status
		assert.False(t, done.Eligible(), status)
	}
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "user", assignment.TierUser.String())
	assert.Equal(t, "group", assignment.TierGroup.String())
	assert.Equal(t, "department", assignment.TierDepartment.String())
	assert.Equal(t, "none", assignment.TierNone.String())
}
