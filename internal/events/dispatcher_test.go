package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var got []string
	d.Subscribe(EventRoleAssigned, func(_ context.Context, e Event) error {
		got = append(got, "first:"+string(e.Type))
		return errors.New("boom")
	})
	d.Subscribe(EventRoleAssigned, func(_ context.Context, e Event) error {
		got = append(got, "second:"+string(e.Type))
		return nil
	})
	d.Subscribe(EventRoleRemoved, func(context.Context, Event) error {
		t.Fatal("unexpected delivery")
		return nil
	})

	err := d.Publish(context.Background(), New(EventRoleAssigned, 3, RoleChangedPayload{RoleID: 1}))
	require.NoError(t, err)
	assert.Equal(t, []string{"first:role_assigned", "second:role_assigned"}, got)
}

func TestNew_StampsEvent(t *testing.T) {
	e := New(EventPasswordReset, 11, nil)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, int64(11), e.UID)
	assert.False(t, e.Timestamp.IsZero())
}
