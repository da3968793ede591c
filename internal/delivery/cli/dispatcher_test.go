package cli

import (
	"bytes"
	"context"
	"testing"

	"storerating/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_ViewFor(t *testing.T) {
	f := newFixture(t, 0)
	d := NewDispatcher(f.directory, f.ratings)

	tests := []struct {
		role     entity.Role
		wantView string
	}{
		{role: entity.RoleAdmin, wantView: "platform"},
		{role: entity.RoleCustomer, wantView: "directory"},
		{role: entity.RoleStoreOwner, wantView: "owned store"},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			view, err := d.ViewFor(tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.wantView, view.Name())
		})
	}

	_, err := d.ViewFor(entity.Role("root"))
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestDispatcher_RenderPlatform(t *testing.T) {
	f := newFixture(t, 0)
	d := NewDispatcher(f.directory, f.ratings)

	var out bytes.Buffer
	require.NoError(t, d.Render(context.Background(), &out, &entity.Principal{Role: entity.RoleAdmin}))

	assert.Contains(t, out.String(), "Principals: 2  Stores: 1  Ratings: 0")
	assert.Contains(t, out.String(), "Pizza Palace")
	assert.Contains(t, out.String(), "no ratings")

	err := d.Render(context.Background(), &out, &entity.Principal{Role: entity.Role("root")})
	require.ErrorIs(t, err, ErrUnknownRole)
}
