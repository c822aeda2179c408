package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	domainerrors "github.com/notekeeperapp/notekeeper/internal/errors"
)

func TestTagService_CRUD(t *testing.T) {
	env := setupTest(t, false)
	ctx := context.Background()
	u := env.user(t, "ada@example.com")

	plain, err := env.tags.CreateTag(ctx, u.ID, CreateTagRequest{Name: "todo"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTagColor, plain.Color)

	red, err := env.tags.CreateTag(ctx, u.ID, CreateTagRequest{Name: "urgent", Color: "bg-red-500"})
	require.NoError(t, err)
	assert.Equal(t, "bg-red-500", red.Color)

	tags, err := env.tags.ListTags(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, plain.ID, tags[0].ID)

	updated, err := env.tags.UpdateTag(ctx, u.ID, plain.ID, UpdateTagRequest{Color: ptr("bg-green-500")})
	require.NoError(t, err)
	assert.Equal(t, "todo", updated.Name)
	assert.Equal(t, "bg-green-500", updated.Color)

	require.NoError(t, env.tags.DeleteTag(ctx, u.ID, plain.ID))
	err = env.tags.DeleteTag(ctx, u.ID, plain.ID)
	requireCode(t, err, domainerrors.CodeNotFound, "Tag not found")
}

func TestTagService_ValidationAndOwnership(t *testing.T) {
	env := setupTest(t, false)
	ctx := context.Background()
	owner := env.user(t, "ada@example.com")
	other := env.user(t, "bob@example.com")

	_, err := env.tags.CreateTag(ctx, owner.ID, CreateTagRequest{Name: ""})
	requireCode(t, err, domainerrors.CodeValidation, "")

	tag, err := env.tags.CreateTag(ctx, owner.ID, CreateTagRequest{Name: "mine"})
	require.NoError(t, err)

	_, err = env.tags.UpdateTag(ctx, other.ID, tag.ID, UpdateTagRequest{Name: ptr("theirs")})
	requireCode(t, err, domainerrors.CodeNotFound, "Tag not found")
	_, err = env.tags.UpdateTag(ctx, owner.ID, tag.ID, UpdateTagRequest{Color: ptr("")})
	requireCode(t, err, domainerrors.CodeValidation, "")
}
