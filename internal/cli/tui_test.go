package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeeperapp/notekeeper/internal/client/workspace"
)

func TestBindWorkspace_SessionDrivesLoads(t *testing.T) {
	e := newEnv(t)
	e.register("ada@example.com")
	e.mustRun("books", "create", "Trip")

	a := newApp(Options{In: strings.NewReader(""), Out: io.Discard, Err: io.Discard, Prompter: e.prompter})
	a.configPath = e.configPath
	require.NoError(t, a.open())
	t.Cleanup(a.close)

	store := workspace.NewStore(a.client, workspace.Options{})
	t.Cleanup(store.Close)
	a.bindWorkspace(store)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	idle := func() workspace.State {
		t.Helper()
		require.NoError(t, store.WaitIdle(ctx))
		return store.State()
	}

	// The stored token is restored without prompting.
	require.NoError(t, a.ensureLogin(ctx))
	st := idle()
	assert.True(t, st.Authenticated)
	require.Len(t, st.Books, 1)
	assert.Equal(t, "Trip", st.Books[0].Name)
	assert.Equal(t, st.Books[0].ID, st.SelectedBookID)

	a.session.Logout()
	st = idle()
	assert.False(t, st.Authenticated)
	assert.Empty(t, st.Books)

	e.prompter.inputs = []string{"ada@example.com"}
	e.prompter.passwords = []string{"correct horse"}
	require.NoError(t, a.ensureLogin(ctx))
	st = idle()
	assert.True(t, st.Authenticated)
	require.Len(t, st.Books, 1)
}
