package directory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/rowstore"
	"github.com/skarthik/gatepass/internal/rowstore/memory"
)

func testDirectory(t *testing.T) (*Directory, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestResolveFacultySelfRegisters(t *testing.T) {
	d, store := testDirectory(t)
	ctx := context.Background()

	u, err := d.Resolve(ctx, "A.Kumar.CSE@sritcbe.ac.in", "Anil Kumar")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFaculty, u.Role)
	assert.Equal(t, "a.kumar.cse@sritcbe.ac.in", u.Email)
	assert.Equal(t, "CSE", u.Department)
	assert.Equal(t, "Anil Kumar", u.DisplayName)

	rows, err := store.ReadAll(ctx, rowstore.TableUsers)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// A second login must not append a second row.
	_, err = d.Resolve(ctx, "a.kumar.cse@sritcbe.ac.in", "Anil Kumar")
	require.NoError(t, err)
	rows, err = store.ReadAll(ctx, rowstore.TableUsers)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestResolveDepartmentCodes(t *testing.T) {
	d, _ := testDirectory(t)
	ctx := context.Background()

	cases := map[string]string{
		"x.y.me@sritcbe.ac.in":  "MECH",
		"x.y.sh@sritcbe.ac.in":  "Science and Humanities",
		"x.y.ece@sritcbe.ac.in": "ECE",
	}
	for email, dept := range cases {
		u, err := d.Resolve(ctx, email, "X Y")
		require.NoError(t, err)
		assert.Equal(t, dept, u.Department, email)
	}
}

func TestResolveListedGuardAndAdmin(t *testing.T) {
	d, store := testDirectory(t)
	ctx := context.Background()

	store.Seed(rowstore.TableUsers, []rowstore.Row{
		{"guard@gate.local", "Security", "Main Gate"},
		{"principal@sritcbe.ac.in", "Admin", "Principal", "whatever"},
	})

	guard, err := d.Resolve(ctx, "Guard@gate.local", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSecurity, guard.Role)
	assert.Equal(t, "SECURITY", guard.Department)
	assert.Equal(t, "Main Gate", guard.DisplayName)

	admin, err := d.Resolve(ctx, "principal@sritcbe.ac.in", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "ADMIN", admin.Department)
}

func TestResolveUnknownUser(t *testing.T) {
	d, _ := testDirectory(t)

	_, err := d.Resolve(context.Background(), "stranger@example.com", "Stranger")
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, err = d.Resolve(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestResolveStudentAddressIsNotFaculty(t *testing.T) {
	d, _ := testDirectory(t)

	// No department code suffix, so the pattern must not match.
	_, err := d.Resolve(context.Background(), "student123@sritcbe.ac.in", "Student")
	assert.ErrorIs(t, err, ErrUnknownUser)
}
