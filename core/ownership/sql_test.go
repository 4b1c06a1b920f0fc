package ownership

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupSQLDirectory(t *testing.T) *SQLDirectory {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dir, err := OpenSQL(DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dir.Close() })
	return dir
}

func TestSQLDirectoryAssignAndList(t *testing.T) {
	dir := setupSQLDirectory(t)
	ctx := context.Background()

	require.NoError(t, dir.Assign(ctx, "genesis", "5", alice))
	require.NoError(t, dir.Assign(ctx, "genesis", "2", alice))
	require.NoError(t, dir.Assign(ctx, "genesis", "9", bob))
	require.NoError(t, dir.Assign(ctx, "other", "1", alice))

	owned, err := dir.OwnedAssets(ctx, "genesis", alice)
	require.NoError(t, err)
	require.Equal(t, []string{"5", "2"}, owned)

	owned, err = dir.OwnedAssets(ctx, "genesis", [20]byte{0xff})
	require.NoError(t, err)
	require.Empty(t, owned)
}

func TestSQLDirectoryTransferUpdatesOwner(t *testing.T) {
	dir := setupSQLDirectory(t)
	ctx := context.Background()

	require.NoError(t, dir.Assign(ctx, "genesis", "5", alice))
	require.NoError(t, dir.Assign(ctx, "genesis", "5", bob))

	owned, err := dir.OwnedAssets(ctx, "genesis", alice)
	require.NoError(t, err)
	require.Empty(t, owned)
	owned, err = dir.OwnedAssets(ctx, "genesis", bob)
	require.NoError(t, err)
	require.Equal(t, []string{"5"}, owned)

	var count int64
	require.NoError(t, dir.db.Model(&AssetOwner{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestOpenSQLUnsupportedDriver(t *testing.T) {
	_, err := OpenSQL("oracle", "")
	require.ErrorContains(t, err, "unsupported driver")
}

func TestSQLDirectoryAssignValidates(t *testing.T) {
	dir := setupSQLDirectory(t)
	require.ErrorIs(t, dir.Assign(context.Background(), "genesis", "", alice), ErrInvalidAssignment)
}
