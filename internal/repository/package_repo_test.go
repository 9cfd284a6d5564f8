package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/testutil"
)

func TestPackageRepository_DecrementRemaining(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPackageRepository(db)
	client := testutil.TestClient(t, db)
	pkg := testutil.TestPackage(t, db, client.ID, testutil.WithSessions(2, 0))

	ok, err := repo.DecrementRemaining(pkg.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	updated, err := repo.GetByID(pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.UsedSessions)
	assert.Equal(t, 1, updated.RemainingSessions)

	ok, err = repo.DecrementRemaining(pkg.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 剩余为 0 后条件更新不再命中
	ok, err = repo.DecrementRemaining(pkg.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	final, err := repo.GetByID(pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, final.UsedSessions)
	assert.Equal(t, 0, final.RemainingSessions)
}

func TestPackageRepository_DecrementRemaining_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPackageRepository(db)

	ok, err := repo.DecrementRemaining(99999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPackageRepository_ListWithAlertableStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPackageRepository(db)
	client := testutil.TestClient(t, db)

	testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 0))
	testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 8))
	testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 10))
	testutil.TestPackage(t, db, client.ID, testutil.WithPackageStatus(model.PackageExpired))

	pkgs, err := repo.ListWithAlertableStatus()
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	// 剩余课时升序
	assert.Equal(t, 2, pkgs[0].RemainingSessions)
	assert.Equal(t, 10, pkgs[1].RemainingSessions)
}

func TestPackageRepository_ListExpiringBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPackageRepository(db)
	client := testutil.TestClient(t, db)

	soon := time.Now().AddDate(0, 0, 3)
	far := time.Now().AddDate(0, 2, 0)

	expiring := testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 2), testutil.WithExpiry(soon))
	testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 2), testutil.WithExpiry(far))
	// 已用完的套餐不参与到期提醒
	testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 10), testutil.WithExpiry(soon))
	// 无有效期不参与
	testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 2))

	pkgs, err := repo.ListExpiringBefore(time.Now().AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, expiring.ID, pkgs[0].ID)
}

func TestPackageRepository_List_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPackageRepository(db)
	client := testutil.TestClient(t, db)

	for i := 0; i < 5; i++ {
		testutil.TestPackage(t, db, client.ID)
	}
	testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 10))

	pkgs, total, err := repo.List(1, 4, "")
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, pkgs, 4)

	pkgs, total, err = repo.List(1, 10, model.PackageCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, pkgs, 1)
}
