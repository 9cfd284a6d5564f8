package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/testutil"
)

func TestAlertRepository_CountDistinctClientsUnread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAlertRepository(db)
	c1 := testutil.TestClient(t, db)
	c2 := testutil.TestClient(t, db)
	p1 := testutil.TestPackage(t, db, c1.ID)
	p2 := testutil.TestPackage(t, db, c2.ID)

	// c1 两条未读只计一次
	testutil.TestAlert(t, db, p1.ID, c1.ID, model.AlertLowSessions, model.AlertYellow)
	testutil.TestAlert(t, db, p1.ID, c1.ID, model.AlertLowSessions, model.AlertRed)
	a3 := testutil.TestAlert(t, db, p2.ID, c2.ID, model.AlertLowSessions, model.AlertRed)

	count, err := repo.CountDistinctClientsUnread()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.MarkRead(a3.ID))

	count, err = repo.CountDistinctClientsUnread()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAlertRepository_ExistsUnread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAlertRepository(db)
	client := testutil.TestClient(t, db)
	pkg := testutil.TestPackage(t, db, client.ID)

	exists, err := repo.ExistsUnread(pkg.ID, model.AlertExpiringSoon)
	require.NoError(t, err)
	assert.False(t, exists)

	alert := testutil.TestAlert(t, db, pkg.ID, client.ID, model.AlertExpiringSoon, model.AlertYellow)

	exists, err = repo.ExistsUnread(pkg.ID, model.AlertExpiringSoon)
	require.NoError(t, err)
	assert.True(t, exists)

	// 类型不同不算
	exists, err = repo.ExistsUnread(pkg.ID, model.AlertLowSessions)
	require.NoError(t, err)
	assert.False(t, exists)

	// 已读后不再算
	require.NoError(t, repo.MarkRead(alert.ID))
	exists, err = repo.ExistsUnread(pkg.ID, model.AlertExpiringSoon)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAlertRepository_ListPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAlertRepository(db)
	client := testutil.TestClient(t, db)
	pkg := testutil.TestPackage(t, db, client.ID)

	a1 := testutil.TestAlert(t, db, pkg.ID, client.ID, model.AlertLowSessions, model.AlertYellow)
	testutil.TestAlert(t, db, pkg.ID, client.ID, model.AlertPackageCompleted, model.AlertCritical)

	require.NoError(t, repo.MarkRead(a1.ID))

	pending, err := repo.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.AlertPackageCompleted, pending[0].AlertType)
}
