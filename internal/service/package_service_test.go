package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/repository"
	"github.com/dogacademy/academy_go_server/internal/testutil"
)

func newPackageService(db *gorm.DB) *PackageService {
	return NewPackageService(
		db,
		repository.NewPackageRepository(db),
		repository.NewAlertRepository(db),
		repository.NewClientRepository(db),
		nil, // 测试不走通知队列
		nil,
	)
}

func consumeReq() *dto.ConsumeSessionRequest {
	return &dto.ConsumeSessionRequest{
		SessionDate: time.Now().Format(time.RFC3339),
		SessionType: "training",
	}
}

func TestPackageService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)

	pkg, err := svc.Create(&dto.CreatePackageRequest{
		ClientID:      client.ID,
		Name:          "基础服从训练 10 次",
		TotalSessions: 10,
		ExpiryDate:    "2027-06-30",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, pkg.TotalSessions)
	assert.Equal(t, 0, pkg.UsedSessions)
	assert.Equal(t, 10, pkg.RemainingSessions)
	assert.Equal(t, model.PackageActive, pkg.Status)
	require.NotNil(t, pkg.ExpiryDate)
	assert.Equal(t, "2027-06-30", pkg.ExpiryDate.Format("2006-01-02"))
}

func TestPackageService_Create_ClientNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)

	_, err := svc.Create(&dto.CreatePackageRequest{
		ClientID:      99999,
		Name:          "不存在客户的套餐",
		TotalSessions: 10,
	})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestPackageService_Create_InvalidExpiryDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)

	_, err := svc.Create(&dto.CreatePackageRequest{
		ClientID:      client.ID,
		Name:          "日期非法",
		TotalSessions: 10,
		ExpiryDate:    "30/06/2027",
	})
	assert.ErrorIs(t, err, ErrInvalidExpiryDate)
}

func TestPackageService_Consume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	user := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	pkg := testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 0))

	resp, err := svc.Consume(pkg.ID, user.ID, consumeReq())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Package.UsedSessions)
	assert.Equal(t, 9, resp.Package.RemainingSessions)
	assert.Equal(t, model.PackageActive, resp.Package.Status)
	assert.Equal(t, pkg.ID, resp.Session.PackageID)
	assert.Equal(t, client.ID, resp.Session.ClientID)
	assert.Equal(t, user.ID, resp.Session.RegisteredBy)

	// 剩余 9 次不触发提醒
	var alertCount int64
	db.Model(&model.PackageAlert{}).Where("package_id = ?", pkg.ID).Count(&alertCount)
	assert.Equal(t, int64(0), alertCount)
}

func TestPackageService_Consume_Invariant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	user := testutil.TestUser(t, db)
	pkg := testutil.TestPackage(t, db, client.ID, testutil.WithSessions(5, 2))

	for i := 0; i < 3; i++ {
		resp, err := svc.Consume(pkg.ID, user.ID, consumeReq())
		require.NoError(t, err)
		// used + remaining 始终等于 total
		assert.Equal(t, resp.Package.TotalSessions,
			resp.Package.UsedSessions+resp.Package.RemainingSessions)
	}

	final, err := svc.Get(pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, final.RemainingSessions)
	assert.Equal(t, model.PackageCompleted, final.Status)
}

func TestPackageService_Consume_AlertThresholds(t *testing.T) {
	tests := []struct {
		name          string
		remainingPre  int // 扣减前剩余
		wantAlert     bool
		wantAlertType string
		wantLevel     string
		wantStatus    string
	}{
		{"剩余6次不提醒", 7, false, "", "", model.PackageActive},
		{"剩余5次黄色提醒", 6, true, model.AlertLowSessions, model.AlertYellow, model.PackageActive},
		{"剩余4次黄色提醒", 5, true, model.AlertLowSessions, model.AlertYellow, model.PackageActive},
		{"剩余3次红色提醒", 4, true, model.AlertLowSessions, model.AlertRed, model.PackageFinishing},
		{"剩余2次红色提醒", 3, true, model.AlertLowSessions, model.AlertRed, model.PackageFinishing},
		{"剩余1次紧急提醒", 2, true, model.AlertLowSessions, model.AlertCritical, model.PackageFinishing},
		{"用完紧急提醒", 1, true, model.AlertPackageCompleted, model.AlertCritical, model.PackageCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.CleanupTestDB(t, db)

			svc := newPackageService(db)
			client := testutil.TestClient(t, db)
			user := testutil.TestUser(t, db)
			pkg := testutil.TestPackage(t, db, client.ID,
				testutil.WithSessions(10, 10-tt.remainingPre))

			resp, err := svc.Consume(pkg.ID, user.ID, consumeReq())
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Package.Status)

			var alerts []*model.PackageAlert
			db.Where("package_id = ?", pkg.ID).Find(&alerts)

			if !tt.wantAlert {
				assert.Empty(t, alerts)
				return
			}

			require.Len(t, alerts, 1)
			assert.Equal(t, tt.wantAlertType, alerts[0].AlertType)
			assert.Equal(t, tt.wantLevel, alerts[0].Level)
			assert.Equal(t, client.ID, alerts[0].ClientID)
			assert.False(t, alerts[0].IsRead)
			assert.NotEmpty(t, alerts[0].Message)
		})
	}
}

func TestPackageService_Consume_NoDedup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	user := testutil.TestUser(t, db)
	pkg := testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 6))

	// 4 → 3 → 2，每次扣减都生成提醒，不去重
	for i := 0; i < 2; i++ {
		_, err := svc.Consume(pkg.ID, user.ID, consumeReq())
		require.NoError(t, err)
	}

	var count int64
	db.Model(&model.PackageAlert{}).Where("package_id = ?", pkg.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestPackageService_Consume_NoSessionsLeft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	user := testutil.TestUser(t, db)
	pkg := testutil.TestPackage(t, db, client.ID, testutil.WithSessions(5, 5))

	_, err := svc.Consume(pkg.ID, user.ID, consumeReq())
	assert.ErrorIs(t, err, ErrNoSessionsLeft)

	// 失败不留下课时记录
	var count int64
	db.Model(&model.PackageSession{}).Where("package_id = ?", pkg.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPackageService_Consume_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	user := testutil.TestUser(t, db)
	pkg := testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 2),
		testutil.WithPackageStatus(model.PackageExpired))

	_, err := svc.Consume(pkg.ID, user.ID, consumeReq())
	assert.ErrorIs(t, err, ErrPackageExpired)
}

func TestPackageService_Consume_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	user := testutil.TestUser(t, db)

	_, err := svc.Consume(99999, user.ID, consumeReq())
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestPackageService_Consume_InvalidDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	user := testutil.TestUser(t, db)
	pkg := testutil.TestPackage(t, db, client.ID)

	_, err := svc.Consume(pkg.ID, user.ID, &dto.ConsumeSessionRequest{
		SessionDate: "2026-09-01", // 缺时间部分
	})
	assert.ErrorIs(t, err, ErrInvalidSessionDate)
}

func TestPackageService_Update_DoesNotRecomputeStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	// 状态字段与剩余课时不一致，更新属性不应纠正
	pkg := testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 8),
		testutil.WithPackageStatus(model.PackageActive))

	newName := "改名后的套餐"
	updated, err := svc.Update(pkg.ID, &dto.UpdatePackageRequest{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "改名后的套餐", updated.Name)
	assert.Equal(t, model.PackageActive, updated.Status)
}

func TestPackageService_Delete_RetainsHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	user := testutil.TestUser(t, db)
	pkg := testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 5))

	_, err := svc.Consume(pkg.ID, user.ID, consumeReq())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(pkg.ID))

	_, err = svc.Get(pkg.ID)
	assert.ErrorIs(t, err, ErrPackageNotFound)

	// 历史课时与提醒保留
	var sessionCount, alertCount int64
	db.Model(&model.PackageSession{}).Where("package_id = ?", pkg.ID).Count(&sessionCount)
	db.Model(&model.PackageAlert{}).Where("package_id = ?", pkg.ID).Count(&alertCount)
	assert.Equal(t, int64(1), sessionCount)
	assert.Equal(t, int64(1), alertCount)
}

func TestPackageService_Recompute_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	expired := time.Now().AddDate(0, 0, -1)
	pkg := testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 2),
		testutil.WithExpiry(expired))

	recomputed, err := svc.Recompute(pkg.ID)
	require.NoError(t, err)
	// 过期优先于剩余课时规则
	assert.Equal(t, model.PackageExpired, recomputed.Status)
}

func TestPackageService_RecomputeAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)

	yesterday := time.Now().AddDate(0, 0, -1)
	nextMonth := time.Now().AddDate(0, 1, 0)

	// 应转为 expired
	testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 2), testutil.WithExpiry(yesterday))
	// 状态与剩余课时不符，应转为 finishing
	testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 8), testutil.WithPackageStatus(model.PackageActive))
	// 正常套餐不变
	testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 0), testutil.WithExpiry(nextMonth))

	changed, err := svc.RecomputeAll(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
}

func TestPackageService_SweepExpiring(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)

	soon := time.Now().AddDate(0, 0, 3)
	farAway := time.Now().AddDate(0, 2, 0)

	expiring := testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 2), testutil.WithExpiry(soon))
	testutil.TestPackage(t, db, client.ID,
		testutil.WithSessions(10, 2), testutil.WithExpiry(farAway))

	created, err := svc.SweepExpiring(7)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var alerts []*model.PackageAlert
	db.Where("package_id = ?", expiring.ID).Find(&alerts)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertExpiringSoon, alerts[0].AlertType)
	assert.Equal(t, model.AlertYellow, alerts[0].Level)

	// 未读提醒存在时再次扫描不重复生成
	created, err = svc.SweepExpiring(7)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	// 已读后允许再次提醒
	db.Model(&model.PackageAlert{}).Where("package_id = ?", expiring.ID).Update("is_read", true)
	created, err = svc.SweepExpiring(7)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestPackageService_ListSessions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPackageService(db)
	client := testutil.TestClient(t, db)
	user := testutil.TestUser(t, db)
	pkg := testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 0))

	for i := 0; i < 3; i++ {
		_, err := svc.Consume(pkg.ID, user.ID, consumeReq())
		require.NoError(t, err)
	}

	sessions, err := svc.ListSessions(pkg.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}
