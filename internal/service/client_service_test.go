package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/repository"
	"github.com/dogacademy/academy_go_server/internal/testutil"
)

func newClientService(db *gorm.DB) *ClientService {
	return NewClientService(
		repository.NewClientRepository(db),
		repository.NewDogRepository(db),
		nil, // 测试不走 OSS
	)
}

func TestClientService_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newClientService(db)

	client, err := svc.Create(&dto.CreateClientRequest{
		FullName: "赵六",
		Phone:    "13700002222",
		Email:    "zhao@example.com",
	})
	require.NoError(t, err)

	got, err := svc.Get(client.ID)
	require.NoError(t, err)
	assert.Equal(t, "赵六", got.FullName)

	newPhone := "13700003333"
	updated, err := svc.Update(client.ID, &dto.UpdateClientRequest{Phone: &newPhone})
	require.NoError(t, err)
	assert.Equal(t, "13700003333", updated.Phone)
	assert.Equal(t, "赵六", updated.FullName)

	require.NoError(t, svc.Delete(client.ID))
	_, err = svc.Get(client.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientService_List_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newClientService(db)

	_, err := svc.Create(&dto.CreateClientRequest{FullName: "刘备", Phone: "13600001111"})
	require.NoError(t, err)
	_, err = svc.Create(&dto.CreateClientRequest{FullName: "关羽", Phone: "13600002222"})
	require.NoError(t, err)

	clients, total, err := svc.List(1, 10, "刘")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, clients, 1)
	assert.Equal(t, "刘备", clients[0].FullName)

	// 按电话搜索
	_, total, err = svc.List(1, 10, "13600002222")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestClientService_Dogs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newClientService(db)
	client := testutil.TestClient(t, db)

	dog, err := svc.CreateDog(client.ID, &dto.CreateDogRequest{
		Name:      "旺财",
		Breed:     "金毛",
		BirthDate: "2023-05-01",
	})
	require.NoError(t, err)
	require.NotNil(t, dog.BirthDate)
	assert.Equal(t, "2023-05-01", dog.BirthDate.Format("2006-01-02"))

	dogs, err := svc.ListDogs(client.ID)
	require.NoError(t, err)
	assert.Len(t, dogs, 1)

	newBreed := "拉布拉多"
	updated, err := svc.UpdateDog(dog.ID, &dto.UpdateDogRequest{Breed: &newBreed})
	require.NoError(t, err)
	assert.Equal(t, "拉布拉多", updated.Breed)

	require.NoError(t, svc.DeleteDog(dog.ID))
	_, err = svc.GetDog(dog.ID)
	assert.ErrorIs(t, err, ErrDogNotFound)
}

func TestClientService_CreateDog_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newClientService(db)
	client := testutil.TestClient(t, db)

	_, err := svc.CreateDog(99999, &dto.CreateDogRequest{Name: "无主犬"})
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = svc.CreateDog(client.ID, &dto.CreateDogRequest{
		Name:      "日期错误",
		BirthDate: "01-05-2023",
	})
	assert.ErrorIs(t, err, ErrInvalidBirthDate)
}

func TestCatalogService_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewCatalogService(repository.NewServiceRepository(db))

	created, err := svc.Create(&dto.CreateServiceRequest{
		Name:  "幼犬社会化课程",
		Price: 300,
	})
	require.NoError(t, err)
	// 未指定时长时默认 60 分钟
	assert.Equal(t, 60, created.DurationMinutes)
	assert.True(t, created.Active)

	inactive := false
	updated, err := svc.Update(created.ID, &dto.UpdateServiceRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	// activeOnly 过滤下架项目
	services, err := svc.List(true)
	require.NoError(t, err)
	assert.Empty(t, services)

	services, err = svc.List(false)
	require.NoError(t, err)
	assert.Len(t, services, 1)
}
