package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("test_%d@example.com", time.Now().UnixNano())
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", time.Now().UnixNano()%1000000),
		Email:        &email,
		PasswordHash: &passwordHash,
		FullName:     "测试用户",
		Role:         model.RoleClient,
		Active:       true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithRole 设置用户角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// TestClient 创建测试客户
func TestClient(t *testing.T, db *gorm.DB, opts ...func(*model.Client)) *model.Client {
	t.Helper()

	client := &model.Client{
		FullName: fmt.Sprintf("客户_%d", time.Now().UnixNano()%1000000),
		Phone:    "13800000000",
		Email:    fmt.Sprintf("client_%d@example.com", time.Now().UnixNano()),
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := db.Create(client).Error; err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}

	return client
}

// WithClientUser 绑定门户账号
func WithClientUser(userID int64) func(*model.Client) {
	return func(c *model.Client) {
		c.UserID = &userID
	}
}

// TestDog 创建测试犬只
func TestDog(t *testing.T, db *gorm.DB, clientID int64) *model.Dog {
	t.Helper()

	dog := &model.Dog{
		ClientID: clientID,
		Name:     fmt.Sprintf("Dog_%d", time.Now().UnixNano()%1000000),
		Breed:    "边境牧羊犬",
	}

	if err := db.Create(dog).Error; err != nil {
		t.Fatalf("Failed to create test dog: %v", err)
	}

	return dog
}

// TestPackage 创建测试套餐
func TestPackage(t *testing.T, db *gorm.DB, clientID int64, opts ...func(*model.ServicePackage)) *model.ServicePackage {
	t.Helper()

	pkg := &model.ServicePackage{
		ClientID:          clientID,
		Name:              fmt.Sprintf("测试套餐_%d", time.Now().UnixNano()%1000000),
		TotalSessions:     10,
		UsedSessions:      0,
		RemainingSessions: 10,
		PurchaseDate:      time.Now(),
		Status:            model.PackageActive,
	}

	for _, opt := range opts {
		opt(pkg)
	}

	if err := db.Create(pkg).Error; err != nil {
		t.Fatalf("Failed to create test package: %v", err)
	}

	return pkg
}

// WithSessions 设置课时数（total/used/remaining 联动）
func WithSessions(total, used int) func(*model.ServicePackage) {
	return func(p *model.ServicePackage) {
		p.TotalSessions = total
		p.UsedSessions = used
		p.RemainingSessions = total - used
		p.Status = model.PartialPackageStatus(p.RemainingSessions)
	}
}

// WithExpiry 设置有效期
func WithExpiry(expiry time.Time) func(*model.ServicePackage) {
	return func(p *model.ServicePackage) {
		p.ExpiryDate = &expiry
	}
}

// WithPackageStatus 直接设置状态
func WithPackageStatus(status string) func(*model.ServicePackage) {
	return func(p *model.ServicePackage) {
		p.Status = status
	}
}

// TestAlert 创建测试提醒
func TestAlert(t *testing.T, db *gorm.DB, packageID, clientID int64, alertType, level string) *model.PackageAlert {
	t.Helper()

	alert := &model.PackageAlert{
		PackageID: packageID,
		ClientID:  clientID,
		AlertType: alertType,
		Level:     level,
		Message:   "测试提醒",
	}

	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("Failed to create test alert: %v", err)
	}

	return alert
}

// TestInvoice 创建测试账单
func TestInvoice(t *testing.T, db *gorm.DB, clientID int64, opts ...func(*model.Invoice)) *model.Invoice {
	t.Helper()

	invoice := &model.Invoice{
		ClientID: clientID,
		Concept:  "基础服从训练 10 次",
		Amount:   3000,
		IssuedAt: time.Now(),
		Status:   model.InvoicePending,
	}

	for _, opt := range opts {
		opt(invoice)
	}

	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("Failed to create test invoice: %v", err)
	}

	return invoice
}

// WithInvoiceStatus 设置账单状态
func WithInvoiceStatus(status string) func(*model.Invoice) {
	return func(i *model.Invoice) {
		i.Status = status
	}
}

// TestAppointment 创建测试预约
func TestAppointment(t *testing.T, db *gorm.DB, clientID, teacherID int64, opts ...func(*model.Appointment)) *model.Appointment {
	t.Helper()

	starts := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	appt := &model.Appointment{
		ClientID:  clientID,
		TeacherID: teacherID,
		StartsAt:  starts,
		EndsAt:    starts.Add(time.Hour),
		Status:    model.AppointmentScheduled,
	}

	for _, opt := range opts {
		opt(appt)
	}

	if err := db.Create(appt).Error; err != nil {
		t.Fatalf("Failed to create test appointment: %v", err)
	}

	return appt
}

// WithAppointmentPackage 关联套餐
func WithAppointmentPackage(packageID int64) func(*model.Appointment) {
	return func(a *model.Appointment) {
		a.PackageID = &packageID
	}
}

// WithAppointmentTime 设置预约时间
func WithAppointmentTime(starts, ends time.Time) func(*model.Appointment) {
	return func(a *model.Appointment) {
		a.StartsAt = starts
		a.EndsAt = ends
	}
}
