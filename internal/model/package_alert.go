package model

import (
	"time"
)

// 提醒类型
const (
	AlertLowSessions      = "low_sessions"
	AlertPackageCompleted = "package_completed"
	AlertExpiringSoon     = "expiring_soon"
)

// 提醒级别
const (
	AlertYellow   = "yellow"
	AlertRed      = "red"
	AlertCritical = "critical"
)

type PackageAlert struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	PackageID int64     `gorm:"not null;index" json:"package_id"`
	ClientID  int64     `gorm:"not null;index" json:"client_id"`
	AlertType string    `gorm:"size:30;not null" json:"alert_type"` // low_sessions, package_completed, expiring_soon
	Level     string    `gorm:"size:20;not null" json:"level"`      // yellow, red, critical
	Message   string    `gorm:"size:500" json:"message"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (PackageAlert) TableName() string {
	return "package_alerts"
}

// AlertForRemaining 扣减课时后的提醒决策表。
// 剩余 0 → package_completed/critical；1 → low_sessions/critical；
// 2-3 → low_sessions/red；4-5 → low_sessions/yellow；6 及以上不提醒。
func AlertForRemaining(remaining int) (alertType, level string, ok bool) {
	switch {
	case remaining == 0:
		return AlertPackageCompleted, AlertCritical, true
	case remaining == 1:
		return AlertLowSessions, AlertCritical, true
	case remaining <= 3:
		return AlertLowSessions, AlertRed, true
	case remaining <= 5:
		return AlertLowSessions, AlertYellow, true
	default:
		return "", "", false
	}
}
