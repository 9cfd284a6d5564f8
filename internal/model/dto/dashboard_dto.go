package dto

// DashboardMetrics 套餐看板聚合指标，每次请求实时统计
type DashboardMetrics struct {
	ActivePackages         int64 `json:"active_packages"`
	FinishingPackages      int64 `json:"finishing_packages"`
	CompletedPackages      int64 `json:"completed_packages"`
	ExpiredPackages        int64 `json:"expired_packages"`
	ClientsWithUnreadAlert int64 `json:"clients_with_unread_alert"`
}
