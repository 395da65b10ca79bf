package models

const (
	TableUsers         = "users"
	TableTransactions  = "transactions"
	TableAuditLogs     = "audit_logs"
	TableNotifications = "notifications"
)
