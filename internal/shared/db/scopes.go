package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepositKind restricts a query on the shared transactions table to deposit
// rows.
//
// Example usage:
//
//	db.Model(&models.DepositModel{}).Scopes(db.DepositKind()).Where("user_id = ?", id).Find(&rows)
func DepositKind() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_deposit = ? AND is_withdraw = ?", true, false)
	}
}

// ForUpdate takes a row lock for the remainder of the enclosing transaction.
// Drivers without row-level locking (sqlite) drop the clause and rely on their
// database-wide write lock instead.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}
