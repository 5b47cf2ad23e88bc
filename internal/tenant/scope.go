package tenant

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope limits a query to one organisation. The column is qualified with the current table so
// the scope stays unambiguous when the query joins another company-scoped table.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "company_id"},
			Value:  companyID,
		})
	}
}
