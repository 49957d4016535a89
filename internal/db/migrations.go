package db

import (
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&User{},
		&Project{},
		&TrackedURL{},
		&ScrapedContent{},
		&AIAnswer{},
		&AnalysisResult{},
		&Recommendation{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
