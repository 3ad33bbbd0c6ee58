package db

import (
	"fmt"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table in migration order.
func Models() []any {
	return []any{
		// Identity
		&types.User{},

		// Credits
		&types.Purchase{},
		&types.PurchaseHistory{},

		// SEO pipeline
		&types.Project{},
		&types.SearchQuery{},
		&types.Analysis{},
		&types.SearchAnalysisRel{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
