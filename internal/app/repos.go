package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/keywordiq-backend/internal/data/repos"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type Repos struct {
	User            repos.UserRepo
	Purchase        repos.PurchaseRepo
	PurchaseHistory repos.PurchaseHistoryRepo

	Project           repos.ProjectRepo
	SearchQuery       repos.SearchQueryRepo
	Analysis          repos.AnalysisRepo
	SearchAnalysisRel repos.SearchAnalysisRelRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		Purchase:        repos.NewPurchaseRepo(db, log),
		PurchaseHistory: repos.NewPurchaseHistoryRepo(db, log),

		Project:           repos.NewProjectRepo(db, log),
		SearchQuery:       repos.NewSearchQueryRepo(db, log),
		Analysis:          repos.NewAnalysisRepo(db, log),
		SearchAnalysisRel: repos.NewSearchAnalysisRelRepo(db, log),
	}
}
