package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/keywordiq-backend/internal/data/repos/billing"
	"github.com/yungbote/keywordiq-backend/internal/data/repos/seo"
	"github.com/yungbote/keywordiq-backend/internal/data/repos/user"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type PurchaseRepo = billing.PurchaseRepo
type PurchaseHistoryRepo = billing.PurchaseHistoryRepo

type ProjectRepo = seo.ProjectRepo
type SearchQueryRepo = seo.SearchQueryRepo
type AnalysisRepo = seo.AnalysisRepo
type SearchAnalysisRelRepo = seo.SearchAnalysisRelRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	return billing.NewPurchaseRepo(db, baseLog)
}

func NewPurchaseHistoryRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseHistoryRepo {
	return billing.NewPurchaseHistoryRepo(db, baseLog)
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return seo.NewProjectRepo(db, baseLog)
}

func NewSearchQueryRepo(db *gorm.DB, baseLog *logger.Logger) SearchQueryRepo {
	return seo.NewSearchQueryRepo(db, baseLog)
}

func NewAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) AnalysisRepo {
	return seo.NewAnalysisRepo(db, baseLog)
}

func NewSearchAnalysisRelRepo(db *gorm.DB, baseLog *logger.Logger) SearchAnalysisRelRepo {
	return seo.NewSearchAnalysisRelRepo(db, baseLog)
}
