package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/meetboard/meetboard-api/internal/repository"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "000001_create_members",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&repository.MemberModel{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.MemberModel{})
			},
		},
		{
			ID: "000002_create_gather_articles",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.GatherArticleModel{}); err != nil {
					return err
				}
				indexes := []string{
					`CREATE INDEX IF NOT EXISTS idx_gather_articles_status_created ON gather_articles (status, created_at DESC)`,
					`CREATE INDEX IF NOT EXISTS idx_gather_articles_author_id ON gather_articles (author_id)`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.GatherArticleModel{})
			},
		},
		{
			ID: "000003_create_participation_applications",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.ParticipationApplicationModel{}); err != nil {
					return err
				}
				indexes := []string{
					`CREATE INDEX IF NOT EXISTS idx_applications_article_status ON participation_applications (article_id, status)`,
					`CREATE INDEX IF NOT EXISTS idx_applications_applicant_id ON participation_applications (applicant_id)`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.ParticipationApplicationModel{})
			},
		},
		{
			ID: "000004_create_comments",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.CommentModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_comments_article_created ON comments (article_id, created_at)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.CommentModel{})
			},
		},
		{
			ID: "000005_create_notifications",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.NotificationModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_notifications_member_created ON notifications (member_id, created_at DESC)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.NotificationModel{})
			},
		},
	})

	return m.Migrate()
}
