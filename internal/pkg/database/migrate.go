package database

import (
	"Toasoan/internal/model"
	"fmt"

	"gorm.io/gorm"
)

// Models 所有需要建表的模型
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.RoleChange{},
		&model.Category{},
		&model.Article{},
		&model.Comment{},
		&model.CommentLike{},
		&model.DeletionRequest{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
