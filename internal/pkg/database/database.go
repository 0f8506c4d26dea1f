package database

import (
	"github.com/glebarez/sqlite"
	"github.com/novelforge/backend/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitDB(dbType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dbType {
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		// pure-Go sqlite driver from github.com/glebarez/sqlite
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Novel{},
		&model.Chapter{},
		&model.ChapterVersion{},
		&model.Character{},
		&model.StoryMemory{},
		&model.Notification{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
