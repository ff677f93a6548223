package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/RpheeD/ClassMate/internal/models"
)

var DB *gorm.DB

// Init opens the database named by url and migrates the schema. The url
// prefix selects the driver: postgres:// for production, sqlite:// for
// local dev and tests.
func Init(url string) error {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(url, "postgres://"):
		dialector = postgres.Open(url)
	case strings.HasPrefix(url, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
	default:
		return fmt.Errorf("invalid DATABASE_URL %q: must start with postgres:// or sqlite://", url)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Comment{},
	); err != nil {
		return err
	}

	DB = conn
	log.Println("Database connection established")
	return nil
}
