package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the configured database. MySQL in production; setting
// DB_DRIVER=sqlite gives a file-backed local database for development.
func InitDB() (*gorm.DB, error) {
	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "cuentaclara.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	host := envOr("DB_HOST", "127.0.0.1")
	port := envOr("DB_PORT", "3306")
	user := envOr("DB_USER", "root")
	pass := os.Getenv("DB_PASSWORD")
	name := envOr("DB_NAME", "cuentaclara")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
