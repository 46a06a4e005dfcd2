package datastore

import (
	"fmt"
	"strings"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// MySQLStore implements DataStore for MySQL
type MySQLStore struct {
	DataStore
	Settings *conf.Settings
}

func validateMySQLConfig(settings *conf.Settings) error {
	mysqlConf := &settings.Output.MySQL
	if strings.TrimSpace(mysqlConf.Host) == "" {
		return fmt.Errorf("mysql host is empty")
	}
	if strings.TrimSpace(mysqlConf.Database) == "" {
		return fmt.Errorf("mysql database name is empty")
	}
	if strings.TrimSpace(mysqlConf.Username) == "" {
		return fmt.Errorf("mysql username is empty")
	}
	return nil
}

// Open sets up the MySQL database connection
func (store *MySQLStore) Open() error {
	if err := validateMySQLConfig(store.Settings); err != nil {
		return err
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		store.Settings.Output.MySQL.Username, store.Settings.Output.MySQL.Password,
		store.Settings.Output.MySQL.Host, store.Settings.Output.MySQL.Port,
		store.Settings.Output.MySQL.Database)

	// Create a new GORM logger
	newLogger := createGormLogger(store.Settings.Debug)

	// Open the MySQL database
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return fmt.Errorf("failed to open MySQL database: %w", err)
	}

	store.DB = db
	return performAutoMigration(db, store.Settings.Debug, "MySQL",
		fmt.Sprintf("%s@%s/%s", store.Settings.Output.MySQL.Username,
			store.Settings.Output.MySQL.Host, store.Settings.Output.MySQL.Database))
}
