package database

import (
	"fmt"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB   *gorm.DB
	once sync.Once
	err  error
)

// Options holds the connection settings. DSN wins over the individual parts.
type Options struct {
	DSN      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

func (o Options) dsn() string {
	if o.DSN != "" {
		return o.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		o.Host, o.User, o.Password, o.Name, o.Port,
	)
}

// Connect opens the shared connection once per process.
func Connect(opts Options) (*gorm.DB, error) {
	once.Do(func() {
		var db *gorm.DB
		db, err = gorm.Open(postgres.Open(opts.dsn()), &gorm.Config{})
		if err != nil {
			err = fmt.Errorf("failed to connect database: %w", err)
			return
		}
		DB = db
	})

	return DB, err
}
