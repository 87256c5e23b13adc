package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the store on any dialector. Production uses InitPostgres;
// tests pass an in-memory sqlite dialector.
func Init(dialector gorm.Dialector) error {
	var err error

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	}

	DB, err = gorm.Open(dialector, gormConfig)
	return err
}

func InitPostgres(dsn string) {
	pgConfig := postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // avoids prepared-statement cache issues behind poolers
	}

	if err := Init(postgres.New(pgConfig)); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}

	// Connection pool limits; the pool is the only shared mutable resource.
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Database connected successfully!")
}

func GetDB() *gorm.DB {
	return DB
}

func Migrate(models ...interface{}) error {
	for _, m := range models {
		if !DB.Migrator().HasTable(m) {
			if err := DB.Migrator().CreateTable(m); err != nil {
				return err
			}
			log.Printf("Created table for %T\n", m)
		} else {
			if err := DB.Migrator().AutoMigrate(m); err != nil {
				return err
			}
		}
	}
	return nil
}
