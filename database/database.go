package database

import (
	"context"
	stdlog "log"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type (
	ProjectRepo     = Repo[models.Project, *models.Project]
	CertificateRepo = Repo[models.Certificate, *models.Certificate]
	SkillRepo       = Repo[models.SkillCategory, *models.SkillCategory]
	ContactRepo     = Repo[models.ContactMessage, *models.ContactMessage]
)

type Database struct {
	db              *gorm.DB
	adminUserRepo   *AdminUserRepo
	projectRepo     *ProjectRepo
	certificateRepo *CertificateRepo
	skillRepo       *SkillRepo
	contactRepo     *ContactRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:              db,
		adminUserRepo:   NewAdminUserRepo(db),
		projectRepo:     NewRepo[models.Project](db, "project"),
		certificateRepo: NewRepo[models.Certificate](db, "certificate"),
		skillRepo:       NewRepo[models.SkillCategory](db, "skill category"),
		contactRepo:     NewRepo[models.ContactMessage](db, "contact message"),
	}
}

// Accessor methods for each repository

func (d Database) AdminUserRepo() *AdminUserRepo {
	return d.adminUserRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) CertificateRepo() *CertificateRepo {
	return d.certificateRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

// GetDB returns the underlying connection for tooling.
func (d Database) GetDB() *gorm.DB {
	return d.db
}

// Ping checks that the primary is reachable.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return errs.NewDatabaseError("open", "database", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}

// Close releases the pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Open connects to Postgres. When replicaDSN is set, reads are routed to it.
func Open(dsn, replicaDSN string) (*gorm.DB, error) {
	gormLogger := logger.New(
		stdlog.New(log.Logger, "", 0),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("connect to", "database", err)
	}

	if replicaDSN != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  replicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}).
			SetMaxIdleConns(5).
			SetConnMaxLifetime(time.Hour)
		if err := db.Use(resolver); err != nil {
			return nil, errs.NewDatabaseError("register replica for", "database", err)
		}
		log.Info().Msg("read replica registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, errs.NewDatabaseError("test", "database connection", err)
	}

	return db, nil
}
