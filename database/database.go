package database

import (
	"github.com/vihaanharrison/portfolio-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	projectRepo    *ProjectRepo
	projectTagRepo *ProjectTagRepo
	activityRepo   *ActivityRepo
	accountRepo    *AccountRepo
	roleRepo       *RoleRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:    NewProjectRepo(db),
		projectTagRepo: NewProjectTagRepo(db),
		activityRepo:   NewActivityRepo(db),
		accountRepo:    NewAccountRepo(db),
		roleRepo:       NewRoleRepo(db),
	}
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.ProjectTag{},
		&models.Activity{},
		&models.Account{},
		&models.RoleGrant{},
	)
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectTagRepo() *ProjectTagRepo {
	return d.projectTagRepo
}

func (d Database) ActivityRepo() *ActivityRepo {
	return d.activityRepo
}

func (d Database) AccountRepo() *AccountRepo {
	return d.accountRepo
}

func (d Database) RoleRepo() *RoleRepo {
	return d.roleRepo
}
