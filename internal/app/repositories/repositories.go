package repositories

import (
	"github.com/matheus/courseplatform/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository               *UserRepository
	CourseRepository             *CourseRepository
	QuestionRepository           *QuestionRepository
	EntitlementRepository        *EntitlementRepository
	PasswordResetTokenRepository *PasswordResetTokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pgdb *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:               NewUserRepository(pgdb.Pool),
		CourseRepository:             NewCourseRepository(pgdb),
		QuestionRepository:           NewQuestionRepository(pgdb.Pool),
		EntitlementRepository:        NewEntitlementRepository(pgdb.Pool),
		PasswordResetTokenRepository: NewPasswordResetTokenRepository(pgdb.Pool),
	}
}
