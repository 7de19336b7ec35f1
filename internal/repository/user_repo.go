package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/filmatch/internal/db"
	svcErr "github.com/oggyb/filmatch/internal/errors"
)

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new user.
//
// Behavior:
//   - Email carries a unique index; inserting a taken email returns
//     ErrDuplicateKey (benign "already exists").
//   - The assigned surrogate id is filled into the returned user.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (db.User, error) {
	user := db.User{
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return db.User{}, svcErr.FromStorage(err)
	}
	return user, nil
}

// FindByEmail looks a user up by email. Unknown email → ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return db.User{}, svcErr.FromStorage(err)
	}
	return user, nil
}
