package service

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/billing"
	"github.com/geospy/geospy-api/internal/db"
)

// CreateUser creates a new user with a bcrypt-hashed password
func CreateUser(dbConn *gorm.DB, username, password string, plan billing.Plan) (*db.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.Wrap(ErrInvalidInput, "username and password cannot be empty")
	}
	if plan == "" {
		plan = billing.PlanFree
	}
	if !plan.Valid() {
		return nil, errors.Wrapf(ErrInvalidInput, "unknown plan %q", plan)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := db.User{
		Username: username,
		Password: string(hashed),
		Plan:     plan,
	}
	if err := dbConn.Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func GetUserByUsername(dbConn *gorm.DB, username string) (*db.User, error) {
	var user db.User
	err := dbConn.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by primary key
func GetUserByID(dbConn *gorm.DB, id uint) (*db.User, error) {
	var user db.User
	if err := dbConn.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CheckPassword compares password with the user's stored hash.
func CheckPassword(user *db.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
