package models

import (
	"context"
	"errors"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	OrgId     string    `gorm:"index;not null" json:"org_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	OrgId    string `json:"org_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		OrgId:    input.OrgId,
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func Login(ctx context.Context, email string, password string) (string, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", errors.New("invalid email or password")
	}
	if user.IsActive != nil && !*user.IsActive {
		return "", errors.New("account is disabled")
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return "", errors.New("invalid email or password")
	}

	return utils.JwtGenerate(user.ID, user.OrgId, user.Name)
}

func GetUser(ctx context.Context, id int) (*User, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	return utils.FetchModel[User](ctx, orgId, id)
}
