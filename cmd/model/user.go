package model

import (
	"time"

	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/utils"
	"gorm.io/gorm"
)

// User 用户表, 密码与 refresh token 不参与 JSON 序列化
type User struct {
	UserId         int64     `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id,string"`
	UserName       string    `gorm:"column:user_name;size:64;not null;uniqueIndex:uk_users_user_name" json:"user_name"`
	Email          string    `gorm:"column:email;size:128;not null;uniqueIndex:uk_users_email" json:"email"`
	FullName       string    `gorm:"column:full_name;size:128" json:"full_name"`
	Password       string    `gorm:"column:password;size:128;not null" json:"-"`
	AvatarUrl      string    `gorm:"column:avatar_url;size:512" json:"avatar_url"`
	AvatarPublicId string    `gorm:"column:avatar_public_id;size:255" json:"-"`
	CoverUrl       string    `gorm:"column:cover_url;size:512" json:"cover_url"`
	CoverPublicId  string    `gorm:"column:cover_public_id;size:255" json:"-"`
	RefreshToken   string    `gorm:"column:refresh_token;size:1024" json:"-"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return constants.UserTableName
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UserId == 0 {
		u.UserId = utils.NextID()
	}
	return nil
}
