package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username  string `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email     string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName string `gorm:"size:150" json:"firstName"`
	LastName  string `gorm:"size:150" json:"lastName"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"size:20;not null" json:"role"`
}

type SignupData struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Password  string  `json:"password" binding:"required,min=8"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

type LoginData struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
