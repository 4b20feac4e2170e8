package domain

import "time"

type User struct {
	ID           uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"size:80;uniqueIndex;not null"`
	Email        string `json:"email" gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"size:128"`
}

type Vendor struct {
	ID                  uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username            string    `json:"username" gorm:"size:80;uniqueIndex;not null"`
	Email               string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	PasswordHash        string    `json:"-" gorm:"size:128"`
	BusinessName        string    `json:"businessName" gorm:"size:100;not null"`
	BusinessDescription string    `json:"businessDescription" gorm:"type:text"`
	ContactPhone        string    `json:"contactPhone" gorm:"size:20"`
	RegistrationDate    time.Time `json:"registrationDate" gorm:"autoCreateTime"`
}
