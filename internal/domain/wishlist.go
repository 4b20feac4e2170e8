package domain

import "time"

type Wishlist struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"userId" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uint64    `json:"productId" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	AddedDate time.Time `json:"addedDate" gorm:"autoCreateTime"`
}
