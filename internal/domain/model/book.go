package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookCondition string

const (
	BookConditionExcellent BookCondition = "excellent"
	BookConditionGood      BookCondition = "good"
	BookConditionFair      BookCondition = "fair"
	BookConditionPoor      BookCondition = "poor"
)

// 出品された中古本。1出品＝現物1冊。
// is_available=true のものだけカタログに出る。
type Book struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"type:varchar(200);not null" json:"title"`
	Author      string          `gorm:"type:varchar(150);not null" json:"author"`
	Year        *int            `json:"year"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Cover       string          `gorm:"type:varchar(255)" json:"cover"`
	Condition   BookCondition   `gorm:"type:varchar(20);not null;default:'good'" json:"condition"`
	OwnerID     int64           `gorm:"not null;index" json:"owner_id"`
	CategoryID  *int64          `gorm:"index" json:"category_id"`
	IsAvailable bool            `gorm:"not null;default:true;index" json:"is_available"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
