package models

type Office struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Address     string `json:"address" gorm:"size:255;not null"`
	WorkingTime string `json:"working_time" gorm:"size:255;not null"`
}

func (Office) TableName() string {
	return "offices"
}
