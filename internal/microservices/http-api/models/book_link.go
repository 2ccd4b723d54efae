package models

// BookLink is the relational identity of a book whose metadata lives in the
// document store. MongoID holds the hex ObjectID of that document.
type BookLink struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	MongoID string `json:"mongo_id" gorm:"column:mongo_id;size:24;not null;uniqueIndex"`

	Copies []BookCopy `json:"-" gorm:"foreignKey:BookLinkID"`
}

func (BookLink) TableName() string {
	return "book_link"
}
