package repository

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned by every store lookup that matches no row,
// whichever persistence path is in use.
var ErrRecordNotFound = errors.New("repository: record not found")

// User ids are allocated by the service layer, never by the database.
type User struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement:false" db:"id"`
	FullName string `gorm:"type:varchar(255);column:full_name" db:"full_name"`
	Title    string `gorm:"type:varchar(255);column:title" db:"title"`
	Age      int    `gorm:"type:int;column:age;not null" db:"age"`

	// Books is filled in memory by aggregate reads; it has no column.
	Books []*Book `gorm:"-" db:"-"`
}

func (User) TableName() string { return "users" }

func (u User) String() string {
	return fmt.Sprintf("User{id=%d, fullName=%q, title=%q, age=%d}", u.ID, u.FullName, u.Title, u.Age)
}

type Book struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement:false" db:"id"`
	UserID    int64  `gorm:"column:user_id;not null;index" db:"user_id"`
	Title     string `gorm:"type:varchar(255);column:title" db:"title"`
	Author    string `gorm:"type:varchar(255);column:author" db:"author"`
	PageCount int64  `gorm:"column:page_count;not null" db:"page_count"`
}

func (Book) TableName() string { return "books" }

func (b Book) String() string {
	return fmt.Sprintf("Book{id=%d, userId=%d, title=%q, author=%q, pageCount=%d}",
		b.ID, b.UserID, b.Title, b.Author, b.PageCount)
}

// Binding records that a book belongs to a user. There is no foreign key on
// either column; the service layer keeps the rows consistent.
type Binding struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement:false" db:"id"`
	UserID int64 `gorm:"column:user_id;not null;index" db:"user_id"`
	BookID int64 `gorm:"column:book_id;not null;index" db:"book_id"`
}

func (Binding) TableName() string { return "user_books" }

func (b Binding) String() string {
	return fmt.Sprintf("Binding{id=%d, userId=%d, bookId=%d}", b.ID, b.UserID, b.BookID)
}
