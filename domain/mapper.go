package domain

import "bookshelf/repository"

// UserMapper copies a request into a user record. A nil request maps to nil.
type UserMapper func(*UserRequest) *repository.User

// BookMapper copies a request into a book record. A nil request maps to nil.
type BookMapper func(*BookRequest) *repository.Book

func UserRequestToUser(r *UserRequest) *repository.User {
	if r == nil {
		return nil
	}
	return &repository.User{
		ID:       r.ID,
		FullName: r.FullName,
		Title:    r.Title,
		Age:      r.Age,
	}
}

func BookRequestToBook(r *BookRequest) *repository.Book {
	if r == nil {
		return nil
	}
	return &repository.Book{
		ID:        r.ID,
		Title:     r.Title,
		Author:    r.Author,
		PageCount: r.PageCount,
	}
}
