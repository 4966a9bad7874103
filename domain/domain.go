package domain

import (
	"github.com/bytedance/sonic"
)

// UserBookRequest is the inbound shape of aggregate create and update calls.
// Update calls also carry UserRequest.ID and BookRequest.ID.
type UserBookRequest struct {
	UserRequest  *UserRequest   `json:"userRequest,omitempty"`
	BookRequests []*BookRequest `json:"bookRequests,omitempty"`
}

type UserRequest struct {
	ID       int64  `json:"id,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Title    string `json:"title,omitempty"`
	Age      int    `json:"age"`
}

type BookRequest struct {
	ID        int64  `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	PageCount int64  `json:"pageCount"`
}

// UserBookResponse reports the persisted user id and book ids in request order.
type UserBookResponse struct {
	UserID      int64   `json:"userId"`
	BooksIDList []int64 `json:"booksIdList"`
}

func (r UserBookRequest) String() string  { return render(r) }
func (r UserBookResponse) String() string { return render(r) }

func render(v any) string {
	s, err := sonic.MarshalString(v)
	if err != nil {
		return "<unrenderable>"
	}
	return s
}
