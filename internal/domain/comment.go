package domain

import "time"

type Comment struct {
	ID        uint      `json:"id"`
	PollID    uint      `json:"poll_id"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
