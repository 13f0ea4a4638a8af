package model

import "time"

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedItem is a post joined with its author and like state as seen by one
// viewer.
type FeedItem struct {
	Post
	Author    PublicUser `json:"author"`
	LikeCount int        `json:"like_count"`
	Liked     bool       `json:"liked"`
}

func (f FeedItem) OwnedBy(userID string) bool {
	return userID != "" && f.UserID == userID
}

type Profile struct {
	User  User       `json:"user"`
	Posts []FeedItem `json:"posts"`
}

type LikeResult struct {
	PostID    string `json:"post_id"`
	Liked     bool   `json:"liked"`
	LikeCount int    `json:"like_count"`
}
