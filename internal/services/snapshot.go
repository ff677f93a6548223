package services

import (
	"encoding/json"
	"fmt"

	"github.com/RpheeD/ClassMate/internal/db"
	"github.com/RpheeD/ClassMate/internal/models"
	"github.com/RpheeD/ClassMate/internal/ws"
)

// Snapshots are full replacement result sets: subscribers always receive
// the whole matching set, never a diff. Ordering is created_at descending
// everywhere, with the row id as a tie-break so same-second inserts keep
// insertion order.
const snapshotOrder = "created_at DESC, id DESC"

type postSnapshot struct {
	Type   string            `json:"type"`
	Query  string            `json:"query"`
	UserID string            `json:"user_id,omitempty"`
	Posts  []models.PostView `json:"posts"`
}

type commentSnapshot struct {
	Type     string               `json:"type"`
	Query    string               `json:"query"`
	PostID   string               `json:"post_id"`
	Comments []models.CommentView `json:"comments"`
}

// BuildSnapshot materializes the current result set for a topic. A topic
// whose anchor document no longer exists (deleted post, unknown user)
// yields an empty set, matching what a live query would observe.
func BuildSnapshot(topic ws.Topic) ([]byte, error) {
	switch topic.Query {
	case ws.QueryFeed:
		var posts []models.Post
		if err := db.DB.Preload("Author").Order(snapshotOrder).Find(&posts).Error; err != nil {
			return nil, err
		}
		return json.Marshal(postSnapshot{
			Type:  "snapshot",
			Query: topic.Query,
			Posts: models.PostViews(posts),
		})

	case ws.QueryUserPosts:
		var posts []models.Post
		var user models.User
		if err := db.DB.Where("uid = ?", topic.UserID).First(&user).Error; err == nil {
			if err := db.DB.Preload("Author").
				Where("author_id = ?", user.ID).
				Order(snapshotOrder).
				Find(&posts).Error; err != nil {
				return nil, err
			}
		}
		return json.Marshal(postSnapshot{
			Type:   "snapshot",
			Query:  topic.Query,
			UserID: topic.UserID,
			Posts:  models.PostViews(posts),
		})

	case ws.QueryComments:
		var comments []models.Comment
		var post models.Post
		if err := db.DB.Where("pid = ?", topic.PostID).First(&post).Error; err == nil {
			if err := db.DB.Where("post_id = ?", post.ID).
				Order(snapshotOrder).
				Find(&comments).Error; err != nil {
				return nil, err
			}
		}
		return json.Marshal(commentSnapshot{
			Type:     "snapshot",
			Query:    topic.Query,
			PostID:   topic.PostID,
			Comments: models.CommentViews(comments, topic.PostID),
		})
	}

	return nil, fmt.Errorf("unknown query %q", topic.Query)
}
