package models

import (
	"time"

	"github.com/RpheeD/ClassMate/internal/utils"
)

type Comment struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Cid    string `gorm:"uniqueIndex;size:36;not null" json:"cid"`
	PostID uint   `gorm:"not null;index" json:"post_id"`
	Post   Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	Text   string `gorm:"type:text;not null" json:"text"`
	// Comments carry only the display name, defaulting to "Anonymous".
	// They are never edited or deleted individually.
	AuthorName string    `gorm:"not null;default:'Anonymous'" json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type CommentView struct {
	ID         string `json:"id"`
	PostID     string `json:"post_id"`
	Text       string `json:"text"`
	AuthorName string `json:"author_name"`
	CreatedAt  string `json:"created_at"`
	TimeAgo    string `json:"time_ago"`
}

// View takes the parent pid explicitly so comment queries do not have to
// preload the post row just to echo its public id.
func (c *Comment) View(pid string) CommentView {
	return CommentView{
		ID:         c.Cid,
		PostID:     pid,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
		TimeAgo:    utils.TimeAgo(c.CreatedAt),
	}
}

func CommentViews(comments []Comment, pid string) []CommentView {
	views := make([]CommentView, len(comments))
	for i := range comments {
		views[i] = comments[i].View(pid)
	}
	return views
}
