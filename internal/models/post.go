package models

import (
	"time"

	"github.com/RpheeD/ClassMate/internal/utils"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Pid      string `gorm:"uniqueIndex;size:36;not null" json:"pid"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	// Display copy of the author's name taken at creation time. It is not
	// rewritten when the profile name changes later, so it can go stale.
	AuthorName string    `json:"author_name"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Subject    string    `json:"subject"` // Optional category tag
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PostView is the JSON shape served to the app. The numeric primary key
// stays internal, clients only ever see the opaque pid.
type PostView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Subject    string `json:"subject"`
	CreatedAt  string `json:"created_at"`
	TimeAgo    string `json:"time_ago"`
}

// View expects Author to be preloaded; without it the author id is empty.
func (p *Post) View() PostView {
	return PostView{
		ID:         p.Pid,
		Title:      p.Title,
		Content:    p.Content,
		AuthorID:   p.Author.UID,
		AuthorName: p.AuthorName,
		Subject:    p.Subject,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		TimeAgo:    utils.TimeAgo(p.CreatedAt),
	}
}

func PostViews(posts []Post) []PostView {
	views := make([]PostView, len(posts))
	for i := range posts {
		views[i] = posts[i].View()
	}
	return views
}
