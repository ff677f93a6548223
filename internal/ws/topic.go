package ws

// Query names accepted over the subscription socket. Each maps to one of
// the live queries the screens watch.
const (
	QueryFeed      = "feed"       // all posts, newest first
	QueryUserPosts = "user_posts" // one user's posts, newest first
	QueryComments  = "comments"   // one post's comments, newest first
)

// Topic identifies a live query. It is comparable and used as the fan-out
// key inside the hub: two subscribers of the same topic receive the same
// snapshots but hold independent registrations.
type Topic struct {
	Query  string
	UserID string // set for user_posts
	PostID string // set for comments
}

func FeedTopic() Topic {
	return Topic{Query: QueryFeed}
}

func UserPostsTopic(uid string) Topic {
	return Topic{Query: QueryUserPosts, UserID: uid}
}

func CommentsTopic(pid string) Topic {
	return Topic{Query: QueryComments, PostID: pid}
}
