package message

// MaxTextLength is the exclusive upper bound on message text length.
// Text must be shorter than this to be accepted.
const MaxTextLength = 255

// Message is a post authored by an account. PostedAt is a caller-supplied
// epoch timestamp and is stored as given.
type Message struct {
	ID       int64  `json:"message_id"`
	PostedBy int64  `json:"posted_by"`
	Text     string `json:"message_text"`
	PostedAt int64  `json:"time_posted_epoch"`
}
