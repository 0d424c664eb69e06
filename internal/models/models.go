package models

// Profile represents a candidate shown in the swipe stack
type Profile struct {
	ID        int      `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Age       int      `json:"age" yaml:"age"`
	Image     string   `json:"image" yaml:"image"`
	Bio       string   `json:"bio,omitempty" yaml:"bio"`
	Images    []string `json:"images,omitempty" yaml:"images"`
	Location  string   `json:"location,omitempty" yaml:"location"`
	Interests []string `json:"interests,omitempty" yaml:"interests"`
}

// Clone returns a deep copy so a match never shares slices with the caller.
func (p Profile) Clone() Profile {
	c := p
	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	if p.Interests != nil {
		c.Interests = append([]string(nil), p.Interests...)
	}
	return c
}

// LastMessage is the most recent message exchanged on a match
type LastMessage struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	FromUser  bool   `json:"fromUser"`
}

// Match represents a confirmed mutual like. MatchedAt and message timestamps are epoch milliseconds.
type Match struct {
	ID          string       `json:"id"`
	Profile     Profile      `json:"profile"`
	MatchedAt   int64        `json:"matchedAt"`
	LastMessage *LastMessage `json:"lastMessage,omitempty"`
	IsUnmatched bool         `json:"isUnmatched"`
}

// StorageInfo summarizes what the match store keeps in persistent storage
type StorageInfo struct {
	MatchCount  int    `json:"matchCount"`
	StorageUsed string `json:"storageUsed"`
}

// Like actions accepted by the interaction endpoint
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
)

// InteractionResponse is returned for an accepted like or dislike
type InteractionResponse struct {
	Match bool `json:"match"`
}

// ProfilesResponse wraps the profile listing
type ProfilesResponse struct {
	Data []Profile `json:"data"`
}
