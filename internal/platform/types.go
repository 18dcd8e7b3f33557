package platform

// RawMessage is a single entry from a platform export, untouched beyond
// JSON decoding. The sender is the platform-native display name; roles are
// assigned later during normalization.
type RawMessage struct {
	SenderName  string `json:"sender_name"`
	TimestampMS int64  `json:"timestamp_ms"`
	Content     string `json:"content"`
}

// RawConversation is one platform-native conversation record.
type RawConversation struct {
	ID           string
	Platform     string
	Participants []string
	Messages     []RawMessage
}
