package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// TrackEventResponse represents a successful tracking response
type TrackEventResponse struct {
	Success bool `json:"success"`
}

// DailyPostResponse represents a successful poster invocation
type DailyPostResponse struct {
	Success bool   `json:"success"`
	Topic   string `json:"topic"`
	Post    string `json:"post"`
	TweetID string `json:"tweetId"`
}
