package domain

// User is an author, reviewer or merger of a merge request. Read-only,
// sourced entirely from the remote API.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	WebURL    string `json:"web_url"`
	State     string `json:"state"`
}
