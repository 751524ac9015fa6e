package model

// ProfileURLBase is the canonical account URL prefix. Profile URLs are
// always derived from the username, never trusted from upstream payloads.
const ProfileURLBase = "https://www.tiktok.com/@"

// Profile is the normalized output record for one account.
//
// Email is empty until the filter stage runs; normalization never guesses
// it even though Bio is available earlier. HasEmail must always equal
// Email != "" once the filter has been applied.
type Profile struct {
	Topic      string `json:"topic"`
	Username   string `json:"username"`
	ProfileURL string `json:"profile_url"`
	Followers  int    `json:"followers"`
	Likes      int    `json:"likes"`
	Following  int    `json:"following"`
	Friends    int    `json:"friends"`
	VideoCount int    `json:"video_count"`
	Bio        string `json:"bio"`
	Email      string `json:"email"`
	HasEmail   bool   `json:"has_email"`
}

// URLFor returns the canonical profile URL for a username.
func URLFor(username string) string {
	return ProfileURLBase + username
}
