package models

type Platform struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
)

var CanonicalPlatforms = []string{
	PlatformFacebook,
	PlatformInstagram,
	PlatformTwitter,
	PlatformLinkedIn,
}
