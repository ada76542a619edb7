package newsletter

import "time"

type Preferences struct {
	ProductUpdates bool `json:"productUpdates"`
	Promotions     bool `json:"promotions"`
	WeeklyDigest   bool `json:"weeklyDigest"`
}

func DefaultPreferences() Preferences {
	return Preferences{ProductUpdates: true, Promotions: true}
}

type Subscription struct {
	Email       string      `json:"email"`
	IsActive    bool        `json:"isActive"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
