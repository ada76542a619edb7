package loyalty

import "time"

type Reward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PointsCost  int    `json:"pointsCost"`
}

type Redemption struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	RewardID        string    `json:"rewardId"`
	PointsSpent     int       `json:"pointsSpent"`
	RemainingPoints int       `json:"remainingPoints"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Catalog struct {
	Rewards []Reward `json:"rewards"`
	Balance *int     `json:"balance,omitempty"`
}
