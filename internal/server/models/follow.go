package models

import "time"

type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type FollowStats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}
