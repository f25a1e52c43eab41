package models

import "time"

type Learner struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	CurrentPath  string     `json:"current_path,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}
