package models

import "time"

// Project statuses.
const (
	ProjectActive   = "active"
	ProjectInactive = "inactive"
	ProjectArchived = "archived"
)

type Project struct {
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Technologies StringList `db:"technologies" json:"technologies"`
	GithubURL    string     `db:"github_url" json:"githubUrl,omitempty"`
	LiveURL      string     `db:"live_url" json:"liveUrl,omitempty"`
	Featured     bool       `db:"featured" json:"featured"`
	Image        string     `db:"image" json:"image,omitempty"`
	Order        int        `db:"sort_order" json:"order"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// ProjectFilter narrows project listings. An empty Status lists every status.
type ProjectFilter struct {
	Status       string
	FeaturedOnly bool
	Limit        int
}
