package models

import "time"

// Contact message statuses.
const (
	ContactUnread   = "unread"
	ContactRead     = "read"
	ContactReplied  = "replied"
	ContactArchived = "archived"
)

type Contact struct {
	ID           string     `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"firstName"`
	LastName     string     `db:"last_name" json:"lastName"`
	Email        string     `db:"email" json:"email"`
	Subject      string     `db:"subject" json:"subject"`
	Message      string     `db:"message" json:"message"`
	Status       string     `db:"status" json:"status"`
	IPAddress    string     `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent    string     `db:"user_agent" json:"userAgent,omitempty"`
	RepliedAt    *time.Time `db:"replied_at" json:"repliedAt,omitempty"`
	ReplyMessage *string    `db:"reply_message" json:"replyMessage,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
