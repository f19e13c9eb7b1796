package models

import "time"

type SkillItem struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Level int    `json:"level" validate:"min=0,max=100"`
	Icon  string `json:"icon,omitempty"`
}

// SkillCategory groups skills under one heading such as "Backend".
type SkillCategory struct {
	ID        string     `db:"id" json:"id"`
	Category  string     `db:"category" json:"category"`
	Skills    SkillItems `db:"items" json:"skills"`
	Order     int        `db:"sort_order" json:"order"`
	IsActive  bool       `db:"is_active" json:"isActive"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// AverageLevel is the mean skill level of the category, 0 when empty.
func (c *SkillCategory) AverageLevel() float64 {
	if len(c.Skills) == 0 {
		return 0
	}
	total := 0
	for _, s := range c.Skills {
		total += s.Level
	}
	return float64(total) / float64(len(c.Skills))
}
