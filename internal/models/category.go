package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Category struct {
	ID        gocql.UUID `json:"id"`
	Name      string     `json:"name"`
	NameTA    string     `json:"name_ta,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type CategoryPatch struct {
	Name   *string `json:"name"`
	NameTA *string `json:"name_ta"`
	Icon   *string `json:"icon"`
}

func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.NameTA == nil && p.Icon == nil
}

func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.NameTA != nil {
		c.NameTA = *p.NameTA
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
}
