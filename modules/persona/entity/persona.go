package entity

import (
	"hangout-api/core/entity"
)

const DefaultPersonaName = "Me"

// Persona is a named face a user presents on hangouts.
type Persona struct {
	entity.BaseEntity
	UserID    string `db:"user_id" json:"user_id"`
	Name      string `db:"name" json:"name"`
	Handle    string `db:"handle" json:"handle"`
	IsDefault bool   `db:"is_default" json:"is_default"`
}
