// Package admin serves the back office. Every route sits behind
// AuthRequired and RequireAdmin.
package admin

import (
	"jp_storefront/internal/handlers"
)

type Handler struct {
	d *handlers.Deps
}

func New(d *handlers.Deps) *Handler {
	return &Handler{d: d}
}
