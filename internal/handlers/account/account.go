// Package account serves sign-up, sign-in and password management.
package account

import (
	"net/http"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/auth"
	"jp_storefront/internal/handlers"
	"jp_storefront/internal/middleware"
	"jp_storefront/internal/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	d *handlers.Deps
}

func New(d *handlers.Deps) *Handler {
	return &Handler{d: d}
}

// POST /api/auth/signup
func (h *Handler) SignUp(c *gin.Context) {
	var in auth.SignUpInput
	if !handlers.BindJSON(c, &in) {
		return
	}
	u, err := h.d.Auth.SignUp(c.Request.Context(), in)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

// POST /api/auth/signin
func (h *Handler) SignIn(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !handlers.BindJSON(c, &in) {
		return
	}
	token, u, err := h.d.Auth.SignIn(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// POST /api/auth/signout
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.d.Auth.SignOut(c.Request.Context(), c.GetString(middleware.KeyToken)); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// POST /api/auth/password/forgot
// Answers the same whether or not the email has an account.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if !handlers.BindJSON(c, &in) {
		return
	}
	if err := h.d.Auth.RequestPasswordReset(c.Request.Context(), in.Email); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "if this email has an account, a reset link has been sent"})
}

// POST /api/auth/password/reset
func (h *Handler) ResetPassword(c *gin.Context) {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !handlers.BindJSON(c, &in) {
		return
	}
	if err := h.d.Auth.ResetPassword(c.Request.Context(), in.Token, in.NewPassword); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// PUT /api/auth/password
func (h *Handler) UpdatePassword(c *gin.Context) {
	var in struct {
		NewPassword string `json:"new_password"`
	}
	if !handlers.BindJSON(c, &in) {
		return
	}
	if err := h.d.Auth.UpdatePassword(c.Request.Context(), c.GetString(middleware.KeyUserID), in.NewPassword); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	u, err := h.d.Auth.User(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// GET /api/auth/is-admin
func (h *Handler) IsAdmin(c *gin.Context) {
	isAdmin, err := h.d.Auth.IsAdmin(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_admin": isAdmin})
}

// GET /api/auth/orders
// The signed-in customer's orders, newest first.
func (h *Handler) MyOrders(c *gin.Context) {
	userID := c.GetString(middleware.KeyUserID)
	orders, err := h.d.Store.ListOrders(c.Request.Context(), models.OrderFilter{UserID: &userID})
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /api/auth/orders/:order_id
func (h *Handler) MyOrder(c *gin.Context) {
	o, err := h.d.Store.GetOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	if o.UserID == nil || *o.UserID != c.GetString(middleware.KeyUserID) {
		handlers.WriteError(c, apperr.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, o)
}
