package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/middleware"
	"github.com/iliyamo/clothing-store/internal/service"
)

// UserHandler bundles dependencies for the account endpoints.
type UserHandler struct {
	Auth      *service.AuthService
	Customers *service.CustomerService
	Log       *zap.Logger
}

func NewUserHandler(auth *service.AuthService, customers *service.CustomerService, log *zap.Logger) *UserHandler {
	return &UserHandler{Auth: auth, Customers: customers, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// loginReq accepts the OAuth2 password form (username, password) as well
// as a JSON body with the same fields.
type loginReq struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResp struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Register: POST /users
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	id, err := h.Auth.Register(ctx, service.Registration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "message": "User created successfully"})
}

// Login: POST /users/login
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	tok, err := h.Auth.Login(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: tok.Token, TokenType: "bearer"})
}

// Me: GET /users/me
func (h *UserHandler) Me(c echo.Context) error {
	cust, ok := middleware.CurrentCustomer(c)
	if !ok {
		return middleware.Unauthorized(c, "not authenticated")
	}
	return c.JSON(http.StatusOK, meResp{
		ID:        cust.ID,
		FirstName: cust.FirstName,
		LastName:  cust.LastName,
		Email:     cust.Email,
		Role:      string(cust.Role),
	})
}

// Delete: DELETE /users/:id (admin)
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "user id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Customers.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
