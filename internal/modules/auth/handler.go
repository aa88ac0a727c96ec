package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lodgebooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}

	token, member, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":  token,
		"member": member,
	})
}

func (h *Handler) Me(c *gin.Context) {
	member, err := h.service.Me(c.Request.Context(), c.GetInt("share_number"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Member not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"member": member})
}
