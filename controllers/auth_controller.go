package controllers

import (
	"github.com/aldairalfaro98/prueba-agent-toteat/configs"
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/resp"
	"github.com/aldairalfaro98/prueba-agent-toteat/repository"
	"github.com/aldairalfaro98/prueba-agent-toteat/services"
	"github.com/aldairalfaro98/prueba-agent-toteat/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct{ Svc *services.AuthService }

func NewAuthController(db *gorm.DB) *AuthController {
	cfg := configs.LoadConfig()
	svc := services.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTTTL)
	return &AuthController{Svc: svc}
}

// POST /auth/register
func (h *AuthController) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := h.Svc.Register(req.Email, req.Password, req.FirstName, req.LastName, req.Role)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, user)
}

// POST /auth/login
func (h *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	token, user, err := h.Svc.Login(req.Email, req.Password)
	if err != nil {
		resp.Unauthorized(c, "invalid credentials")
		return
	}
	resp.OK(c, gin.H{"token": token, "user": user})
}

// GET /auth/me
func (h *AuthController) Me(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	user, err := h.Svc.GetProfile(uid)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, user)
}
