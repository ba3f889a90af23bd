package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"autoapply/services"
	"autoapply/utils"
)

// AuthController exchanges the configured API key for a short-lived bearer
// token. No user accounts exist; there is one key per deployment.
type AuthController struct {
	JWTService *services.JWTService
	apiKeyHash string
	tokenTTL   time.Duration
}

func NewAuthController(jwtService *services.JWTService, apiKeyHash string) *AuthController {
	return &AuthController{
		JWTService: jwtService,
		apiKeyHash: apiKeyHash,
		tokenTTL:   24 * time.Hour,
	}
}

type tokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
	Client string `json:"client"`
}

// Token issues a JWT when the presented API key matches the stored bcrypt
// hash.
func (ctl *AuthController) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(c, "api_key is required", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ctl.apiKeyHash), []byte(req.APIKey)); err != nil {
		utils.UnauthorizedError(c, "Invalid API key")
		return
	}

	client := req.Client
	if client == "" {
		client = "default"
	}
	token, err := ctl.JWTService.GenerateToken(client, ctl.tokenTTL)
	if err != nil {
		utils.InternalServerError(c, "failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(ctl.tokenTTL.Seconds()),
	})
}
