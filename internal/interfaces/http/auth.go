package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/officeflow/conveyance/internal/application/service"
	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// actorKey is the gin context key holding the authenticated user
const actorKey = "actor"

// AuthHandlers implements registration, login and the bearer-token middleware
type AuthHandlers struct {
	userService service.UserService
	secret      []byte
	tokenTTL    time.Duration
	logger      Logger
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(userService service.UserService, secret string, tokenTTL time.Duration, logger Logger) *AuthHandlers {
	return &AuthHandlers{
		userService: userService,
		secret:      []byte(secret),
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// RegisterRequest represents a registration request body
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"required,role"`
	SupervisorID string `json:"supervisor_id"`
	Designation  string `json:"designation"`
}

// LoginRequest represents a login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued bearer token and its subject
type TokenResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Register handles POST /api/auth/register
func (a *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	user, err := a.userService.Register(c.Request.Context(), service.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         workflow.Role(req.Role),
		SupervisorID: req.SupervisorID,
		Designation:  req.Designation,
	})
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		a.logger.Error("Failed to issue token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: TokenResponse{Token: token, User: user}})
}

// Login handles POST /api/auth/login
func (a *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	user, err := a.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid email or password"})
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		a.logger.Error("Failed to issue token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: TokenResponse{Token: token, User: user}})
}

// ListUsers handles GET /api/users
func (a *AuthHandlers) ListUsers(c *gin.Context) {
	role := workflow.Role(c.Query("role"))
	if role != "" && !role.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown role"})
		return
	}

	users, err := a.userService.ListUsers(c.Request.Context(), role)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: users})
}

// Middleware authenticates the bearer token and resolves the actor from the
// identity directory
func (a *AuthHandlers) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "missing bearer token"})
			return
		}

		userID, err := a.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid token"})
			return
		}

		user, err := a.userService.GetUser(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "unknown user"})
			return
		}

		c.Set(actorKey, user)
		c.Next()
	}
}

// issueToken signs a token carrying the user id as subject
func (a *AuthHandlers) issueToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// parseToken verifies the token and returns its subject
func (a *AuthHandlers) parseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return token.Claims.GetSubject()
}

// actorFrom returns the authenticated user set by the middleware
func actorFrom(c *gin.Context) *entity.User {
	if v, ok := c.Get(actorKey); ok {
		if user, ok := v.(*entity.User); ok {
			return user
		}
	}
	return nil
}
