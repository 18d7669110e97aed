package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bookshelf/internal/models"
	"bookshelf/internal/store"
	"bookshelf/internal/token"
	"bookshelf/internal/utils"
)

type AuthController struct {
	users   store.UserStore
	tokens  *token.Issuer
	email   *utils.SMTPClient
	baseURL string
	log     zerolog.Logger
}

func NewAuthController(users store.UserStore, tokens *token.Issuer, email *utils.SMTPClient, baseURL string, log zerolog.Logger) *AuthController {
	return &AuthController{users: users, tokens: tokens, email: email, baseURL: baseURL, log: log}
}

type signupPayload struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp creates an unverified user and mails a verification link. The mail
// is fire-and-forget: a delivery failure is logged, never rolled back.
func (a *AuthController) SignUp(c *gin.Context) {
	var p signupPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	p.Email = strings.ToLower(p.Email)

	hash, err := utils.HashPassword(p.Password)
	if err != nil {
		a.log.Error().Err(err).Msg("hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	verifyToken, err := a.tokens.IssueVerification(p.Username, p.Email)
	if err != nil {
		a.log.Error().Err(err).Msg("issue verification token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	user := models.User{
		Username:          p.Username,
		Email:             p.Email,
		PasswordHash:      hash,
		IsEmailVerified:   false,
		VerificationToken: &verifyToken,
	}
	if err := a.users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		a.log.Error().Err(err).Msg("create user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	link := fmt.Sprintf("%s/verify?token=%s", a.baseURL, verifyToken)
	go func() {
		if a.email == nil {
			return
		}
		if err := a.email.SendVerification(user.Email, link); err != nil {
			a.log.Error().Err(err).Str("email", user.Email).Msg("send verification email")
		}
	}()

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "token": verifyToken})
}

// Verify consumes a verification link. The token must parse as a
// verification token and still equal the one stored on the user record;
// a second call with the same token fails because the stored copy is gone.
func (a *AuthController) Verify(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token is required"})
		return
	}
	if _, err := a.tokens.ParseVerification(tokenStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
		return
	}

	user, err := a.users.FindByVerificationToken(c.Request.Context(), tokenStr)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
			return
		}
		a.log.Error().Err(err).Msg("lookup verification token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	if err := a.users.MarkVerified(c.Request.Context(), user); err != nil {
		a.log.Error().Err(err).Uint("user_id", user.ID).Msg("mark verified")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email successfully verified!"})
}

type loginPayload struct {
	Username string `json:"username" binding:"required_without=Email"`
	Email    string `json:"email" binding:"required_without=Username,omitempty,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates by username, falling back to email when no username
// is supplied. Unknown user and wrong password share one response.
func (a *AuthController) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username/email and password are required"})
		return
	}

	var (
		user *models.User
		err  error
	)
	if p.Username != "" {
		user, err = a.users.FindByUsername(c.Request.Context(), p.Username)
	} else {
		user, err = a.users.FindByEmail(c.Request.Context(), strings.ToLower(p.Email))
	}
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid username/email or password"})
			return
		}
		a.log.Error().Err(err).Msg("lookup user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	if !user.IsEmailVerified {
		c.JSON(http.StatusForbidden, gin.H{"message": "Please verify your email to login"})
		return
	}

	if err := utils.CheckPasswordHash(user.PasswordHash, p.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid username/email or password"})
		return
	}

	sessionToken, err := a.tokens.IssueSession(user.ID)
	if err != nil {
		a.log.Error().Err(err).Uint("user_id", user.ID).Msg("issue session token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"username": user.Username,
		"token":    sessionToken,
		"email":    user.Email,
		"userId":   user.ID,
	})
}
