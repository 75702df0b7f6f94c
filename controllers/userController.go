package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/helpers"
	"go-restaurant-pos/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userResponse never carries the password hash.
type userResponse struct {
	User_id       string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	User_role     string    `json:"user_role"`
	Token         string    `json:"token,omitempty"`
	Refresh_token string    `json:"refresh_token,omitempty"`
	Created_at    time.Time `json:"created_at"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toUserResponse(u *models.User, token, refresh string) userResponse {
	return userResponse{
		User_id:       u.User_id,
		Name:          deref(u.Name),
		Email:         deref(u.Email),
		Phone:         deref(u.Phone),
		User_role:     deref(u.User_role),
		Token:         token,
		Refresh_token: refresh,
		Created_at:    u.Created_at,
	}
}

func (ctl *Controller) GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		users, err := ctl.Users.ListUsers(ctx)
		if err != nil {
			respondError(c, apperr.Persistence("users.List", err))
			return
		}
		out := make([]userResponse, len(users))
		for i := range users {
			out[i] = toUserResponse(&users[i], "", "")
		}
		c.JSON(http.StatusOK, out)
	}
}

// SignUp creates an account. The very first account may be an ADMIN; after
// that only a signed-in ADMIN can create another ADMIN.
func (ctl *Controller) SignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": apperr.KindInvalidInput})
			return
		}
		if validationErr := validate.Struct(&user); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "kind": apperr.KindInvalidInput})
			return
		}
		email := strings.ToLower(strings.TrimSpace(*user.Email))
		user.Email = &email

		ctx, cancel := ctl.context(c)
		defer cancel()

		if *user.User_role == models.RoleAdmin {
			existing, err := ctl.Users.ListUsers(ctx)
			if err != nil {
				respondError(c, apperr.Persistence("users.SignUp", err))
				return
			}
			if len(existing) > 0 && !ctl.callerIsAdmin(c) {
				c.JSON(http.StatusForbidden, gin.H{"error": "only an administrator can create another administrator"})
				return
			}
		}

		count, err := ctl.Users.CountUsersWith(ctx, email, *user.Phone)
		if err != nil {
			respondError(c, apperr.Persistence("users.SignUp", err))
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "email or phone number already exists", "kind": apperr.KindConflict})
			return
		}

		password, err := helpers.HashPassword(*user.Password)
		if err != nil {
			respondError(c, apperr.Persistence("users.SignUp", err))
			return
		}
		user.Password = &password
		user.Created_at = time.Now().UTC().Truncate(time.Second)
		user.Updated_at = user.Created_at
		user.ID = primitive.NewObjectID()
		user.User_id = user.ID.Hex()

		token, refreshToken, err := ctl.Tokens.GenerateAllTokens(email, *user.Name, user.User_id, *user.User_role)
		if err != nil {
			respondError(c, apperr.Persistence("users.SignUp", err))
			return
		}
		user.Token = &token
		user.Refresh_Token = &refreshToken

		if err := ctl.Users.CreateUser(ctx, &user); err != nil {
			respondError(c, apperr.Persistence("users.SignUp", err))
			return
		}
		c.JSON(http.StatusCreated, toUserResponse(&user, token, refreshToken))
	}
}

func (ctl *Controller) callerIsAdmin(c *gin.Context) bool {
	token := c.GetHeader("token")
	if token == "" {
		return false
	}
	claims, err := ctl.Tokens.ValidateToken(token)
	return err == nil && claims.User_role == models.RoleAdmin
}

func (ctl *Controller) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()

		foundUser, err := ctl.Users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			if apperr.IsNotFound(err) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "email or password is incorrect"})
				return
			}
			respondError(c, apperr.Persistence("users.Login", err))
			return
		}
		passwordIsValid, msg := helpers.VerifyPassword(req.Password, deref(foundUser.Password))
		if !passwordIsValid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		token, refreshToken, err := ctl.Tokens.GenerateAllTokens(deref(foundUser.Email), deref(foundUser.Name), foundUser.User_id, deref(foundUser.User_role))
		if err != nil {
			respondError(c, apperr.Persistence("users.Login", err))
			return
		}
		if err := ctl.Users.UpdateAllTokens(ctx, foundUser.User_id, token, refreshToken); err != nil {
			log.Printf("could not store tokens for user %s: %v", foundUser.User_id, err)
		}
		c.JSON(http.StatusOK, toUserResponse(foundUser, token, refreshToken))
	}
}
