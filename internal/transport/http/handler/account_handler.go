package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petstore/internal/domain"
	"petstore/internal/service"
	mdw "petstore/internal/transport/http/middleware"
	resp "petstore/internal/transport/http/response"
)

type Account struct {
	svc          *service.Account
	cookieName   string
	cookieSecure bool
}

func NewAccount(svc *service.Account, cookieName string, cookieSecure bool) *Account {
	return &Account{svc: svc, cookieName: cookieName, cookieSecure: cookieSecure}
}

func (h *Account) Priority() int { return 20 }

func (h *Account) MountAPI(g *gin.RouterGroup) {
	g.POST("/auth/register", func(c *gin.Context) {
		var in service.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		u, fieldErrs, err := h.svc.Register(c.Request.Context(), mdw.SessionFrom(c), in)
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		if fieldErrs != nil {
			c.JSON(http.StatusOK, resp.New(resp.CodeConflict, "registration failed", gin.H{"fieldErrors": fieldErrs}))
			return
		}
		c.JSON(http.StatusOK, resp.OK(userOut(u)))
	})

	type loginIn struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	g.POST("/auth/login", func(c *gin.Context) {
		var in loginIn
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		u, err := h.svc.Login(c.Request.Context(), mdw.SessionFrom(c), in.Login, in.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid username or password"))
				return
			}
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(userOut(u)))
	})

	g.POST("/auth/logout", func(c *gin.Context) {
		if err := h.svc.Logout(c.Request.Context(), mdw.SessionFrom(c)); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		c.SetCookie(h.cookieName, "", -1, "/", "", h.cookieSecure, true)
		c.JSON(http.StatusOK, resp.OK(gin.H{"signedOut": true}))
	})

	acc := g.Group("/account")
	acc.Use(mdw.RequireUser())

	acc.GET("/profile", func(c *gin.Context) {
		u, err := h.svc.Profile(c.Request.Context(), mdw.SessionFrom(c).UserID)
		if err != nil {
			writeAccountErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(userOut(u)))
	})

	type profileIn struct {
		FullName string `json:"fullName" binding:"required,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone" binding:"omitempty,len=10,number"`
	}
	acc.PUT("/profile", func(c *gin.Context) {
		var in profileIn
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		uid := mdw.SessionFrom(c).UserID
		if err := h.svc.UpdateProfile(c.Request.Context(), uid, in.FullName, in.Email, in.Phone); err != nil {
			writeAccountErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"updated": true}))
	})

	type passwordIn struct {
		Current string `json:"current" binding:"required"`
		New     string `json:"new" binding:"required,min=6"`
	}
	acc.PUT("/password", func(c *gin.Context) {
		var in passwordIn
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		uid := mdw.SessionFrom(c).UserID
		if err := h.svc.ChangePassword(c.Request.Context(), uid, in.Current, in.New); err != nil {
			writeAccountErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"changed": true}))
	})
}

func writeAccountErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "user not found"))
	case errors.Is(err, service.ErrWrongPassword):
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "incorrect current password"))
	default:
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
	}
}

func userOut(u *domain.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"fullName": u.FullName,
		"phone":    u.PhoneNumber,
		"role":     u.Role,
	}
}
