package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petstore/internal/service"
	"petstore/internal/transport/http/ez"
	mdw "petstore/internal/transport/http/middleware"
	resp "petstore/internal/transport/http/response"
)

type Cart struct {
	svc *service.Cart
}

func NewCart(svc *service.Cart) *Cart { return &Cart{svc: svc} }

func (h *Cart) MountAPI(g *gin.RouterGroup) {
	cart := g.Group("/cart")
	cart.Use(mdw.RequireUser())

	cart.GET("", func(c *gin.Context) {
		view, err := h.svc.View(c.Request.Context(), mdw.SessionFrom(c))
		if err != nil {
			writeCartErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(view))
	})

	type addIn struct {
		ProductID uint `json:"productId" binding:"required"`
		Quantity  int  `json:"quantity"`
	}
	cart.POST("/items", func(c *gin.Context) {
		var in addIn
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		sess := mdw.SessionFrom(c)
		if err := h.svc.AddItem(c.Request.Context(), sess, in.ProductID, in.Quantity); err != nil {
			writeCartErr(c, err)
			return
		}
		view, err := h.svc.View(c.Request.Context(), sess)
		if err != nil {
			writeCartErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(view))
	})

	type qtyIn struct {
		Quantity int `json:"quantity"`
	}
	cart.PUT("/items/:id", func(c *gin.Context) {
		itemID, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "invalid item id"))
			return
		}
		var in qtyIn
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		sess := mdw.SessionFrom(c)
		if err := h.svc.UpdateQuantity(c.Request.Context(), sess, itemID, in.Quantity); err != nil {
			writeCartErr(c, err)
			return
		}
		view, err := h.svc.View(c.Request.Context(), sess)
		if err != nil {
			writeCartErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(view))
	})

	cart.DELETE("/items/:id", func(c *gin.Context) {
		itemID, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "invalid item id"))
			return
		}
		sess := mdw.SessionFrom(c)
		if err := h.svc.RemoveItem(c.Request.Context(), sess, itemID); err != nil {
			writeCartErr(c, err)
			return
		}
		view, err := h.svc.View(c.Request.Context(), sess)
		if err != nil {
			writeCartErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(view))
	})

	cart.DELETE("", func(c *gin.Context) {
		if err := h.svc.Clear(c.Request.Context(), mdw.SessionFrom(c)); err != nil {
			writeCartErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"cleared": true}))
	})
}

func writeCartErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotSignedIn):
		c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "sign in required"))
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "product not found"))
	default:
		var ae *ez.AErr
		if errors.As(err, &ae) {
			c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
	}
}
