package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petstore/internal/service"
	mdw "petstore/internal/transport/http/middleware"
	resp "petstore/internal/transport/http/response"
)

type Checkout struct {
	svc  *service.Checkout
	cart *service.Cart
}

func NewCheckout(svc *service.Checkout, cart *service.Cart) *Checkout {
	return &Checkout{svc: svc, cart: cart}
}

func (h *Checkout) MountAPI(g *gin.RouterGroup) {
	co := g.Group("/checkout")
	co.Use(mdw.RequireUser())

	// GET shows the order summary the form is submitted against.
	co.GET("", func(c *gin.Context) {
		view, err := h.cart.View(c.Request.Context(), mdw.SessionFrom(c))
		if err != nil {
			writeCartErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"cart": view, "total": view.Total}))
	})

	co.POST("", func(c *gin.Context) {
		var form service.CheckoutForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		sess := mdw.SessionFrom(c)

		// total is computed from the live cart before it is emptied
		view, err := h.cart.View(c.Request.Context(), sess)
		if err != nil {
			writeCartErr(c, err)
			return
		}

		result, err := h.svc.Submit(c.Request.Context(), sess, &form)
		if err != nil {
			writeCartErr(c, err)
			return
		}
		result.Total = view.Total
		if !result.Success {
			c.JSON(http.StatusOK, resp.New(resp.CodeBadRequest, "validation failed", result))
			return
		}
		c.JSON(http.StatusOK, resp.OK(result))
	})
}
