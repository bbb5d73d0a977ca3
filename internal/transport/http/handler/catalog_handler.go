// Package handler holds the storefront HTTP modules. Each handler mounts
// itself on the API group through the router registry.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"petstore/internal/domain"
	"petstore/internal/service"
	"petstore/internal/transport/http/ez"
)

type Catalog struct {
	svc *service.Catalog
}

func NewCatalog(svc *service.Catalog) *Catalog { return &Catalog{svc: svc} }

// Priority puts the catalog routes first in the mount order.
func (h *Catalog) Priority() int { return 10 }

func (h *Catalog) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	e.GET("/categories", func(c *gin.Context) (any, error) {
		items, err := h.svc.Categories(c.Request.Context())
		if err != nil {
			return nil, ez.Internal("list categories failed", err)
		}
		return gin.H{"items": items}, nil
	})

	e.GET("/products", func(c *gin.Context) (any, error) {
		f := domain.ProductFilter{Search: c.Query("q")}
		if cid, err := strconv.ParseUint(c.Query("categoryId"), 10, 32); err == nil {
			f.CategoryID = uint(cid)
		}
		page := atoiDefault(c.Query("page"), 1)
		size := atoiDefault(c.Query("size"), 20)

		items, total, err := h.svc.Products(c.Request.Context(), f, page, size)
		if err != nil {
			return nil, ez.Internal("list products failed", err)
		}
		return gin.H{"items": items, "total": total, "page": page, "size": size}, nil
	})

	e.GET("/products/:id", func(c *gin.Context) (any, error) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			return nil, ez.BadRequest("invalid product id")
		}
		p, err := h.svc.Product(c.Request.Context(), id)
		if err != nil {
			return nil, ez.Internal("load product failed", err)
		}
		if p == nil {
			return nil, ez.NotFound("product not found")
		}
		return p, nil
	})
}

func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint(v), err
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
