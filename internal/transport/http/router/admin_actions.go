package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"petstore/internal/core/auth"
	"petstore/internal/domain"
	"petstore/internal/repo"
	httpez "petstore/internal/transport/http/ez"
	mdw "petstore/internal/transport/http/middleware"
	"petstore/pkg/utils"
)

// mountAdminLogin exchanges back-office credentials for a bearer token.
func mountAdminLogin(g *gin.RouterGroup, db *gorm.DB, jwter *auth.JWTer) {
	ezPublic := httpez.New(g)

	type loginIn struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string `json:"token"`
		User  gin.H  `json:"user"`
	}
	httpez.RegisterAction[loginIn, loginOut](ezPublic, db, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *loginIn) (loginOut, error) {
			users := repo.NewUserRepo(tx)
			u, err := users.FindByLogin(c.Request.Context(), strings.TrimSpace(in.Login))
			if err != nil {
				return loginOut{}, httpez.Internal("db error", err)
			}
			if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}
			if u.Role != domain.RoleAdmin {
				return loginOut{}, httpez.Forbidden("admin role required")
			}
			tok, err := jwter.Issue(u.ID, u.Role)
			if err != nil || tok == "" {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{
				Token: tok,
				User:  gin.H{"id": u.ID, "username": u.Username, "role": u.Role},
			}, nil
		},
	})
}

// MountAdminActions registers the back-office endpoints. The group is already
// behind AuthJWT(Admin), so the actions skip their own role check.
func MountAdminActions(admin *gin.RouterGroup, d AdminDeps) {
	ezAdmin := httpez.New(admin)

	ezAdmin.GET("/dashboard", func(c *gin.Context) (any, error) {
		dash, err := d.Admin.Dashboard(c.Request.Context())
		if err != nil {
			return nil, httpez.Internal("load dashboard failed", err)
		}
		return dash, nil
	})

	mountProductActions(ezAdmin, d)
	mountCategoryActions(ezAdmin, d)
	mountUserActions(ezAdmin, d)
}

type productIn struct {
	Name        string          `json:"name" binding:"required,max=100"`
	CategoryID  uint            `json:"categoryId" binding:"required"`
	Breed       string          `json:"breed" binding:"required,max=50"`
	AgeInMonths int             `json:"ageInMonths" binding:"gte=0"`
	WeightInKg  decimal.Decimal `json:"weightInKg"`
	Price       decimal.Decimal `json:"price"`
	Gender      string          `json:"gender" binding:"omitempty,oneof=Male Female"`
	Color       string          `json:"color" binding:"max=30"`
	HealthInfo  string          `json:"healthInfo" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=1000"`
	ImageURL    string          `json:"imageUrl" binding:"omitempty,url,max=500"`
	Stock       int             `json:"stock" binding:"gte=0"`
}

func (in *productIn) apply(p *domain.Product) {
	p.Name = in.Name
	p.CategoryID = in.CategoryID
	p.Breed = in.Breed
	p.AgeInMonths = in.AgeInMonths
	p.WeightInKg = in.WeightInKg
	p.Price = in.Price
	p.Gender = in.Gender
	p.Color = in.Color
	p.HealthInfo = in.HealthInfo
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	p.Stock = in.Stock
}

func mountProductActions(ezAdmin httpez.EZ, d AdminDeps) {
	type listQ struct {
		Q          string `form:"q"`
		CategoryID uint   `form:"categoryId"`
		Page       int    `form:"page,default=1"`
		Size       int    `form:"size,default=20"`
	}
	type listOut struct {
		Total int64            `json:"total"`
		Items []domain.Product `json:"items"`
	}
	httpez.RegisterAction[listQ, listOut](ezAdmin, d.DB, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Page < 1 {
				in.Page = 1
			}
			if in.Size <= 0 || in.Size > 100 {
				in.Size = 20
			}
			products := repo.NewProductRepo(tx)
			f := domain.ProductFilter{Search: strings.TrimSpace(in.Q), CategoryID: in.CategoryID}
			items, total, err := products.List(c.Request.Context(), f, (in.Page-1)*in.Size, in.Size)
			if err != nil {
				return listOut{}, httpez.Internal("list products failed", err)
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	httpez.RegisterAction[productIn, *domain.Product](ezAdmin, d.DB, httpez.Action[productIn, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *productIn) (*domain.Product, error) {
			if !in.Price.IsPositive() {
				return nil, httpez.BadRequest("price must be positive")
			}
			categories := repo.NewCategoryRepo(tx)
			cat, err := categories.FindByID(c.Request.Context(), in.CategoryID)
			if err != nil {
				return nil, httpez.Internal("db error", err)
			}
			if cat == nil {
				return nil, httpez.BadRequest("unknown category")
			}
			var p domain.Product
			in.apply(&p)
			if err := repo.NewProductRepo(tx).Create(c.Request.Context(), &p); err != nil {
				return nil, httpez.Internal("create product failed", err)
			}
			d.Catalog.InvalidateProduct(c.Request.Context(), p.ID)
			return &p, nil
		},
	})

	httpez.RegisterAction[productIn, *domain.Product](ezAdmin, d.DB, httpez.Action[productIn, *domain.Product]{
		Method: http.MethodPut,
		Path:   "/products/:id",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *productIn) (*domain.Product, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, httpez.BadRequest("invalid product id")
			}
			if !in.Price.IsPositive() {
				return nil, httpez.BadRequest("price must be positive")
			}
			products := repo.NewProductRepo(tx)
			p, err := products.FindByID(c.Request.Context(), id)
			if err != nil {
				return nil, httpez.Internal("db error", err)
			}
			if p == nil {
				return nil, httpez.NotFound("product not found")
			}
			in.apply(p)
			p.Category = nil
			if err := products.Update(c.Request.Context(), p); err != nil {
				return nil, httpez.Internal("update product failed", err)
			}
			d.Catalog.InvalidateProduct(c.Request.Context(), p.ID)
			return p, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ezAdmin, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, httpez.BadRequest("invalid product id")
			}
			ok, err := repo.NewProductRepo(tx).Delete(c.Request.Context(), id)
			if err != nil {
				return nil, httpez.Internal("delete product failed", err)
			}
			if !ok {
				return nil, httpez.NotFound("product not found")
			}
			d.Catalog.InvalidateProduct(c.Request.Context(), id)
			return gin.H{"id": id}, nil
		},
	})
}

func mountCategoryActions(ezAdmin httpez.EZ, d AdminDeps) {
	type categoryIn struct {
		Name        string `json:"name" binding:"required,max=50"`
		Description string `json:"description" binding:"max=500"`
	}

	httpez.RegisterAction[struct{}, gin.H](ezAdmin, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			items, err := repo.NewCategoryRepo(tx).List(c.Request.Context())
			if err != nil {
				return nil, httpez.Internal("list categories failed", err)
			}
			return gin.H{"items": items}, nil
		},
	})

	httpez.RegisterAction[categoryIn, *domain.Category](ezAdmin, d.DB, httpez.Action[categoryIn, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *categoryIn) (*domain.Category, error) {
			cat := domain.Category{Name: in.Name, Description: in.Description}
			if err := repo.NewCategoryRepo(tx).Create(c.Request.Context(), &cat); err != nil {
				return nil, httpez.Internal("create category failed", err)
			}
			return &cat, nil
		},
	})

	httpez.RegisterAction[categoryIn, *domain.Category](ezAdmin, d.DB, httpez.Action[categoryIn, *domain.Category]{
		Method: http.MethodPut,
		Path:   "/categories/:id",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *categoryIn) (*domain.Category, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, httpez.BadRequest("invalid category id")
			}
			categories := repo.NewCategoryRepo(tx)
			cat, err := categories.FindByID(c.Request.Context(), id)
			if err != nil {
				return nil, httpez.Internal("db error", err)
			}
			if cat == nil {
				return nil, httpez.NotFound("category not found")
			}
			cat.Name = in.Name
			cat.Description = in.Description
			if err := categories.Update(c.Request.Context(), cat); err != nil {
				return nil, httpez.Internal("update category failed", err)
			}
			return cat, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ezAdmin, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/categories/:id",
		Binder: httpez.BindNone,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, httpez.BadRequest("invalid category id")
			}
			categories := repo.NewCategoryRepo(tx)
			inUse, err := categories.HasProducts(c.Request.Context(), id)
			if err != nil {
				return nil, httpez.Internal("db error", err)
			}
			if inUse {
				return nil, httpez.Conflict("category still has products")
			}
			ok, err := categories.Delete(c.Request.Context(), id)
			if err != nil {
				return nil, httpez.Internal("delete category failed", err)
			}
			if !ok {
				return nil, httpez.NotFound("category not found")
			}
			return gin.H{"id": id}, nil
		},
	})
}

func mountUserActions(ezAdmin httpez.EZ, d AdminDeps) {
	type listQ struct {
		Q    string `form:"q"`
		Role string `form:"role"`
		Page int    `form:"page,default=1"`
		Size int    `form:"size,default=20"`
	}
	type listOut struct {
		Total int64         `json:"total"`
		Items []domain.User `json:"items"`
	}
	httpez.RegisterAction[listQ, listOut](ezAdmin, d.DB, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Page < 1 {
				in.Page = 1
			}
			if in.Size <= 0 || in.Size > 100 {
				in.Size = 20
			}
			users := repo.NewUserRepo(tx)
			items, total, err := users.List(c.Request.Context(), strings.TrimSpace(in.Q), in.Role, (in.Page-1)*in.Size, in.Size)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	type resetIn struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	httpez.RegisterAction[resetIn, gin.H](ezAdmin, d.DB, httpez.Action[resetIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/users/:id/password",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *resetIn) (gin.H, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, httpez.BadRequest("invalid user id")
			}
			users := repo.NewUserRepo(tx)
			u, err := users.FindByID(c.Request.Context(), id)
			if err != nil {
				return nil, httpez.Internal("db error", err)
			}
			if u == nil {
				return nil, httpez.NotFound("user not found")
			}
			u.PasswordHash = utils.HashPassword(in.Password)
			if err := users.Update(c.Request.Context(), u); err != nil {
				return nil, httpez.Internal("reset password failed", err)
			}
			return gin.H{"id": id}, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ezAdmin, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, httpez.BadRequest("invalid user id")
			}
			if claims := mdw.ClaimsFrom(c); claims != nil && claims.UID == id {
				return nil, httpez.Conflict("cannot delete your own account")
			}
			ok, err := repo.NewUserRepo(tx).Delete(c.Request.Context(), id)
			if err != nil {
				return nil, httpez.Internal("delete user failed", err)
			}
			if !ok {
				return nil, httpez.NotFound("user not found")
			}
			return gin.H{"id": id}, nil
		},
	})
}

func paramID(c *gin.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(v), err
}
