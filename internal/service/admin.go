package service

import (
	"context"

	"petstore/internal/domain"
)

// Dashboard aggregates the back-office landing numbers.
type Dashboard struct {
	TotalProducts   int64            `json:"totalProducts"`
	TotalCategories int64            `json:"totalCategories"`
	TotalUsers      int64            `json:"totalUsers"`
	TotalOrders     int64            `json:"totalOrders"`
	LowStockCount   int64            `json:"lowStockCount"`
	RecentProducts  []domain.Product `json:"recentProducts"`
}

type Admin struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	users      domain.UserRepository
	orders     domain.OrderRepository
}

func NewAdmin(products domain.ProductRepository, categories domain.CategoryRepository, users domain.UserRepository, orders domain.OrderRepository) *Admin {
	return &Admin{products: products, categories: categories, users: users, orders: orders}
}

func (s *Admin) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var err error
	if d.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalCategories, err = s.categories.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, err
	}
	if d.LowStockCount, err = s.products.CountLowStock(ctx, LowStockThreshold); err != nil {
		return nil, err
	}
	if d.RecentProducts, err = s.products.Recent(ctx, 5); err != nil {
		return nil, err
	}
	return d, nil
}
