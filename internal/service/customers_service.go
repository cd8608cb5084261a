package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"loungepos/internal/models"
	"loungepos/internal/notify"
	"loungepos/internal/store"
)

// CustomersService owns the customer roster.
type CustomersService struct {
	store    store.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewCustomersService builds service.
func NewCustomersService(st store.Store, notifier Notifier, logger *zap.Logger) *CustomersService {
	return &CustomersService{store: st, notifier: notifier, logger: logger}
}

// CustomerInput carries operator-provided customer attributes.
type CustomerInput struct {
	Name  string
	Phone string
	Email string
}

func (in *CustomerInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	return nil
}

// Create registers a customer with zero loyalty points.
func (c *CustomersService) Create(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	customer := &models.Customer{Name: input.Name, Phone: input.Phone, Email: input.Email}
	if err := c.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	c.notifier.Broadcast(notify.Event{Type: notify.EventCustomerCreated, Data: customer})
	return customer, nil
}

// Get returns one customer.
func (c *CustomersService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	return c.store.GetCustomer(ctx, id)
}

// List returns all customers.
func (c *CustomersService) List(ctx context.Context) ([]models.Customer, error) {
	return c.store.ListCustomers(ctx)
}

// Update rewrites a customer's contact fields. Loyalty points are not
// editable through this path.
func (c *CustomersService) Update(ctx context.Context, id int64, input CustomerInput) (*models.Customer, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	customer := &models.Customer{ID: id, Name: input.Name, Phone: input.Phone, Email: input.Email}
	if err := c.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	updated, err := c.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.notifier.Broadcast(notify.Event{Type: notify.EventCustomerUpdated, Data: updated})
	return updated, nil
}

// Delete removes a customer.
func (c *CustomersService) Delete(ctx context.Context, id int64) error {
	if err := c.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	c.logger.Info("customer deleted", zap.Int64("customer_id", id))
	c.notifier.Broadcast(notify.Event{Type: notify.EventCustomerDeleted, Data: map[string]int64{"id": id}})
	return nil
}
