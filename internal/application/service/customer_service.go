package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/pkg/apperror"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
	"github.com/sirupsen/logrus"
)

// CustomerRetention is how long a customer card is kept before the
// background purge removes it. Receipts and loans carry their own
// name/phone snapshots and are unaffected.
const CustomerRetention = 30 * 24 * time.Hour

// CustomerService handles customer operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerInput represents the create/update customer input
type CustomerInput struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	VehicleNo string `json:"vehicleNo" binding:"required"`
	Model     string `json:"model"`
}

// CreateCustomer creates a new customer card
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		Name:      input.Name,
		Phone:     input.Phone,
		VehicleNo: input.VehicleNo,
		Model:     input.Model,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomer updates a customer card
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	customer.Name = input.Name
	customer.Phone = input.Phone
	customer.VehicleNo = input.VehicleNo
	customer.Model = input.Model

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer deletes a customer card
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers lists customers with search and pagination
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// PurgeExpired removes customer cards older than the retention window.
// Runs from the background sweeper.
func (s *CustomerService) PurgeExpired(ctx context.Context) error {
	cutoff := time.Now().Add(-CustomerRetention)
	purged, err := s.customerRepo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		logrus.WithField("purged", purged).Info("Removed expired customer cards")
	}
	return nil
}
