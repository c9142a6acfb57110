package commodity

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

// CommodityRepository contract interface
type CommodityRepository interface {
	Create(ctx context.Context, reg *domain.CommodityRegistration) error
	FindByID(ctx context.Context, id uint) (domain.CommodityRegistration, error)
	FindAll(ctx context.Context, offset, limit int) ([]domain.CommodityRegistration, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type CommodityService struct {
	commodityRepo CommodityRepository
	validate      *validator.Validate
}

func NewCommodityService(commodityRepo CommodityRepository, validate *validator.Validate) *CommodityService {
	return &CommodityService{
		commodityRepo: commodityRepo,
		validate:      validate,
	}
}

func (s *CommodityService) Register(ctx context.Context, reg *domain.CommodityRegistration) (domain.CommodityRegistration, error) {
	if err := s.validate.Var(reg.ContactEmail, "required,email"); err != nil {
		return domain.CommodityRegistration{}, errors.New("invalid contact email")
	}

	if reg.CompanyName == "" || reg.CommodityType == "" {
		return domain.CommodityRegistration{}, errors.New("company name and commodity type are required")
	}

	if reg.Quantity.LessThan(decimal.Zero) {
		return domain.CommodityRegistration{}, errors.New("quantity cannot be negative")
	}

	reg.Status = "received"
	if err := s.commodityRepo.Create(ctx, reg); err != nil {
		logger.Error("Failed to create commodity registration", err)
		return domain.CommodityRegistration{}, err
	}

	logger.Info("Commodity registration received", "company", reg.CompanyName, "type", reg.CommodityType)
	return *reg, nil
}

func (s *CommodityService) List(ctx context.Context, page, pageSize int) ([]domain.CommodityRegistration, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return s.commodityRepo.FindAll(ctx, (page-1)*pageSize, pageSize)
}

// UpdateStatus sets the free-text workflow status on a registration.
func (s *CommodityService) UpdateStatus(ctx context.Context, id uint, status string) (domain.CommodityRegistration, error) {
	if status == "" {
		return domain.CommodityRegistration{}, errors.New("status is required")
	}

	if err := s.commodityRepo.UpdateStatus(ctx, id, status); err != nil {
		logger.Error("Failed to update registration status", err)
		return domain.CommodityRegistration{}, err
	}

	return s.commodityRepo.FindByID(ctx, id)
}
