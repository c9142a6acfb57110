package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

// ContactRepository contract interface
type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
	FindAll(ctx context.Context, offset, limit int) ([]domain.ContactMessage, error)
	MarkRead(ctx context.Context, id uint) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

type ContactService struct {
	contactRepo ContactRepository
	notifRepo   NotificationRepository
	validate    *validator.Validate
	adminEmail  string
}

func NewContactService(contactRepo ContactRepository, notifRepo NotificationRepository, validate *validator.Validate, adminEmail string) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		notifRepo:   notifRepo,
		validate:    validate,
		adminEmail:  adminEmail,
	}
}

func (s *ContactService) Submit(ctx context.Context, msg *domain.ContactMessage) (domain.ContactMessage, error) {
	if err := s.validate.Var(msg.Email, "required,email"); err != nil {
		return domain.ContactMessage{}, errors.New("invalid email format")
	}

	if msg.Name == "" || msg.Message == "" {
		return domain.ContactMessage{}, errors.New("name and message are required")
	}

	if err := s.contactRepo.Create(ctx, msg); err != nil {
		logger.Error("Failed to store contact message", err)
		return domain.ContactMessage{}, err
	}

	// best effort, the message is already stored
	if s.adminEmail != "" {
		body := fmt.Sprintf("New contact message from %v (%v):</br></br>%v", msg.Name, msg.Email, msg.Message)
		if err := s.notifRepo.SendEmail("Admin", s.adminEmail, "New contact message: "+msg.Subject, body); err != nil {
			logger.Warn("Failed to notify admin of contact message", err)
		}
	}

	return *msg, nil
}

func (s *ContactService) List(ctx context.Context, page, pageSize int) ([]domain.ContactMessage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return s.contactRepo.FindAll(ctx, (page-1)*pageSize, pageSize)
}

func (s *ContactService) MarkRead(ctx context.Context, id uint) error {
	return s.contactRepo.MarkRead(ctx, id)
}
