package content

import (
	"context"
	"encoding/json"
	"errors"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

// ContentRepository contract interface
type ContentRepository interface {
	FindAll(ctx context.Context) ([]domain.Content, error)
	FindByKey(ctx context.Context, key string) (domain.Content, error)
	Upsert(ctx context.Context, entries []domain.Content) error
}

// SecurityRepository contract interface
type SecurityRepository interface {
	RecordSecurityLog(ctx context.Context, entry *domain.SecurityLog) error
}

type ContentService struct {
	contentRepo  ContentRepository
	securityRepo SecurityRepository
}

func NewContentService(contentRepo ContentRepository, securityRepo SecurityRepository) *ContentService {
	return &ContentService{
		contentRepo:  contentRepo,
		securityRepo: securityRepo,
	}
}

// GetAll returns page copy grouped by section for the admin form and the
// rendered marketing pages.
func (s *ContentService) GetAll(ctx context.Context) (map[string][]domain.Content, error) {
	entries, err := s.contentRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load content", err)
		return nil, err
	}

	grouped := make(map[string][]domain.Content)
	for _, entry := range entries {
		section := entry.Section
		if section == "" {
			section = "general"
		}
		grouped[section] = append(grouped[section], entry)
	}

	return grouped, nil
}

func (s *ContentService) GetByKey(ctx context.Context, key string) (domain.Content, error) {
	if key == "" {
		return domain.Content{}, errors.New("content key is required")
	}

	return s.contentRepo.FindByKey(ctx, key)
}

// Update bulk-upserts key-value pairs and writes one audit entry listing the
// touched keys.
func (s *ContentService) Update(ctx context.Context, editorID uint, entries []domain.Content, ipAddress string) error {
	if len(entries) == 0 {
		return errors.New("no content entries provided")
	}

	keys := make([]string, 0, len(entries))
	for i := range entries {
		if entries[i].Key == "" {
			return errors.New("content key is required")
		}
		entries[i].UpdatedBy = editorID
		keys = append(keys, entries[i].Key)
	}

	if err := s.contentRepo.Upsert(ctx, entries); err != nil {
		logger.Error("Failed to upsert content", err)
		return err
	}

	detail, _ := json.Marshal(map[string]any{"keys": keys})
	logEntry := domain.SecurityLog{
		UserID:    editorID,
		Action:    domain.SecurityActionContentUpdate,
		Detail:    detail,
		IPAddress: ipAddress,
	}
	if err := s.securityRepo.RecordSecurityLog(ctx, &logEntry); err != nil {
		logger.Warn("Failed to write content audit entry", err)
	}

	logger.Info("Content updated", "editor_id", editorID, "keys", len(keys))
	return nil
}
