package content

import (
	"context"
	"errors"
	"testing"

	"tsuwallet/domain"
)

type fakeContentRepo struct {
	entries map[string]domain.Content
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{entries: make(map[string]domain.Content)}
}

func (r *fakeContentRepo) FindAll(_ context.Context) ([]domain.Content, error) {
	var out []domain.Content
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeContentRepo) FindByKey(_ context.Context, key string) (domain.Content, error) {
	e, ok := r.entries[key]
	if !ok {
		return domain.Content{}, errors.New("record not found")
	}
	return e, nil
}

func (r *fakeContentRepo) Upsert(_ context.Context, entries []domain.Content) error {
	for _, e := range entries {
		r.entries[e.Key] = e
	}
	return nil
}

type fakeSecurityRepo struct {
	logs []domain.SecurityLog
}

func (r *fakeSecurityRepo) RecordSecurityLog(_ context.Context, entry *domain.SecurityLog) error {
	r.logs = append(r.logs, *entry)
	return nil
}

func TestGetAll_GroupsBySection(t *testing.T) {
	repo := newFakeContentRepo()
	repo.entries["hero_title"] = domain.Content{Key: "hero_title", Value: "Trade settled", Section: "home"}
	repo.entries["hero_sub"] = domain.Content{Key: "hero_sub", Value: "In TSU", Section: "home"}
	repo.entries["footer_note"] = domain.Content{Key: "footer_note", Value: "(c) 2026"}

	svc := NewContentService(repo, &fakeSecurityRepo{})

	grouped, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(grouped["home"]) != 2 {
		t.Errorf("expected 2 home entries, got %d", len(grouped["home"]))
	}
	if len(grouped["general"]) != 1 {
		t.Errorf("entries without a section go to general, got %d", len(grouped["general"]))
	}
}

func TestUpdate_UpsertsAndAudits(t *testing.T) {
	repo := newFakeContentRepo()
	securityRepo := &fakeSecurityRepo{}
	svc := NewContentService(repo, securityRepo)

	err := svc.Update(context.Background(), 9, []domain.Content{
		{Key: "hero_title", Value: "New title", Section: "home"},
		{Key: "about_body", Value: "New body", Section: "about"},
	}, "10.0.0.9")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if repo.entries["hero_title"].Value != "New title" {
		t.Error("hero_title not updated")
	}
	if repo.entries["hero_title"].UpdatedBy != 9 {
		t.Error("editor id not recorded on the entry")
	}

	if len(securityRepo.logs) != 1 {
		t.Fatalf("expected one audit entry for the batch, got %d", len(securityRepo.logs))
	}
	if securityRepo.logs[0].Action != domain.SecurityActionContentUpdate {
		t.Errorf("wrong audit action %q", securityRepo.logs[0].Action)
	}
	if securityRepo.logs[0].UserID != 9 {
		t.Errorf("wrong audit user %d", securityRepo.logs[0].UserID)
	}
}

func TestUpdate_RejectsEmptyBatchAndMissingKeys(t *testing.T) {
	svc := NewContentService(newFakeContentRepo(), &fakeSecurityRepo{})

	if err := svc.Update(context.Background(), 1, nil, ""); err == nil {
		t.Error("expected error for empty batch")
	}
	if err := svc.Update(context.Background(), 1, []domain.Content{{Value: "orphan"}}, ""); err == nil {
		t.Error("expected error for entry without key")
	}
}

func TestGetByKey(t *testing.T) {
	repo := newFakeContentRepo()
	repo.entries["hero_title"] = domain.Content{Key: "hero_title", Value: "v"}
	svc := NewContentService(repo, &fakeSecurityRepo{})

	if _, err := svc.GetByKey(context.Background(), ""); err == nil {
		t.Error("expected error for empty key")
	}
	entry, err := svc.GetByKey(context.Background(), "hero_title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Value != "v" {
		t.Errorf("unexpected value %q", entry.Value)
	}
}
