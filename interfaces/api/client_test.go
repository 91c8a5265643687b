package api

import (
	"context"
	"errors"
	"testing"
)

func TestOpenDefaults(t *testing.T) {
	ctx := context.Background()

	client, err := Open(ctx, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer client.Close(ctx)

	if client.Service() == nil {
		t.Error("Service() = nil")
	}
	if client.Stats() == nil {
		t.Error("Stats() = nil")
	}
	if client.Sweeper() == nil {
		t.Error("Sweeper() = nil")
	}
	if client.Engine() == nil {
		t.Error("Engine() = nil")
	}
}

func TestOpenMemoryLifecycle(t *testing.T) {
	ctx := context.Background()

	client, err := Open(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer client.Close(ctx)

	svc := client.Service()

	b, err := svc.Create(ctx, CreateInput{
		Title:       "Forest Conservation Bill",
		Category:    CategoryGovernment,
		OriginHouse: HouseOfRepresentatives,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.Status != StatusDraft {
		t.Errorf("Status = %v, want %v", b.Status, StatusDraft)
	}

	updated, err := svc.Apply(ctx, b.ID, StatusLawMinistryReview, RoleMinistry, Facts{}, "forwarded")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if updated.Status != StatusLawMinistryReview {
		t.Errorf("Status = %v, want %v", updated.Status, StatusLawMinistryReview)
	}
	if len(updated.History) != 1 {
		t.Errorf("History length = %d, want 1", len(updated.History))
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Driver = "cassandra"

	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("Open() error = nil, want unknown driver error")
	}
}

func TestApplyDeniedThroughFacade(t *testing.T) {
	ctx := context.Background()

	client, err := Open(ctx, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer client.Close(ctx)

	svc := client.Service()
	b, err := svc.Create(ctx, CreateInput{
		Title:       "Private Member Bill",
		Category:    CategoryPrivate,
		OriginHouse: NationalAssembly,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Apply(ctx, b.ID, StatusGazettePublished, RolePublic, Facts{}, "")
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Errorf("Apply() error = %v, want ErrTransitionNotAllowed", err)
	}
}

func TestOpenWithWebhookEndpoints(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Webhooks.Endpoints = []WebhookEndpointConfig{
		{
			URL:        "https://hooks.example.com/bills",
			Secret:     "s3cret",
			EventTypes: []string{string(EventTransitionApplied)},
		},
	}

	client, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := client.Close(ctx); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenRejectsEmptyWebhookURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhooks.Endpoints = []WebhookEndpointConfig{{URL: ""}}

	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("Open() error = nil, want invalid endpoint error")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	ctx := context.Background()

	client, err := Open(ctx, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := client.Close(ctx); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := client.Close(ctx); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
