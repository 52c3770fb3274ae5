package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/storage"
)

func TestExportStandings(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A", "B")
	env.generate(t)

	uploader, err := storage.NewMemoryUploader("https://cdn.example.com/")
	if err != nil {
		t.Fatalf("NewMemoryUploader: %v", err)
	}
	svc := NewExportService(env.standings, env.store, uploader, NewAccessGate(), nil)

	if _, err := svc.ExportStandings(context.Background(), models.Anonymous); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	res, err := svc.ExportStandings(context.Background(), admin)
	if err != nil {
		t.Fatalf("ExportStandings: %v", err)
	}
	if !strings.HasPrefix(res.Key, "standings/") || !strings.HasSuffix(res.Key, ".json") {
		t.Fatalf("unexpected key %q", res.Key)
	}
	if res.URL != "https://cdn.example.com/"+res.Key {
		t.Fatalf("unexpected URL %q", res.URL)
	}

	data, ok := uploader.Object(res.Key)
	if !ok {
		t.Fatalf("snapshot %q not uploaded", res.Key)
	}
	var snap models.StandingsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.RoundCount != 1 || len(snap.Standings) != 2 || snap.GeneratedAt == "" {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
}

func TestExportDisabledWithoutUploader(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.standings, env.store, nil, NewAccessGate(), nil)
	if _, err := svc.ExportStandings(context.Background(), admin); !errors.Is(err, ErrExportDisabled) {
		t.Fatalf("expected ErrExportDisabled, got %v", err)
	}
	if _, err := svc.StartSchedule(0); !errors.Is(err, ErrExportDisabled) {
		t.Fatalf("expected ErrExportDisabled from StartSchedule, got %v", err)
	}
}
