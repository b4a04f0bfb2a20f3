package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/contacts/internal/core/contact"
	"github.com/example/contacts/internal/core/effects"
	"github.com/example/contacts/internal/metrics"
	"github.com/example/contacts/internal/ports/secondary"
)

func newTestExecutor(repo secondary.ContactRepository, photos secondary.PhotoStore) (*DefaultEffectExecutor, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewEffectExecutor(repo, photos, metrics.New(reg), discardLogger()), reg
}

// metricValue returns the value of the counter or gauge series name{label=value}.
// An empty label matches the unlabeled series.
func metricValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			matched := label == ""
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					matched = true
				}
			}
			if !matched {
				continue
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func TestEffectExecutor_DeletePlan(t *testing.T) {
	ctx := context.Background()
	repo := newFaultyContactRepository()
	id, _ := repo.Insert(ctx, &secondary.ContactRecord{GivenName: "Ana", PhotoPath: "/photos/a.jpg"})
	photos := newMockPhotoStore("/photos/a.jpg")
	executor, _ := newTestExecutor(repo, photos)

	plan := contact.PlanDelete(contact.DeletePlanInput{
		ContactID:       id,
		RecordExists:    true,
		StoredPhotoPath: "/photos/a.jpg",
	})
	if err := executor.Execute(ctx, plan.Effects()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if _, err := repo.GetByID(ctx, id); !errors.Is(err, secondary.ErrContactNotFound) {
		t.Errorf("expected contact to be deleted, got err %v", err)
	}
	if exists, _ := photos.Exists(ctx, "/photos/a.jpg"); exists {
		t.Error("expected photo to be removed")
	}
}

func TestEffectExecutor_FileRemove(t *testing.T) {
	tests := []struct {
		name        string
		existing    []string
		removeErr   error
		bestEffort  bool
		wantErr     bool
		wantOutcome string
	}{
		{name: "removes existing file", existing: []string{"/p.jpg"}, bestEffort: true, wantOutcome: metrics.PhotoRemoved},
		{name: "missing file is not fatal", bestEffort: true, wantOutcome: metrics.PhotoMissing},
		{name: "io error is not fatal", existing: []string{"/p.jpg"}, removeErr: errors.New("permission denied"), bestEffort: true, wantOutcome: metrics.PhotoFailed},
		{name: "missing file fails strict removal", wantErr: true, wantOutcome: metrics.PhotoMissing},
		{name: "io error fails strict removal", existing: []string{"/p.jpg"}, removeErr: errors.New("permission denied"), wantErr: true, wantOutcome: metrics.PhotoFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photos := newMockPhotoStore(tt.existing...)
			photos.removeErr = tt.removeErr
			executor, reg := newTestExecutor(newFaultyContactRepository(), photos)

			err := executor.Execute(context.Background(), []effects.Effect{
				effects.FileEffect{Operation: "remove", Path: "/p.jpg", BestEffort: tt.bestEffort},
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := metricValue(t, reg, "contacts_photo_removals_total", "result", tt.wantOutcome); got != 1 {
				t.Errorf("expected one %q removal, got %v", tt.wantOutcome, got)
			}
		})
	}
}

func TestEffectExecutor_StopsAtFirstError(t *testing.T) {
	repo := newFaultyContactRepository()
	repo.deleteErr = errors.New("disk I/O error")
	photos := newMockPhotoStore("/photos/a.jpg")
	executor, _ := newTestExecutor(repo, photos)

	plan := contact.PlanDelete(contact.DeletePlanInput{
		ContactID:       1,
		RecordExists:    true,
		StoredPhotoPath: "/photos/a.jpg",
	})
	err := executor.Execute(context.Background(), plan.Effects())
	if err == nil {
		t.Fatal("expected error from failing delete")
	}
	if len(photos.removedPaths()) != 0 {
		t.Errorf("photo must stay when the record delete fails, removed %v", photos.removedPaths())
	}
}

func TestEffectExecutor_UnknownEffects(t *testing.T) {
	executor, _ := newTestExecutor(newFaultyContactRepository(), newMockPhotoStore())

	tests := []struct {
		name string
		eff  effects.Effect
	}{
		{"unknown entity", effects.PersistEffect{Entity: "widget", Operation: "delete", Data: int64(1)}},
		{"unknown contact operation", effects.PersistEffect{Entity: contact.EntityContact, Operation: "archive", Data: int64(1)}},
		{"bad delete data", effects.PersistEffect{Entity: contact.EntityContact, Operation: "delete", Data: "1"}},
		{"unknown file operation", effects.FileEffect{Operation: "chmod", Path: "/p.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := executor.Execute(context.Background(), []effects.Effect{tt.eff}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEffectExecutor_LogsPlannedMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	photos := newMockPhotoStore("/photos/img_b.png")
	executor := NewEffectExecutor(newFaultyContactRepository(), photos, nil, logger)

	plan := contact.PlanDelete(contact.DeletePlanInput{ContactID: 3, RequestedPhotoPath: "/photos/img_b.png"})
	if err := executor.Execute(context.Background(), plan.Effects()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"contact already gone, removing requested photo", "contact_id=3", "component=effects"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %q, got:\n%s", want, out)
		}
	}
	if got := photos.removedPaths(); len(got) != 1 || got[0] != "/photos/img_b.png" {
		t.Errorf("expected requested photo removed, got %v", got)
	}
}
