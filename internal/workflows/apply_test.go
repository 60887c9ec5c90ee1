package workflows

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/PolarWolf314/envsync/internal/audit"
	"github.com/PolarWolf314/envsync/internal/catalog"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
	"github.com/PolarWolf314/envsync/internal/reconcile"
)

func change(name string, kind catalog.ValueKind, scope catalog.Scope, value string) reconcile.Change {
	return reconcile.Change{Key: catalog.Key{Name: name, Kind: kind, Scope: scope}, Value: value}
}

func sampleBuckets() reconcile.Buckets {
	existing := &catalog.RemoteItem{Name: "DOMAIN", Kind: catalog.Variable, Scope: catalog.Environment, Value: "old.org"}
	updated := change("DOMAIN", catalog.Variable, catalog.Environment, "new.org")
	updated.Remote = existing

	return reconcile.Buckets{
		NewSecrets: []reconcile.Change{
			change("SMTP_PASSWORD", catalog.Secret, catalog.Environment, "hunter2"),
			change("DOCKER_TOKEN", catalog.Secret, catalog.Repository, "dckr"),
		},
		UpdatedSecrets: []reconcile.Change{
			change("SSH_USER", catalog.Secret, catalog.Environment, "provision"),
		},
		NewVariables: []reconcile.Change{
			change("REPLICAS", catalog.Variable, catalog.Environment, "2"),
		},
		UpdatedVariables: []reconcile.Change{updated},
	}
}

func TestApply_OrderAndSealing(t *testing.T) {
	reg := newFakeRegistry(t, "qa")
	reg.variables["DOMAIN"] = "old.org"

	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	var progress []string
	result, err := Apply(context.Background(), reg, sampleBuckets(), ApplyOptions{
		Environment: "qa",
		Audit:       audit.NewRecorder(logPath),
		Progress: func(c reconcile.Change, outcome reconcile.Outcome) {
			progress = append(progress, outcome.String()+" "+c.Key.Name)
		},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(result.Applied) != 5 {
		t.Errorf("applied %d changes, want 5", len(result.Applied))
	}

	wantWrites := []string{
		"put env secret SMTP_PASSWORD",
		"put repo secret DOCKER_TOKEN",
		"put env secret SSH_USER",
		"create variable REPLICAS",
		"update variable DOMAIN",
	}
	if diff := cmp.Diff(wantWrites, reg.writes()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}

	wantProgress := []string{
		"new secret SMTP_PASSWORD",
		"new secret DOCKER_TOKEN",
		"updated secret SSH_USER",
		"new variable REPLICAS",
		"updated variable DOMAIN",
	}
	if diff := cmp.Diff(wantProgress, progress); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}

	// The key is fetched right before every seal.
	wantKeyCalls := []string{"env key", "put env secret SMTP_PASSWORD", "repo key", "put repo secret DOCKER_TOKEN", "env key", "put env secret SSH_USER"}
	if diff := cmp.Diff(wantKeyCalls, reg.calls[:6]); diff != "" {
		t.Errorf("key fetch order mismatch (-want +got):\n%s", diff)
	}

	if reg.envSecrets["SMTP_PASSWORD"] != "hunter2" || reg.repoSecrets["DOCKER_TOKEN"] != "dckr" {
		t.Errorf("secrets were not sealed for the right scope: env=%v repo=%v", reg.envSecrets, reg.repoSecrets)
	}
	if reg.variables["DOMAIN"] != "new.org" || reg.variables["REPLICAS"] != "2" {
		t.Errorf("variables = %v", reg.variables)
	}

	entries, err := audit.ReadEntries(logPath)
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 audit entries, got %d", len(entries))
	}
	if entries[4].Operation != audit.OpUpdateVariable || !entries[4].Update || entries[4].Status != audit.StatusApplied {
		t.Errorf("last entry = %+v", entries[4])
	}
	for _, e := range entries {
		if e.Name == "SMTP_PASSWORD" && e.Error != "" {
			t.Errorf("unexpected error in %+v", e)
		}
	}
}

func TestApply_FailFast(t *testing.T) {
	reg := newFakeRegistry(t, "qa")
	reg.variables["DOMAIN"] = "old.org"
	reg.failOn = "put repo secret DOCKER_TOKEN"

	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	result, err := Apply(context.Background(), reg, sampleBuckets(), ApplyOptions{
		Environment: "qa",
		Audit:       audit.NewRecorder(logPath),
	})

	var applyErr *ApplyError
	if !errors.As(err, &applyErr) {
		t.Fatalf("expected *ApplyError, got %v", err)
	}
	if !errors.Is(err, kerrors.ErrApplyFailed) {
		t.Errorf("expected ErrApplyFailed, got %v", err)
	}
	if len(applyErr.Applied) != 1 || applyErr.Failed.Key.Name != "DOCKER_TOKEN" || applyErr.Remaining != 3 {
		t.Errorf("ApplyError = %+v", applyErr)
	}
	if len(result.Applied) != 1 {
		t.Errorf("result.Applied = %d", len(result.Applied))
	}
	if !IsPartial(err) {
		t.Error("IsPartial should be true")
	}
	if diff := cmp.Diff([]string{"put env secret SMTP_PASSWORD", "put repo secret DOCKER_TOKEN"}, reg.writes()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}

	entries, _ := audit.ReadEntries(logPath)
	if len(entries) != 2 || entries[1].Status != audit.StatusFailed || entries[1].Error == "" {
		t.Errorf("audit entries = %+v", entries)
	}
}

func TestApply_KeyFetchFailureIsSealFailure(t *testing.T) {
	reg := newFakeRegistry(t, "qa")
	reg.failOn = "env key"

	_, err := Apply(context.Background(), reg, sampleBuckets(), ApplyOptions{Environment: "qa"})
	if !errors.Is(err, kerrors.ErrSealFailed) {
		t.Fatalf("expected ErrSealFailed, got %v", err)
	}
	if IsPartial(err) {
		t.Error("nothing was applied")
	}
	if len(reg.writes()) != 0 {
		t.Errorf("writes = %v", reg.writes())
	}
}

func TestApply_RejectsRepositoryVariable(t *testing.T) {
	reg := newFakeRegistry(t, "qa")
	buckets := reconcile.Buckets{
		NewVariables: []reconcile.Change{change("ORG_WIDE", catalog.Variable, catalog.Repository, "1")},
	}

	_, err := Apply(context.Background(), reg, buckets, ApplyOptions{Environment: "qa"})
	if !errors.Is(err, kerrors.ErrUnsupportedScope) {
		t.Fatalf("expected ErrUnsupportedScope, got %v", err)
	}
}

func TestApply_CancelledContext(t *testing.T) {
	reg := newFakeRegistry(t, "qa")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Apply(ctx, reg, sampleBuckets(), ApplyOptions{Environment: "qa"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(reg.calls) != 0 {
		t.Errorf("calls = %v", reg.calls)
	}
}

func TestApply_Empty(t *testing.T) {
	result, err := Apply(context.Background(), newFakeRegistry(t, "qa"), reconcile.Buckets{}, ApplyOptions{Environment: "qa"})
	if err != nil || len(result.Applied) != 0 {
		t.Errorf("Apply = %+v, %v", result, err)
	}
}
