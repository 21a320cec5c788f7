package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/metrics/noop"
	sinkmemory "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/sink/memory"
	storagememory "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/storage/memory"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

func newTestService(t *testing.T) (*Service, *sinkmemory.Sink) {
	t.Helper()

	catalog := newTestCatalog(t)
	sink := sinkmemory.NewSink()
	logger := zap.NewNop()
	metrics := noop.NewCollector()
	coordinator := NewCoordinator(catalog, sink, NewProgressBroker(logger), metrics, logger)

	svc := NewService(
		storagememory.NewScenarioStore(),
		catalog,
		NewValidator(catalog),
		coordinator,
		metrics,
		logger,
		ValidationOptions{StrictTemplateValidation: true, ValidateMitreReferences: true},
	)
	return svc, sink
}

func validScenario(id string) *domain.ScenarioDefinition {
	return testScenario(id,
		event("a", "logon-success", map[string]interface{}{"username": "alice"}),
		domain.ScenarioEvent{
			LocalID:    "b",
			TemplateID: "logon-failure",
			Parameters: map[string]interface{}{"username": "alice"},
			DependsOn:  []domain.Dependency{{LocalID: "a"}},
		},
	)
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	scenario := testScenario("s1", event("a", "no-such-template", nil))
	_, _, err := svc.CreateScenario(ctx, scenario)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if !verr.Result.Has(domain.ViolationUnknownTemplate) {
		t.Errorf("expected UnknownTemplate in result, got %v", verr.Result.Violations)
	}

	// Nothing was persisted.
	if _, err := svc.GetScenario(ctx, "s1", 0); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Errorf("GetScenario after rejected create = %v, want ErrScenarioNotFound", err)
	}
}

func TestService_CreateUpdateVersioning(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, version, err := svc.CreateScenario(ctx, validScenario("s1"))
	if err != nil {
		t.Fatalf("CreateScenario: %v", err)
	}
	if version != 1 {
		t.Errorf("first version = %d, want 1", version)
	}

	updated := validScenario(id)
	updated.Description = "second revision"
	newVersion, err := svc.UpdateScenario(ctx, updated)
	if err != nil {
		t.Fatalf("UpdateScenario: %v", err)
	}
	if newVersion != 2 {
		t.Errorf("updated version = %d, want 2", newVersion)
	}

	// Both versions remain loadable and distinct.
	v1, err := svc.GetScenario(ctx, id, 1)
	if err != nil {
		t.Fatalf("GetScenario v1: %v", err)
	}
	if v1.Description != "" {
		t.Errorf("v1 description = %q, want empty", v1.Description)
	}
	latest, err := svc.GetScenario(ctx, id, 0)
	if err != nil {
		t.Fatalf("GetScenario latest: %v", err)
	}
	if latest.Version != 2 || latest.Description != "second revision" {
		t.Errorf("latest = v%d %q, want v2 with new description", latest.Version, latest.Description)
	}
}

func TestService_UpdateUnknownScenario(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.UpdateScenario(context.Background(), validScenario("ghost")); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Errorf("UpdateScenario(ghost) = %v, want ErrScenarioNotFound", err)
	}
}

func TestService_ExecuteAndAwait(t *testing.T) {
	svc, sink := newTestService(t)
	ctx := context.Background()

	id, _, err := svc.CreateScenario(ctx, validScenario("s1"))
	if err != nil {
		t.Fatalf("CreateScenario: %v", err)
	}

	execID, err := svc.ExecuteScenario(ctx, id, fastOptions())
	if err != nil {
		t.Fatalf("ExecuteScenario: %v", err)
	}
	if execID == "" {
		t.Error("expected non-empty execution id")
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	result, err := svc.AwaitExecution(waitCtx, id)
	if err != nil {
		t.Fatalf("AwaitExecution: %v", err)
	}
	if !result.Success || result.EventsGenerated != 2 {
		t.Errorf("result = success %v, generated %d; want true, 2", result.Success, result.EventsGenerated)
	}
	if sink.Count() != 2 {
		t.Errorf("sink received %d events, want 2", sink.Count())
	}

	state, err := svc.ExecutionState(id)
	if err != nil {
		t.Fatalf("ExecutionState: %v", err)
	}
	if state.Status != domain.ExecutionStatusCompleted {
		t.Errorf("status = %s, want Completed", state.Status)
	}
}

func TestService_ExecuteUnknownScenario(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.ExecuteScenario(context.Background(), "ghost", fastOptions()); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Errorf("ExecuteScenario(ghost) = %v, want ErrScenarioNotFound", err)
	}
}

func TestService_ExecutePinnedVersion(t *testing.T) {
	svc, sink := newTestService(t)
	ctx := context.Background()

	id, _, err := svc.CreateScenario(ctx, validScenario("s1"))
	if err != nil {
		t.Fatalf("CreateScenario: %v", err)
	}

	// v2 has a single event; executing pinned v1 must dispatch two.
	updated := testScenario(id, event("only", "logon-success", map[string]interface{}{"username": "bob"}))
	if _, err := svc.UpdateScenario(ctx, updated); err != nil {
		t.Fatalf("UpdateScenario: %v", err)
	}

	opts := fastOptions()
	opts.Version = 1
	if _, err := svc.ExecuteScenario(ctx, id, opts); err != nil {
		t.Fatalf("ExecuteScenario pinned: %v", err)
	}
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	result, err := svc.AwaitExecution(waitCtx, id)
	if err != nil {
		t.Fatalf("AwaitExecution: %v", err)
	}
	if result.Version != 1 || result.TotalEvents != 2 {
		t.Errorf("executed v%d with %d events, want v1 with 2", result.Version, result.TotalEvents)
	}
	if sink.Count() != 2 {
		t.Errorf("sink received %d events, want 2", sink.Count())
	}
}

func TestService_DeleteWhileRunningConflicts(t *testing.T) {
	svc, sink := newTestService(t)
	ctx := context.Background()
	sink.SetWriteDelay(200 * time.Millisecond)

	id, _, err := svc.CreateScenario(ctx, validScenario("s1"))
	if err != nil {
		t.Fatalf("CreateScenario: %v", err)
	}
	if _, err := svc.ExecuteScenario(ctx, id, fastOptions()); err != nil {
		t.Fatalf("ExecuteScenario: %v", err)
	}

	_, err = svc.DeleteScenario(ctx, id)
	if err == nil {
		t.Fatal("delete during execution should conflict")
	}
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %T: %v", err, err)
	}
	if conflict.Reason != domain.ConflictScenarioCurrentlyExecuting {
		t.Errorf("reason = %s, want %s", conflict.Reason, domain.ConflictScenarioCurrentlyExecuting)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := svc.AwaitExecution(waitCtx, id); err != nil {
		t.Fatalf("AwaitExecution: %v", err)
	}

	deleted, err := svc.DeleteScenario(ctx, id)
	if err != nil {
		t.Fatalf("DeleteScenario after completion: %v", err)
	}
	if !deleted {
		t.Error("expected scenario to be deleted")
	}
}

func TestService_CancelExecution(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	scenario := testScenario("s1",
		event("a", "logon-success", map[string]interface{}{"username": "alice"}),
		domain.ScenarioEvent{
			LocalID:    "b",
			TemplateID: "logon-failure",
			Parameters: map[string]interface{}{"username": "alice"},
			Delay:      10 * time.Second,
		},
	)
	id, _, err := svc.CreateScenario(ctx, scenario)
	if err != nil {
		t.Fatalf("CreateScenario: %v", err)
	}
	if _, err := svc.ExecuteScenario(ctx, id, domain.DefaultExecutionOptions()); err != nil {
		t.Fatalf("ExecuteScenario: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if err := svc.CancelExecution(id); err != nil {
		t.Fatalf("CancelExecution: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	result, err := svc.AwaitExecution(waitCtx, id)
	if err != nil {
		t.Fatalf("AwaitExecution: %v", err)
	}
	if !result.Cancelled {
		t.Error("expected Cancelled result")
	}
}

func TestService_ValidateWithoutPersisting(t *testing.T) {
	svc, _ := newTestService(t)

	result := svc.ValidateScenario(testScenario("s1", event("a", "no-such-template", nil)), strictOptions())
	if result.Valid() {
		t.Error("expected invalid result")
	}
	if _, err := svc.GetScenario(context.Background(), "s1", 0); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Error("validation must not persist the scenario")
	}
}

func TestService_Templates(t *testing.T) {
	svc, _ := newTestService(t)

	templates := svc.Templates()
	if len(templates) != 3 {
		t.Fatalf("Templates() = %d entries, want 3", len(templates))
	}
	for i := 1; i < len(templates); i++ {
		if templates[i-1].ID >= templates[i].ID {
			t.Errorf("templates not sorted: %s before %s", templates[i-1].ID, templates[i].ID)
		}
	}

	if _, err := svc.Template("logon-success"); err != nil {
		t.Errorf("Template(logon-success): %v", err)
	}
	if _, err := svc.Template("ghost"); !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Errorf("Template(ghost) = %v, want ErrTemplateNotFound", err)
	}
}
