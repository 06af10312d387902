package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/talentbridge/talentbridge-backend/internal/types"
)

type stubHandler struct {
	jobType string
}

func (h *stubHandler) Type() string          { return h.jobType }
func (h *stubHandler) Run(jc *Context) error { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubHandler{jobType: "deal_health_batch"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, ok := r.Get("deal_health_batch")
	if !ok || h.Type() != "deal_health_batch" {
		t.Fatalf("expected registered handler, got %v %v", h, ok)
	}
	if _, ok := r.Get("unknown"); ok {
		t.Fatalf("unknown type must not resolve")
	}
}

func TestRegistry_RejectsDuplicatesAndBadHandlers(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Fatalf("nil handler must be rejected")
	}
	if err := r.Register(&stubHandler{}); err == nil {
		t.Fatalf("empty type must be rejected")
	}
	if err := r.Register(&stubHandler{jobType: "influence_engine"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&stubHandler{jobType: "influence_engine"}); err == nil {
		t.Fatalf("duplicate type must be rejected")
	}
}

func TestContext_PayloadDecoding(t *testing.T) {
	id := uuid.New()
	job := &types.JobRun{
		ID:      uuid.New(),
		JobType: "client_summary",
		Payload: datatypes.JSON([]byte(`{"submission_id":"` + id.String() + `","note":7}`)),
	}
	jc := NewContext(context.Background(), nil, job, nil)

	got, ok := jc.PayloadUUID("submission_id")
	if !ok || got != id {
		t.Fatalf("want submission_id=%v got %v ok=%v", id, got, ok)
	}
	if _, ok := jc.PayloadUUID("missing"); ok {
		t.Fatalf("missing key must not resolve")
	}
	// Non-string values are not silently coerced.
	if _, ok := jc.PayloadUUID("note"); ok {
		t.Fatalf("numeric value must not resolve as uuid")
	}
}

func TestContext_PayloadNeverNil(t *testing.T) {
	empty := NewContext(context.Background(), nil, &types.JobRun{ID: uuid.New()}, nil)
	if empty.Payload() == nil {
		t.Fatalf("payload of an empty job must be an empty map")
	}

	malformed := NewContext(context.Background(), nil, &types.JobRun{
		ID:      uuid.New(),
		Payload: datatypes.JSON([]byte(`{broken`)),
	}, nil)
	if malformed.Payload() == nil || len(malformed.Payload()) != 0 {
		t.Fatalf("malformed payload must decode to an empty map, got %v", malformed.Payload())
	}
}

func TestContext_OutcomeWithoutRepoIsNoop(t *testing.T) {
	jc := NewContext(context.Background(), nil, &types.JobRun{ID: uuid.New()}, nil)
	// Must not panic without a repo wired.
	jc.Heartbeat()
	jc.Fail(nil)
	jc.Succeed(nil)
}
