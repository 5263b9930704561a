package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"orderline_backend/internal/calls/repository"
	"orderline_backend/internal/calls/transport"
	"orderline_backend/platform/apperr"
	"orderline_backend/platform/logger"
)

type fakeStore struct {
	calls       map[string]repository.Call
	created     int
	endedMarked int
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: make(map[string]repository.Call)}
}

func (f *fakeStore) Create(_ context.Context, restaurantID uuid.UUID, vendorCallID, fromNumber, toNumber, status string) (repository.Call, error) {
	f.created++
	if existing, ok := f.calls[vendorCallID]; ok {
		return existing, nil
	}
	call := repository.Call{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		VendorCallID: vendorCallID,
		FromNumber:   fromNumber,
		ToNumber:     toNumber,
		Status:       status,
	}
	f.calls[vendorCallID] = call
	return call, nil
}

func (f *fakeStore) GetByVendorCallID(_ context.Context, vendorCallID string) (repository.Call, error) {
	call, ok := f.calls[vendorCallID]
	if !ok {
		return repository.Call{}, apperr.NotFound("call not found")
	}
	return call, nil
}

func (f *fakeStore) GetByID(_ context.Context, _, _ uuid.UUID) (repository.Call, error) {
	return repository.Call{}, apperr.NotFound("call not found")
}

func (f *fakeStore) List(_ context.Context, _ uuid.UUID, _, _ int) ([]repository.Call, error) {
	return nil, nil
}

func (f *fakeStore) MarkEnded(_ context.Context, params repository.EndedParams) (repository.Call, error) {
	call, ok := f.calls[params.VendorCallID]
	if !ok {
		return repository.Call{}, apperr.NotFound("call not found")
	}
	f.endedMarked++
	call.Status = params.Status
	call.DurationMs = &params.DurationMs
	f.calls[params.VendorCallID] = call
	return call, nil
}

func (f *fakeStore) AttachAnalysis(_ context.Context, params repository.AnalysisParams) (repository.Call, error) {
	call, ok := f.calls[params.VendorCallID]
	if !ok {
		return repository.Call{}, apperr.NotFound("call not found")
	}
	call.Summary = &params.Summary
	f.calls[params.VendorCallID] = call
	return call, nil
}

func (f *fakeStore) linkOrder(vendorCallID string, orderID uuid.UUID) {
	call := f.calls[vendorCallID]
	call.OrderID = &orderID
	f.calls[vendorCallID] = call
}

type fakeResolver struct {
	restaurantID uuid.UUID
	known        string
}

func (f *fakeResolver) ResolveByAgentNumber(_ context.Context, dialed string) (uuid.UUID, error) {
	if dialed != f.known {
		return uuid.Nil, apperr.NotFound("restaurant not found")
	}
	return f.restaurantID, nil
}

type fakeOrderCreator struct {
	created []transport.CreateOrderFromCall
	err     error
}

func (f *fakeOrderCreator) CreateFromCall(_ context.Context, req transport.CreateOrderFromCall) (transport.CreatedOrderRef, error) {
	if f.err != nil {
		return transport.CreatedOrderRef{}, f.err
	}
	f.created = append(f.created, req)
	return transport.CreatedOrderRef{OrderID: uuid.New(), Total: 24.60}, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeResolver, *fakeOrderCreator) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := newFakeStore()
	resolver := &fakeResolver{restaurantID: uuid.New(), known: "+15550001111"}
	orders := &fakeOrderCreator{}

	svc := New(store, resolver, client, logger.New("development"))
	svc.SetOrderCreator(orders)
	return svc, store, resolver, orders
}

func startedEnvelope(callID string) transport.WebhookEnvelope {
	return transport.WebhookEnvelope{
		Event: transport.EventCallStarted,
		Call: transport.CallPayload{
			CallID:     callID,
			FromNumber: "+15551234567",
			ToNumber:   "+15550001111",
		},
	}
}

func endedEnvelope(callID string) transport.WebhookEnvelope {
	return transport.WebhookEnvelope{
		Event: transport.EventCallEnded,
		Call: transport.CallPayload{
			CallID:              callID,
			DisconnectionReason: "user_hangup",
			DurationMs:          90000,
			Transcript:          "Agent: ... User: ...",
			TranscriptWithToolCalls: []transport.TranscriptEntry{
				{ToolCallInvocation: &transport.ToolCallInvocation{
					Name:      "add_to_order",
					Arguments: json.RawMessage(`{"item_name":"Cheese Pizza","quantity":2}`),
				}},
			},
		},
	}
}

func TestCallStartedForUnknownNumberIsNoOp(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	env := startedEnvelope("call_1")
	env.Call.ToNumber = "+19999999999"
	if err := svc.HandleWebhook(context.Background(), env); err != nil {
		t.Fatalf("unknown dialed number must not be fatal: %v", err)
	}
	if len(store.calls) != 0 {
		t.Errorf("no call row should exist, got %d", len(store.calls))
	}
}

func TestCallEndedCreatesOrderFromTranscript(t *testing.T) {
	svc, store, resolver, orders := newTestService(t)
	ctx := context.Background()

	if err := svc.HandleWebhook(ctx, startedEnvelope("call_1")); err != nil {
		t.Fatalf("call_started: %v", err)
	}
	if err := svc.HandleWebhook(ctx, endedEnvelope("call_1")); err != nil {
		t.Fatalf("call_ended: %v", err)
	}

	if len(orders.created) != 1 {
		t.Fatalf("expected 1 order creation, got %d", len(orders.created))
	}
	req := orders.created[0]
	if req.RestaurantID != resolver.restaurantID {
		t.Errorf("order for wrong restaurant: %s", req.RestaurantID)
	}
	if len(req.Draft.Items) != 1 || req.Draft.Items[0].Name != "Cheese Pizza" || req.Draft.Items[0].Quantity != 2 {
		t.Errorf("unexpected draft: %+v", req.Draft)
	}
	if store.calls["call_1"].Status != StatusCompleted {
		t.Errorf("expected completed status, got %s", store.calls["call_1"].Status)
	}
}

func TestCallEndedDuplicateDeliveryDoesNotCreateSecondOrder(t *testing.T) {
	svc, _, _, orders := newTestService(t)
	ctx := context.Background()

	if err := svc.HandleWebhook(ctx, startedEnvelope("call_1")); err != nil {
		t.Fatalf("call_started: %v", err)
	}
	if err := svc.HandleWebhook(ctx, endedEnvelope("call_1")); err != nil {
		t.Fatalf("first call_ended: %v", err)
	}
	if err := svc.HandleWebhook(ctx, endedEnvelope("call_1")); err != nil {
		t.Fatalf("retried call_ended must not be fatal: %v", err)
	}

	if len(orders.created) != 1 {
		t.Fatalf("retry created a second order: %d creations", len(orders.created))
	}
}

func TestCallEndedSkipsReconciliationWhenOrderAlreadyLinked(t *testing.T) {
	svc, store, _, orders := newTestService(t)
	ctx := context.Background()

	if err := svc.HandleWebhook(ctx, startedEnvelope("call_1")); err != nil {
		t.Fatalf("call_started: %v", err)
	}
	store.linkOrder("call_1", uuid.New())

	if err := svc.HandleWebhook(ctx, endedEnvelope("call_1")); err != nil {
		t.Fatalf("call_ended: %v", err)
	}
	if len(orders.created) != 0 {
		t.Errorf("already-linked call must not create an order")
	}
}

func TestCallEndedWithEmptyTranscriptIsNoOp(t *testing.T) {
	svc, _, _, orders := newTestService(t)
	ctx := context.Background()

	if err := svc.HandleWebhook(ctx, startedEnvelope("call_1")); err != nil {
		t.Fatalf("call_started: %v", err)
	}

	env := endedEnvelope("call_1")
	env.Call.TranscriptWithToolCalls = nil
	if err := svc.HandleWebhook(ctx, env); err != nil {
		t.Fatalf("call_ended without tools: %v", err)
	}
	if len(orders.created) != 0 {
		t.Errorf("no-order call must not touch commerce tables")
	}
}

func TestCallEndedForUnknownCallIsNoOp(t *testing.T) {
	svc, _, _, orders := newTestService(t)

	if err := svc.HandleWebhook(context.Background(), endedEnvelope("never_started")); err != nil {
		t.Fatalf("terminal event without call row must not be fatal: %v", err)
	}
	if len(orders.created) != 0 {
		t.Errorf("expected no order")
	}
}

func TestCallEndedReleasesLockOnPersistenceFailure(t *testing.T) {
	svc, _, _, orders := newTestService(t)
	ctx := context.Background()

	if err := svc.HandleWebhook(ctx, startedEnvelope("call_1")); err != nil {
		t.Fatalf("call_started: %v", err)
	}

	orders.err = errors.New("db down")
	if err := svc.HandleWebhook(ctx, endedEnvelope("call_1")); err == nil {
		t.Fatal("persistence failure must surface so the vendor retries")
	}

	// The retry after the failure must get through the idempotency guard.
	orders.err = nil
	if err := svc.HandleWebhook(ctx, endedEnvelope("call_1")); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(orders.created) != 1 {
		t.Fatalf("expected the retry to create the order, got %d", len(orders.created))
	}
}

func TestCallAnalyzedAttachesMetadata(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.HandleWebhook(ctx, startedEnvelope("call_1")); err != nil {
		t.Fatalf("call_started: %v", err)
	}

	env := transport.WebhookEnvelope{
		Event: transport.EventCallAnalyzed,
		Call: transport.CallPayload{
			CallID:       "call_1",
			CallAnalysis: &transport.CallAnalysis{CallSummary: "ordered two pizzas", UserSentiment: "positive"},
		},
	}
	if err := svc.HandleWebhook(ctx, env); err != nil {
		t.Fatalf("call_analyzed: %v", err)
	}
	if store.calls["call_1"].Summary == nil || *store.calls["call_1"].Summary != "ordered two pizzas" {
		t.Errorf("analysis not attached: %+v", store.calls["call_1"])
	}
}

func TestUnknownEventIsAcceptedAndIgnored(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	env := transport.WebhookEnvelope{Event: "call_transferred", Call: transport.CallPayload{CallID: "call_1"}}
	if err := svc.HandleWebhook(context.Background(), env); err != nil {
		t.Fatalf("unknown event must be ignored, got %v", err)
	}
}

func TestStatusForDisconnectMapping(t *testing.T) {
	cases := map[string]string{
		"user_hangup":       StatusCompleted,
		"voicemail_reached": StatusVoicemail,
		"machine_detected":  StatusVoicemail,
		"dial_failed":       StatusError,
		"error_llm":         StatusError,
		"something_new":     StatusCompleted,
	}
	for reason, want := range cases {
		if got := StatusForDisconnect(reason); got != want {
			t.Errorf("StatusForDisconnect(%q) = %q, want %q", reason, got, want)
		}
	}
}
