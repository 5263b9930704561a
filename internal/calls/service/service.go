// Package service contains the calls business logic: webhook dispatch,
// transcript normalization and order reconciliation for completed calls.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"orderline_backend/internal/calls/repository"
	"orderline_backend/internal/calls/transport"
	"orderline_backend/platform/apperr"
	"orderline_backend/platform/logger"
)

// callLockTTL bounds how long a call-ended delivery can hold the processing
// lock before a vendor retry is allowed through again.
const callLockTTL = 2 * time.Minute

// RestaurantResolver resolves the restaurant a call was dialed into.
type RestaurantResolver interface {
	ResolveByAgentNumber(ctx context.Context, dialedNumber string) (uuid.UUID, error)
}

// CallStore is the persistence surface the dispatcher needs. Satisfied by
// the calls repository.
type CallStore interface {
	Create(ctx context.Context, restaurantID uuid.UUID, vendorCallID, fromNumber, toNumber, status string) (repository.Call, error)
	GetByVendorCallID(ctx context.Context, vendorCallID string) (repository.Call, error)
	GetByID(ctx context.Context, restaurantID, callID uuid.UUID) (repository.Call, error)
	List(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]repository.Call, error)
	MarkEnded(ctx context.Context, params repository.EndedParams) (repository.Call, error)
	AttachAnalysis(ctx context.Context, params repository.AnalysisParams) (repository.Call, error)
}

var _ CallStore = (*repository.Repo)(nil)

// OrderCreator turns a non-empty draft order into a persisted order. It is
// satisfied by the orders context and wired in at composition time.
type OrderCreator interface {
	CreateFromCall(ctx context.Context, req transport.CreateOrderFromCall) (transport.CreatedOrderRef, error)
}

// Service dispatches vendor webhooks and reconciles completed calls.
type Service struct {
	repo        CallStore
	restaurants RestaurantResolver
	orders      OrderCreator
	redis       *redis.Client
	logger      *logger.Logger
}

// New creates a new calls service. The order creator is attached later via
// SetOrderCreator to keep module construction order flexible.
func New(repo CallStore, restaurants RestaurantResolver, redisClient *redis.Client, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		restaurants: restaurants,
		redis:       redisClient,
		logger:      log,
	}
}

// SetOrderCreator attaches the orders context.
func (s *Service) SetOrderCreator(orders OrderCreator) {
	s.orders = orders
}

// HandleWebhook routes a verified webhook delivery by event type. Unknown
// event types are accepted and ignored for forward compatibility.
func (s *Service) HandleWebhook(ctx context.Context, envelope transport.WebhookEnvelope) error {
	switch envelope.Event {
	case transport.EventCallStarted:
		return s.handleCallStarted(ctx, envelope.Call)
	case transport.EventCallEnded:
		return s.handleCallEnded(ctx, envelope.Call)
	case transport.EventCallAnalyzed:
		return s.handleCallAnalyzed(ctx, envelope.Call)
	default:
		s.logger.WebhookEvent(envelope.Event, envelope.Call.CallID, true, "unknown event ignored")
		return nil
	}
}

func (s *Service) handleCallStarted(ctx context.Context, call transport.CallPayload) error {
	restaurantID, err := s.restaurants.ResolveByAgentNumber(ctx, call.ToNumber)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			// Unknown dialed numbers happen when an agent number is
			// reassigned; never fatal.
			s.logger.WebhookEvent(transport.EventCallStarted, call.CallID, false, "no restaurant for dialed number")
			return nil
		}
		return err
	}

	if _, err := s.repo.Create(ctx, restaurantID, call.CallID, call.FromNumber, call.ToNumber, StatusInProgress); err != nil {
		return err
	}
	s.logger.WebhookEvent(transport.EventCallStarted, call.CallID, true, "")
	return nil
}

func (s *Service) handleCallEnded(ctx context.Context, payload transport.CallPayload) error {
	acquired, err := s.acquireCallLock(ctx, payload.CallID)
	if err != nil {
		return err
	}
	if !acquired {
		s.logger.WebhookEvent(transport.EventCallEnded, payload.CallID, false, "duplicate delivery in flight")
		return nil
	}

	call, err := s.repo.MarkEnded(ctx, repository.EndedParams{
		VendorCallID:        payload.CallID,
		Status:              StatusForDisconnect(payload.DisconnectionReason),
		DurationMs:          payload.DurationMs,
		Transcript:          payload.Transcript,
		RecordingURL:        payload.RecordingURL,
		DisconnectionReason: payload.DisconnectionReason,
	})
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			// The started event never arrived, or arrived out of order.
			s.logger.WebhookEvent(transport.EventCallEnded, payload.CallID, false, "no call row for terminal event")
			return nil
		}
		return err
	}

	if call.OrderID != nil {
		s.logger.WebhookEvent(transport.EventCallEnded, payload.CallID, false, "stale retry, call already linked to an order")
		return nil
	}

	events := NormalizeToolEvents(payload.TranscriptWithToolCalls)
	draft := ReduceOrder(events)
	if draft == nil {
		s.logger.WebhookEvent(transport.EventCallEnded, payload.CallID, true, "no order placed")
		return nil
	}

	ref, err := s.orders.CreateFromCall(ctx, transport.CreateOrderFromCall{
		RestaurantID: call.RestaurantID,
		CallID:       call.ID,
		VendorCallID: call.VendorCallID,
		CallerNumber: call.FromNumber,
		Draft:        *draft,
	})
	if err != nil {
		if apperr.GetKind(err) == apperr.KindConflict {
			// A concurrent delivery won the race; the order exists.
			s.logger.WebhookEvent(transport.EventCallEnded, payload.CallID, false, "lost creation race, order already exists")
			return nil
		}
		// Release the lock so the vendor's retry of this delivery can run
		// the reconciliation again.
		s.releaseCallLock(ctx, payload.CallID)
		return fmt.Errorf("create order from call %s: %w", payload.CallID, err)
	}

	s.logger.Info("order created from call",
		"call_id", payload.CallID,
		"order_id", ref.OrderID.String(),
		"total", ref.Total,
	)
	return nil
}

func (s *Service) handleCallAnalyzed(ctx context.Context, payload transport.CallPayload) error {
	params := repository.AnalysisParams{VendorCallID: payload.CallID}
	if payload.CallAnalysis != nil {
		params.Summary = payload.CallAnalysis.CallSummary
		params.Sentiment = payload.CallAnalysis.UserSentiment
	}

	if _, err := s.repo.AttachAnalysis(ctx, params); err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			s.logger.WebhookEvent(transport.EventCallAnalyzed, payload.CallID, false, "no call row for analysis")
			return nil
		}
		return err
	}
	s.logger.WebhookEvent(transport.EventCallAnalyzed, payload.CallID, true, "")
	return nil
}

func (s *Service) acquireCallLock(ctx context.Context, vendorCallID string) (bool, error) {
	ok, err := s.redis.SetNX(ctx, callLockKey(vendorCallID), "1", callLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire call lock: %w", err)
	}
	return ok, nil
}

func (s *Service) releaseCallLock(ctx context.Context, vendorCallID string) {
	if err := s.redis.Del(ctx, callLockKey(vendorCallID)).Err(); err != nil {
		s.logger.Warn("release call lock", "call_id", vendorCallID, "error", err.Error())
	}
}

func callLockKey(vendorCallID string) string {
	return "calls:ended:" + vendorCallID
}

// ListCalls returns the restaurant's recent calls for the dashboard.
func (s *Service) ListCalls(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]transport.CallResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	calls, err := s.repo.List(ctx, restaurantID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]transport.CallResponse, 0, len(calls))
	for _, call := range calls {
		out = append(out, toCallResponse(call))
	}
	return out, nil
}

// GetCall returns one call for the dashboard detail view.
func (s *Service) GetCall(ctx context.Context, restaurantID, callID uuid.UUID) (transport.CallResponse, error) {
	call, err := s.repo.GetByID(ctx, restaurantID, callID)
	if err != nil {
		return transport.CallResponse{}, err
	}
	return toCallResponse(call), nil
}

func toCallResponse(call repository.Call) transport.CallResponse {
	return transport.CallResponse{
		ID:                  call.ID,
		VendorCallID:        call.VendorCallID,
		FromNumber:          call.FromNumber,
		Status:              call.Status,
		DurationMs:          call.DurationMs,
		Transcript:          call.Transcript,
		RecordingURL:        call.RecordingURL,
		DisconnectionReason: call.DisconnectionReason,
		Summary:             call.Summary,
		Sentiment:           call.Sentiment,
		OrderID:             call.OrderID,
		CreatedAt:           call.CreatedAt.Format(time.RFC3339),
	}
}
