package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	callstransport "orderline_backend/internal/calls/transport"
	"orderline_backend/internal/events"
	"orderline_backend/internal/orders/repository"
	"orderline_backend/internal/orders/transport"
	"orderline_backend/platform/logger"
)

type fakeOrderStore struct {
	created []repository.CreateForCallParams
	orders  map[uuid.UUID]repository.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[uuid.UUID]repository.Order)}
}

func (f *fakeOrderStore) CreateForCall(_ context.Context, params repository.CreateForCallParams) (repository.Order, error) {
	f.created = append(f.created, params)
	order := repository.Order{
		ID:           uuid.New(),
		RestaurantID: params.RestaurantID,
		Status:       transport.StatusPending,
		OrderType:    params.OrderType,
		Subtotal:     params.Subtotal,
		Tax:          params.Tax,
		DeliveryFee:  params.DeliveryFee,
		Total:        params.Total,
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, _, orderID uuid.UUID) (repository.Order, []repository.OrderItem, error) {
	return f.orders[orderID], nil, nil
}

func (f *fakeOrderStore) List(_ context.Context, _ uuid.UUID, _ string, _, _ int) ([]repository.Order, error) {
	return nil, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, _, orderID uuid.UUID, status string) (repository.Order, error) {
	order := f.orders[orderID]
	order.Status = status
	f.orders[orderID] = order
	return order, nil
}

type fakeCatalog struct{ items []CatalogItem }

func (f *fakeCatalog) ListCatalogItems(_ context.Context, _ uuid.UUID) ([]CatalogItem, error) {
	return f.items, nil
}

type fakeSettings struct{ settings OrderSettings }

func (f *fakeSettings) GetOrderSettings(_ context.Context, _ uuid.UUID) (OrderSettings, error) {
	return f.settings, nil
}

type fakeTasks struct{ enqueued int }

func (f *fakeTasks) EnqueueOrderNotification(_ context.Context, _, _ uuid.UUID) error {
	f.enqueued++
	return nil
}

func newTestOrdersService(catalog []CatalogItem, settings OrderSettings) (*Service, *fakeOrderStore, *fakeTasks) {
	store := newFakeOrderStore()
	tasks := &fakeTasks{}
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	svc := New(store, &fakeCatalog{items: catalog}, &fakeSettings{settings: settings}, bus, tasks, log)
	return svc, store, tasks
}

func deliveryDraft() callstransport.CreateOrderFromCall {
	return callstransport.CreateOrderFromCall{
		RestaurantID: uuid.New(),
		CallID:       uuid.New(),
		VendorCallID: "call_1",
		CallerNumber: "+15557654321",
		Draft: callstransport.DraftOrder{
			OrderType:       "delivery",
			DeliveryAddress: "1 Main St",
			CustomerName:    "Sam",
			CustomerPhone:   "+15551234567",
			Items: []callstransport.DraftOrderItem{
				{Name: "Cheese Pizza", Quantity: 2, Modifiers: []callstransport.ItemModifier{}},
			},
		},
	}
}

func TestCreateFromCallPricesDeliveryOrder(t *testing.T) {
	pizzaID := uuid.New()
	catalog := []CatalogItem{{ID: pizzaID, Name: "Cheese Pizza", BasePrice: 10.00}}
	svc, store, tasks := newTestOrdersService(catalog, OrderSettings{TaxRate: 0.08, DeliveryFee: 3.00})

	ref, err := svc.CreateFromCall(context.Background(), deliveryDraft())
	if err != nil {
		t.Fatalf("CreateFromCall: %v", err)
	}
	if ref.OrderID == uuid.Nil {
		t.Fatal("expected an order id")
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 order write, got %d", len(store.created))
	}
	params := store.created[0]
	if params.OrderType != "delivery" {
		t.Errorf("expected delivery, got %s", params.OrderType)
	}
	if params.Subtotal != 20.00 {
		t.Errorf("expected subtotal 20.00, got %v", params.Subtotal)
	}
	if params.Tax != 1.60 {
		t.Errorf("expected tax 1.60, got %v", params.Tax)
	}
	if params.DeliveryFee != 3.00 {
		t.Errorf("expected delivery fee 3.00, got %v", params.DeliveryFee)
	}
	if math.Abs(params.Total-24.60) > 0.01 {
		t.Errorf("expected total 24.60, got %v", params.Total)
	}
	if params.CustomerPhone != "+15551234567" {
		t.Errorf("expected customer phone from draft, got %s", params.CustomerPhone)
	}
	if params.CustomerName != "Sam" {
		t.Errorf("expected customer name Sam, got %s", params.CustomerName)
	}

	item := params.Items[0]
	if item.MenuItemID == nil || *item.MenuItemID != pizzaID {
		t.Errorf("item not resolved to catalog entry: %+v", item)
	}
	if item.UnitPrice != 10.00 || item.ItemTotal != 20.00 || item.Quantity != 2 {
		t.Errorf("unexpected item pricing: %+v", item)
	}
	if tasks.enqueued != 1 {
		t.Errorf("expected notification task enqueued, got %d", tasks.enqueued)
	}
}

func TestCreateFromCallPickupHasNoDeliveryFee(t *testing.T) {
	catalog := []CatalogItem{{ID: uuid.New(), Name: "Cheese Pizza", BasePrice: 10.00}}
	svc, store, _ := newTestOrdersService(catalog, OrderSettings{TaxRate: 0.08, DeliveryFee: 3.00})

	req := deliveryDraft()
	req.Draft.OrderType = "pickup"
	if _, err := svc.CreateFromCall(context.Background(), req); err != nil {
		t.Fatalf("CreateFromCall: %v", err)
	}

	params := store.created[0]
	if params.DeliveryFee != 0 {
		t.Errorf("pickup must not be charged a delivery fee, got %v", params.DeliveryFee)
	}
	if math.Abs(params.Total-21.60) > 0.01 {
		t.Errorf("expected total 21.60, got %v", params.Total)
	}
}

func TestCreateFromCallKeepsUnresolvedItemsAtZero(t *testing.T) {
	catalog := []CatalogItem{{ID: uuid.New(), Name: "Cheese Pizza", BasePrice: 10.00}}
	svc, store, _ := newTestOrdersService(catalog, OrderSettings{TaxRate: 0.08})

	req := deliveryDraft()
	req.Draft.Items = append(req.Draft.Items, callstransport.DraftOrderItem{
		Name: "Mystery Special", Quantity: 1,
	})
	if _, err := svc.CreateFromCall(context.Background(), req); err != nil {
		t.Fatalf("CreateFromCall: %v", err)
	}

	params := store.created[0]
	if len(params.Items) != 2 {
		t.Fatalf("unresolved item was dropped: %d items", len(params.Items))
	}
	unresolved := params.Items[1]
	if unresolved.MenuItemID != nil {
		t.Errorf("expected nil menu item id for unresolved item")
	}
	if unresolved.Name != "Mystery Special" {
		t.Errorf("raw spoken name must be kept, got %q", unresolved.Name)
	}
	if unresolved.UnitPrice != 0 || unresolved.ItemTotal != 0 {
		t.Errorf("unresolved item must price at zero: %+v", unresolved)
	}
}

func TestCreateFromCallPricesModifiers(t *testing.T) {
	catalog := []CatalogItem{{ID: uuid.New(), Name: "Burrito", BasePrice: 9.00}}
	svc, store, _ := newTestOrdersService(catalog, OrderSettings{TaxRate: 0})

	req := deliveryDraft()
	req.Draft.OrderType = "pickup"
	req.Draft.Items = []callstransport.DraftOrderItem{{
		Name:     "Burrito",
		Quantity: 2,
		Modifiers: []callstransport.ItemModifier{
			{Group: "Protein", Option: "Steak", Price: 2.50},
			{Group: "Extras", Option: "Guac", Price: 1.50},
		},
	}}
	if _, err := svc.CreateFromCall(context.Background(), req); err != nil {
		t.Fatalf("CreateFromCall: %v", err)
	}

	item := store.created[0].Items[0]
	// (9.00 + 2.50 + 1.50) * 2
	if math.Abs(item.ItemTotal-26.00) > 0.01 {
		t.Errorf("expected item total 26.00, got %v", item.ItemTotal)
	}
}

func TestCreateFromCallFallsBackToCallerNumber(t *testing.T) {
	svc, store, _ := newTestOrdersService(nil, OrderSettings{})

	req := deliveryDraft()
	req.Draft.CustomerPhone = ""
	if _, err := svc.CreateFromCall(context.Background(), req); err != nil {
		t.Fatalf("CreateFromCall: %v", err)
	}
	if store.created[0].CustomerPhone != "+15557654321" {
		t.Errorf("expected caller number fallback, got %s", store.created[0].CustomerPhone)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	catalog := []CatalogItem{{ID: uuid.New(), Name: "Cheese Pizza", BasePrice: 10.00}}
	svc, store, _ := newTestOrdersService(catalog, OrderSettings{})

	ref, err := svc.CreateFromCall(context.Background(), deliveryDraft())
	if err != nil {
		t.Fatalf("CreateFromCall: %v", err)
	}
	restaurantID := store.orders[ref.OrderID].RestaurantID

	if _, err := svc.UpdateStatus(context.Background(), restaurantID, ref.OrderID, transport.StatusCompleted); err == nil {
		t.Fatal("pending -> completed must be rejected")
	}

	if _, err := svc.UpdateStatus(context.Background(), restaurantID, ref.OrderID, transport.StatusConfirmed); err != nil {
		t.Fatalf("pending -> confirmed should be allowed: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), restaurantID, ref.OrderID, transport.StatusPreparing); err != nil {
		t.Fatalf("confirmed -> preparing should be allowed: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), restaurantID, ref.OrderID, transport.StatusPending); err == nil {
		t.Fatal("preparing -> pending must be rejected")
	}
}
