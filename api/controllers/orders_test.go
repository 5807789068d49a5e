package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	internalorders "github.com/kisanbazar/kisanbazar-backend/internal/orders"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

type stubOrdersService struct {
	created     *internalorders.CreateOrderRequest
	status      *internalorders.UpdateStatusRequest
	statusActor uuid.UUID
	statusRole  enums.Role
	listParams  *pagination.Params
	createErr   error
}

func (s *stubOrdersService) Create(_ context.Context, consumerID uuid.UUID, req internalorders.CreateOrderRequest) (*internalorders.OrderDTO, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &req
	return &internalorders.OrderDTO{ID: uuid.New(), ConsumerID: consumerID, Status: enums.OrderStatusPending}, nil
}

func (s *stubOrdersService) Get(_ context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID) (*internalorders.OrderDTO, error) {
	return &internalorders.OrderDTO{ID: id}, nil
}

func (s *stubOrdersService) UpdateStatus(_ context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID, req internalorders.UpdateStatusRequest) (*internalorders.OrderDTO, error) {
	s.status = &req
	s.statusActor = actorID
	s.statusRole = role
	return &internalorders.OrderDTO{ID: id}, nil
}

func (s *stubOrdersService) ListForConsumer(_ context.Context, consumerID uuid.UUID, params pagination.Params) (*internalorders.OrderList, error) {
	s.listParams = &params
	return &internalorders.OrderList{Orders: []internalorders.OrderDTO{}}, nil
}

func (s *stubOrdersService) ListForFarmer(_ context.Context, farmerID uuid.UUID, params pagination.Params) (*internalorders.OrderList, error) {
	s.listParams = &params
	return &internalorders.OrderList{Orders: []internalorders.OrderDTO{}}, nil
}

func (s *stubOrdersService) ListAll(_ context.Context, params pagination.Params) (*internalorders.OrderList, error) {
	s.listParams = &params
	return &internalorders.OrderList{Orders: []internalorders.OrderDTO{}}, nil
}

type stubCartClearer struct {
	cleared  []uuid.UUID
	clearErr error
}

func (s *stubCartClearer) Clear(_ context.Context, userID uuid.UUID) error {
	s.cleared = append(s.cleared, userID)
	return s.clearErr
}

func TestCreateOrderSuccessEnvelope(t *testing.T) {
	stub := &stubOrdersService{}
	productID := uuid.New()
	body := `{"items":[{"product":"` + productID.String() + `","quantity":3}],"pickupDetails":{"location":"farm gate"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)).
		WithContext(authedContext(uuid.New(), enums.RoleConsumer))
	rec := httptest.NewRecorder()
	CreateOrder(stub, &stubCartClearer{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if stub.created == nil || len(stub.created.Items) != 1 || stub.created.Items[0].Quantity != 3 {
		t.Fatalf("unexpected captured request: %+v", stub.created)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Status enums.OrderStatus `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success || envelope.Data.Status != enums.OrderStatusPending {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"items":[]}`)).
		WithContext(authedContext(uuid.New(), enums.RoleConsumer))
	rec := httptest.NewRecorder()
	CreateOrder(&stubOrdersService{}, &stubCartClearer{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty items, got %d", rec.Code)
	}
}

func TestCreateOrderClearsCart(t *testing.T) {
	stub := &stubOrdersService{}
	carts := &stubCartClearer{}
	consumerID := uuid.New()
	productID := uuid.New()
	body := `{"items":[{"product":"` + productID.String() + `","quantity":2}],"pickupDetails":{"location":"farm gate"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)).
		WithContext(authedContext(consumerID, enums.RoleConsumer))
	rec := httptest.NewRecorder()
	CreateOrder(stub, carts, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(carts.cleared) != 1 || carts.cleared[0] != consumerID {
		t.Fatalf("cart not cleared for consumer: %+v", carts.cleared)
	}
}

func TestCreateOrderFailureLeavesCart(t *testing.T) {
	stub := &stubOrdersService{createErr: pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock")}
	carts := &stubCartClearer{}
	productID := uuid.New()
	body := `{"items":[{"product":"` + productID.String() + `","quantity":2}],"pickupDetails":{"location":"farm gate"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)).
		WithContext(authedContext(uuid.New(), enums.RoleConsumer))
	rec := httptest.NewRecorder()
	CreateOrder(stub, carts, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(carts.cleared) != 0 {
		t.Fatalf("cart must survive a failed order, cleared=%+v", carts.cleared)
	}
}

func TestCreateOrderSurvivesCartClearError(t *testing.T) {
	stub := &stubOrdersService{}
	carts := &stubCartClearer{clearErr: pkgerrors.New(pkgerrors.CodeDependency, "redis down")}
	productID := uuid.New()
	body := `{"items":[{"product":"` + productID.String() + `","quantity":1}],"pickupDetails":{"location":"farm gate"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)).
		WithContext(authedContext(uuid.New(), enums.RoleConsumer))
	rec := httptest.NewRecorder()
	CreateOrder(stub, carts, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("order must succeed despite clear failure, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestCreateOrderMapsStateConflict(t *testing.T) {
	stub := &stubOrdersService{createErr: pkgerrors.New(pkgerrors.CodeStateConflict, "order already completed")}
	productID := uuid.New()
	body := `{"items":[{"product":"` + productID.String() + `","quantity":1}],"pickupDetails":{"location":"farm gate"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)).
		WithContext(authedContext(uuid.New(), enums.RoleConsumer))
	rec := httptest.NewRecorder()
	CreateOrder(stub, &stubCartClearer{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestUpdateOrderStatusThreadsActor(t *testing.T) {
	stub := &stubOrdersService{}
	actorID := uuid.New()
	orderID := uuid.New()

	ctx := authedContext(actorID, enums.RoleFarmer)
	ctx = withPathParam(ctx, "id", orderID.String())
	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String(), strings.NewReader(`{"status":"accepted"}`)).
		WithContext(ctx)
	rec := httptest.NewRecorder()
	UpdateOrderStatus(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if stub.statusActor != actorID || stub.statusRole != enums.RoleFarmer {
		t.Fatalf("actor not threaded: %s / %s", stub.statusActor, stub.statusRole)
	}
	if stub.status == nil || stub.status.Status != "accepted" {
		t.Fatalf("unexpected status payload: %+v", stub.status)
	}
}

func TestListMyOrdersForwardsPagination(t *testing.T) {
	stub := &stubOrdersService{}
	req := httptest.NewRequest(http.MethodGet, "/api/orders/consumer?limit=7&cursor=abc", nil).
		WithContext(authedContext(uuid.New(), enums.RoleConsumer))
	rec := httptest.NewRecorder()
	ListMyOrders(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if stub.listParams == nil || stub.listParams.Limit != 7 || stub.listParams.Cursor != "abc" {
		t.Fatalf("pagination not forwarded: %+v", stub.listParams)
	}
}
