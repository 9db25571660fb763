package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/SummySKJi/amplify-audio-sphere/internal/withdrawals"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

type stubWithdrawalService struct {
	created *withdrawals.WithdrawalDTO
	updated *withdrawals.WithdrawalDTO
	page    *withdrawals.WithdrawalPage
	err     error
}

func (s *stubWithdrawalService) Create(ctx context.Context, userID uuid.UUID, req withdrawals.CreateWithdrawalRequest) (*withdrawals.WithdrawalDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.created, nil
}

func (s *stubWithdrawalService) List(ctx context.Context, userID uuid.UUID, filter withdrawals.ListFilter, params pagination.Params) (*withdrawals.WithdrawalPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubWithdrawalService) AdminList(ctx context.Context, filter withdrawals.ListFilter, params pagination.Params) (*withdrawals.WithdrawalPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubWithdrawalService) AdminUpdateStatus(ctx context.Context, requestID uuid.UUID, req withdrawals.UpdateStatusRequest) (*withdrawals.WithdrawalDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.updated, nil
}

func TestWithdrawalCreateSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubWithdrawalService{created: &withdrawals.WithdrawalDTO{
		ID:     uuid.New(),
		UserID: userID,
		Status: enums.RequestStatusPending,
	}}
	handler := WithdrawalCreate(svc, nil)

	body := bytes.NewBufferString(`{"amount":"750","upi_id":"asha@upi"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/withdrawals", body, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data withdrawals.WithdrawalDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.RequestStatusPending {
		t.Fatalf("status = %s", envelope.Data.Status)
	}
}

func TestWithdrawalCreateInsufficientBalance(t *testing.T) {
	svc := &stubWithdrawalService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "amount exceeds wallet balance")}
	handler := WithdrawalCreate(svc, nil)

	body := bytes.NewBufferString(`{"amount":"750","upi_id":"asha@upi"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/withdrawals", body, uuid.New()))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestWithdrawalListRejectsBadStatusFilter(t *testing.T) {
	handler := WithdrawalList(&stubWithdrawalService{page: &withdrawals.WithdrawalPage{}}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/withdrawals?status=paid", nil, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminWithdrawalUpdateStatus(t *testing.T) {
	requestID := uuid.New()
	svc := &stubWithdrawalService{updated: &withdrawals.WithdrawalDTO{
		ID:     requestID,
		Status: enums.RequestStatusCompleted,
	}}
	handler := AdminWithdrawalUpdateStatus(svc, nil)

	body := bytes.NewBufferString(`{"status":"completed"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/withdrawals/"+requestID.String()+"/status", body)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("withdrawalID", requestID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminWithdrawalUpdateStatusBadID(t *testing.T) {
	handler := AdminWithdrawalUpdateStatus(&stubWithdrawalService{}, nil)

	body := bytes.NewBufferString(`{"status":"completed"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/withdrawals/not-a-uuid/status", body)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("withdrawalID", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
