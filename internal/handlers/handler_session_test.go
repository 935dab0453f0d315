package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	"github.com/prestaflow/lending_backend/internal/core/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
)

// --- Mock SessionService ---
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Open(ctx context.Context, caller domain.CallerIdentity, req dto.OpenSessionRequest) (*domain.RegisterSession, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterSession), args.Error(1)
}
func (m *MockSessionService) RecordMovement(ctx context.Context, caller domain.CallerIdentity, req dto.RecordMovementRequest) (*domain.RegisterMovement, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterMovement), args.Error(1)
}
func (m *MockSessionService) DeclareClose(ctx context.Context, caller domain.CallerIdentity, req dto.DeclareCloseRequest) (*domain.CloseSummary, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CloseSummary), args.Error(1)
}
func (m *MockSessionService) Confirm(ctx context.Context, caller domain.CallerIdentity, sessionID string, note string) (*domain.RegisterSession, error) {
	args := m.Called(ctx, caller, sessionID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterSession), args.Error(1)
}
func (m *MockSessionService) ActiveSession(ctx context.Context, cashierID int64) (*domain.RegisterSession, error) {
	args := m.Called(ctx, cashierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterSession), args.Error(1)
}
func (m *MockSessionService) GetSession(ctx context.Context, sessionID string) (*domain.RegisterSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterSession), args.Error(1)
}
func (m *MockSessionService) History(ctx context.Context, params dto.ListSessionsParams) (*dto.ListSessionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListSessionsResponse), args.Error(1)
}

// --- Mock user repository backing the real auth service ---
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite ---
type SessionHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockSessionService *MockSessionService
	token              string
	callerID           int64
}

func (suite *SessionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockSessionService = new(MockSessionService)
	suite.callerID = 7

	// A real auth service issues and resolves the test token, so the
	// middleware path under test is the production one.
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	suite.Require().NoError(err)
	userRepo := new(MockUserRepo)
	userRepo.On("FindUserByUsername", mock.Anything, "mgarcia").Return(&domain.User{
		UserID:       suite.callerID,
		Username:     "mgarcia",
		PasswordHash: string(hash),
		Status:       "ACTIVE",
		Roles:        []string{"Cashier"},
		Permissions:  []string{domain.PermSessionManage, domain.PermPaymentRecord},
	}, nil)

	authSvc := services.NewAuthService(userRepo, "test-secret-key-that-is-long-enough", "test-issuer", time.Hour)
	login, err := authSvc.Login(context.Background(), dto.LoginRequest{Username: "mgarcia", Password: "hunter22"})
	suite.Require().NoError(err)
	suite.token = login.Token

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(authSvc))
	registerSessionRoutes(v1, suite.mockSessionService)
}

func (suite *SessionHandlerTestSuite) doJSON(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *SessionHandlerTestSuite) TestOpenSession_Success() {
	sessionID := uuid.NewString()
	opened := &domain.RegisterSession{
		SessionID:     sessionID,
		TillID:        1,
		BranchID:      1,
		OpenedBy:      suite.callerID,
		OpenedAt:      time.Now().UTC(),
		OpeningAmount: decimal.NewFromInt(50000),
		Status:        domain.SessionOpen,
	}

	suite.mockSessionService.On("Open",
		mock.Anything,
		mock.MatchedBy(func(c domain.CallerIdentity) bool { return c.UserID == suite.callerID }),
		mock.MatchedBy(func(r dto.OpenSessionRequest) bool {
			return r.TillID == 1 && r.OpeningAmount.Equal(decimal.NewFromInt(50000))
		}),
	).Return(opened, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/sessions", dto.OpenSessionRequest{
		TillID:        1,
		BranchID:      1,
		OpeningAmount: decimal.NewFromInt(50000),
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.SessionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(sessionID, resp.SessionID)
	suite.Equal("OPEN", resp.Status)
	suite.mockSessionService.AssertExpectations(suite.T())
}

func (suite *SessionHandlerTestSuite) TestOpenSession_ConflictMapsTo409() {
	suite.mockSessionService.On("Open", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: cashier already has an open session", apperrors.ErrConflict)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/sessions", dto.OpenSessionRequest{TillID: 1, BranchID: 1})

	suite.Equal(http.StatusConflict, w.Code)
	var resp ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Error, "open session")
}

func (suite *SessionHandlerTestSuite) TestOpenSession_MalformedBody() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString(`{"till_id":`))
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSessionService.AssertNotCalled(suite.T(), "Open")
}

func (suite *SessionHandlerTestSuite) TestOpenSession_RejectsMissingToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSessionService.AssertNotCalled(suite.T(), "Open")
}

func (suite *SessionHandlerTestSuite) TestDeclareClose_ReturnsSummary() {
	sessionID := uuid.NewString()
	summary := &domain.CloseSummary{
		SessionID:        sessionID,
		OpeningAmount:    decimal.NewFromInt(50000),
		OtherCashIngress: decimal.Zero,
		OtherCashEgress:  decimal.NewFromInt(20000),
		ExpectedCash:     decimal.NewFromInt(130000),
		DeclaredCash:     decimal.NewFromInt(125000),
		Difference:       decimal.NewFromInt(-5000),
	}
	summary.Sales.Total = decimal.NewFromInt(180000)
	summary.Sales.Cash = decimal.NewFromInt(100000)
	summary.Sales.Card = decimal.NewFromInt(80000)

	suite.mockSessionService.On("DeclareClose",
		mock.Anything,
		mock.MatchedBy(func(c domain.CallerIdentity) bool { return c.UserID == suite.callerID }),
		mock.MatchedBy(func(r dto.DeclareCloseRequest) bool { return r.SessionID == sessionID }),
	).Return(summary, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/sessions/close", dto.DeclareCloseRequest{
		SessionID:     sessionID,
		ClosingAmount: decimal.NewFromInt(125000),
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CloseSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(sessionID, resp.SessionID)
	suite.True(resp.ExpectedCashDrawer.Equal(decimal.NewFromInt(130000)))
	suite.True(resp.Difference.Equal(decimal.NewFromInt(-5000)))
	suite.True(resp.Sales.Cash.Equal(decimal.NewFromInt(100000)))
	suite.mockSessionService.AssertExpectations(suite.T())
}

func (suite *SessionHandlerTestSuite) TestConfirmSession_EmptyBodyAllowed() {
	sessionID := uuid.NewString()
	confirmed := &domain.RegisterSession{
		SessionID: sessionID,
		Status:    domain.SessionConfirmed,
	}

	suite.mockSessionService.On("Confirm", mock.Anything, mock.Anything, sessionID, "").
		Return(confirmed, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/confirm", nil)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SessionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("CONFIRMED", resp.Status)
	suite.mockSessionService.AssertExpectations(suite.T())
}

func (suite *SessionHandlerTestSuite) TestGetSession_NotFoundMapsTo404() {
	sessionID := uuid.NewString()
	suite.mockSessionService.On("GetSession", mock.Anything, sessionID).
		Return(nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestSessionHandler(t *testing.T) {
	suite.Run(t, new(SessionHandlerTestSuite))
}
