package handlers_test

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
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	portssvc "github.com/SscSPs/biz_admin_app/internal/core/ports/services"
	"github.com/SscSPs/biz_admin_app/internal/dto"
	"github.com/SscSPs/biz_admin_app/internal/handlers"
	"github.com/SscSPs/biz_admin_app/pkg/config"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

func (m *MockTransactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, companyID string, transactionID string, requestingUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactionsByAccount(ctx context.Context, companyID string, accountID string, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, companyID, accountID, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) ListTransactionsByCompany(ctx context.Context, companyID string, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, companyID, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

// --- Test Suite Setup ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockSvc   *MockTransactionService
	jwtSecret string
	companyID string
	userID    string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *TransactionHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockSvc = new(MockTransactionService)
	suite.jwtSecret = "test-secret"
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	container := &portssvc.ServiceContainer{Transaction: suite.mockSvc}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *TransactionHandlerTestSuite) postTransaction(body any, token string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	url := fmt.Sprintf("/api/v1/companies/%s/transactions", suite.companyID)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransactionHandlerTestSuite) validRequest() dto.CreateTransactionRequest {
	accountID := uuid.NewString()
	return dto.CreateTransactionRequest{
		Description:     "Invoice paid",
		Amount:          decimal.NewFromInt(100),
		TransactionType: domain.Income,
		ToAccountID:     &accountID,
		TransactionDate: time.Now().UTC(),
	}
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Created() {
	req := suite.validRequest()
	created := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       suite.companyID,
		TransactionType: domain.Income,
		Amount:          req.Amount,
		Status:          domain.Completed,
	}
	suite.mockSvc.On("CreateTransaction", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateTransactionRequest"), suite.userID).
		Return(&created, nil).Once()

	w := suite.postTransaction(req, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.TransactionID, resp.TransactionID)
	suite.Equal(domain.Completed, resp.Status)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MissingToken() {
	w := suite.postTransaction(suite.validRequest(), "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_InsufficientFundsMapsToConflict() {
	suite.mockSvc.On("CreateTransaction", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateTransactionRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: account has 50, needs 100", apperrors.ErrInsufficientFunds)).Once()

	w := suite.postTransaction(suite.validRequest(), suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_ExhaustedRetriesMapToConflict() {
	suite.mockSvc.On("CreateTransaction", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateTransactionRequest"), suite.userID).
		Return(nil, fmt.Errorf("not applied after 5 attempts: %w", apperrors.ErrConcurrencyConflict)).Once()

	w := suite.postTransaction(suite.validRequest(), suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_InvalidAmountMapsToBadRequest() {
	suite.mockSvc.On("CreateTransaction", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateTransactionRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: got -5", apperrors.ErrInvalidAmount)).Once()

	w := suite.postTransaction(suite.validRequest(), suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_CrossCompanyMapsToNotFound() {
	suite.mockSvc.On("CreateTransaction", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateTransactionRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: account abc", apperrors.ErrCrossCompanyAccount)).Once()

	w := suite.postTransaction(suite.validRequest(), suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MalformedBodyRejected() {
	// Missing required fields entirely
	w := suite.postTransaction(map[string]string{"description": "no amount"}, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_OK() {
	txnID := uuid.NewString()
	stored := domain.Transaction{TransactionID: txnID, CompanyID: suite.companyID, Status: domain.Completed}
	suite.mockSvc.On("GetTransactionByID", mock.Anything, suite.companyID, txnID, suite.userID).
		Return(&stored, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions/%s", suite.companyID, txnID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
