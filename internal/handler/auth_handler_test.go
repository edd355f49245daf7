package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lapor/internal/middleware"
	"lapor/internal/model"
	"lapor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("handler-test-secret")

// stubUserService satisfies service.UserService with canned responses.
type stubUserService struct{}

func (stubUserService) Register(context.Context, service.RegisterRequest) (*service.UserResponse, error) {
	return &service.UserResponse{}, nil
}
func (stubUserService) Login(context.Context, service.LoginRequest) (*service.TokenPair, *service.UserResponse, error) {
	return &service.TokenPair{}, &service.UserResponse{}, nil
}
func (stubUserService) Refresh(context.Context, string) (*service.TokenPair, error) {
	return &service.TokenPair{}, nil
}
func (stubUserService) Logout(context.Context, string) error { return nil }
func (stubUserService) GetUserByID(context.Context, string) (*service.UserResponse, error) {
	return &service.UserResponse{}, nil
}
func (stubUserService) ListPendingUsers(context.Context) ([]service.UserResponse, error) {
	return []service.UserResponse{}, nil
}
func (stubUserService) ApproveUser(context.Context, string, string, string) (*service.UserResponse, error) {
	return &service.UserResponse{}, nil
}
func (stubUserService) RejectUser(context.Context, string, string) error { return nil }

func bearerFor(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "00000000-0000-0000-0000-000000000001",
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.Init(testSecret)
	router := gin.New()
	NewAuthHandler(stubUserService{}).RegisterRoutes(router.Group("/api"))
	return router
}

func TestAccountApprovalOpenToAllReviewerRoles(t *testing.T) {
	router := authTestRouter()

	tests := []struct {
		role       string
		wantStatus int
	}{
		{model.RoleSupervisor, http.StatusOK},
		{model.RoleManager, http.StatusOK},
		{model.RoleOwner, http.StatusOK},
		{model.RoleStaff, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/accounts/pending", nil)
			req.Header.Set("Authorization", bearerFor(t, tt.role))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("%s got %d on /api/accounts/pending, want %d", tt.role, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAccountApprovalRequiresToken(t *testing.T) {
	router := authTestRouter()

	req := httptest.NewRequest("GET", "/api/accounts/pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request got %d, want 401", rec.Code)
	}
}
