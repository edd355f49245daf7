package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lapor/internal/model"
	"lapor/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Fullname string `json:"fullname" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ApproveUserRequest struct {
	Role string `json:"role" binding:"required,oneof=Staff Supervisor Manager Owner"`
}

// UserResponse returns a User without exposing sensitive data
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Fullname   string    `json:"fullname"`
	Role       string    `json:"role"`
	IsApproved bool      `json:"is_approved"`
	AvatarURL  *string   `json:"avatar_url"`
	CreatedAt  string    `json:"created_at"`
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountPending     = errors.New("account is awaiting approval")
	ErrSessionExpired     = errors.New("session expired, sign in again")
)

// UserService owns password auth, session lifecycle, and the account-approval
// workflow (the privileged get_pending_users / approve_user procedures).
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, *UserResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)

	ListPendingUsers(ctx context.Context) ([]UserResponse, error)
	ApproveUser(ctx context.Context, approverID, targetID string, newRole string) (*UserResponse, error)
	RejectUser(ctx context.Context, approverID, targetID string) error
}

type userService struct {
	repo      repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	rdb       *redis.Client
	secret    []byte
	accessTTL time.Duration
	refresTTL time.Duration
}

// NewUserService returns a new instance of UserService
func NewUserService(
	repo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	rdb *redis.Client,
	secret []byte,
	accessTTL, refreshTTL time.Duration,
) UserService {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &userService{
		repo:      repo,
		auditRepo: auditRepo,
		txManager: txManager,
		rdb:       rdb,
		secret:    secret,
		accessTTL: accessTTL,
		refresTTL: refreshTTL,
	}
}

// Helper: parse model to standard json API response
func mapUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Fullname:   user.Fullname,
		Role:       user.Role,
		IsApproved: user.IsApproved,
		AvatarURL:  user.AvatarURL,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Email:    req.Email,
		Fullname: req.Fullname,
		Password: string(hashedPassword),
		Role:     model.RoleStaff,
		// Accounts wait for a reviewer's approval before they can sign in
		IsApproved: false,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return mapUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenPair, *UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsApproved {
		return nil, nil, ErrAccountPending
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, mapUserResponse(user), nil
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	})
	accessString, err := access.SignedString(s.secret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	// Refresh token carries only a jti; the jti -> user mapping lives in
	// Redis so logout can revoke it server-side.
	jti := uuid.NewString()
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti": jti,
		"exp": now.Add(s.refresTTL).Unix(),
	})
	refreshString, err := refresh.SignedString(s.secret)
	if err != nil {
		return nil, errors.New("failed to generate refresh token")
	}

	if err := s.rdb.Set(ctx, "token:refresh:"+jti, user.ID.String(), s.refresTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &TokenPair{AccessToken: accessString, RefreshToken: refreshString}, nil
}

func (s *userService) parseRefreshJTI(refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrSessionExpired
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrSessionExpired
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", ErrSessionExpired
	}
	return jti, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	jti, err := s.parseRefreshJTI(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := s.rdb.Get(ctx, "token:refresh:"+jti).Result()
	if err != nil {
		return nil, ErrSessionExpired
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrSessionExpired
	}
	if !user.IsApproved {
		return nil, ErrAccountPending
	}

	// Rotate: revoke the old jti before issuing a new pair
	s.rdb.Del(ctx, "token:refresh:"+jti)
	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	jti, err := s.parseRefreshJTI(refreshToken)
	if err != nil {
		// Nothing to revoke; sign-out still succeeds client-side
		return nil
	}
	return s.rdb.Del(ctx, "token:refresh:"+jti).Err()
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return mapUserResponse(user), nil
}

func (s *userService) ListPendingUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, *mapUserResponse(&u))
	}
	return res, nil
}

// ApproveUser activates a pending account with the given role. The activation
// and its audit entry commit together.
func (s *userService) ApproveUser(ctx context.Context, approverID, targetID string, newRole string) (*UserResponse, error) {
	if !model.ValidRole(newRole) {
		return nil, fmt.Errorf("invalid role %q", newRole)
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("invalid approver id: %w", err)
	}

	var user *model.User
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user, err = s.repo.GetByID(txCtx, targetID)
		if err != nil {
			return errors.New("user not found")
		}
		if user.IsApproved {
			return errors.New("account is already approved")
		}

		user.IsApproved = true
		user.Role = newRole
		user.ApprovedBy = &approverUUID
		if err := s.repo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to approve account: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"new_role": newRole,
		})
		audit := model.AuditLog{
			UserID:     &approverUUID,
			Action:     model.ActionApproveUser,
			EntityID:   user.ID.String(),
			EntityName: user.Fullname,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, &audit)
	})
	if err != nil {
		return nil, err
	}

	return mapUserResponse(user), nil
}

// RejectUser deletes a pending account.
func (s *userService) RejectUser(ctx context.Context, approverID, targetID string) error {
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return fmt.Errorf("invalid approver id: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetByID(txCtx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("user not found")
			}
			return err
		}
		if user.IsApproved {
			return errors.New("cannot reject an approved account")
		}

		if err := s.repo.Delete(txCtx, targetID); err != nil {
			return fmt.Errorf("failed to reject account: %w", err)
		}

		audit := model.AuditLog{
			UserID:     &approverUUID,
			Action:     model.ActionRejectUser,
			EntityID:   targetID,
			EntityName: user.Fullname,
			Details:    "{}",
		}
		return s.auditRepo.Log(txCtx, &audit)
	})
}
