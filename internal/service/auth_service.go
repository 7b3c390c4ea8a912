// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/memory"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	apiKeyPrefix       = "eak_"
	referralCodeLength = 8
)

var errInvalidCredentials = apperror.Unauthorized("Invalid credentials or API key")

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress string) (*dto.LoginResponse, error)
	CreateApiKey(ctx context.Context, userId uuid.UUID, name string) (*dto.ApiKeyResponse, error)
	ResolveCredentials(ctx context.Context, apiKey, username, password string) (*entity.Principal, error)
}

type authService struct {
	uowFactory    unitofwork.RepositoryFactory
	rewardService IRewardService
	notifier      INotifier
	cache         *memory.CredentialCache
	jwtSecret     string
	tokenTTL      time.Duration
	clock         Clock
	logger        logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	rewardService IRewardService,
	notifier INotifier,
	cache *memory.CredentialCache,
	jwtSecret string,
	tokenTTL time.Duration,
	clock Clock,
	log logger.ILogger,
) IAuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		uowFactory:    uowFactory,
		rewardService: rewardService,
		notifier:      notifier,
		cache:         cache,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
		clock:         clock,
		logger:        log,
	}
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:referralCodeLength])
}

func hashApiKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func newReferral(userId uuid.UUID, now time.Time) *entity.Referral {
	return &entity.Referral{ReferrerId: userId, Code: newReferralCode(), CreatedAt: now}
}

// Register creates the account and its referral code. A referral code given at signup is
// consumed exactly once; the referrer then receives a fresh code and a reward check.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	userRepo := uow.UserRepository()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := userRepo.FindOne(ctx, specification.ByEmail{Email: email}); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}
	if existing, err := userRepo.FindOne(ctx, specification.ByUsername{Username: req.Username}); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperror.Conflict("username already taken")
	}

	now := s.clock()
	user := &entity.User{
		Email:        email,
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	refRepo := uow.ReferralRepository()
	own := newReferral(user.Id, now)
	if err := refRepo.Create(ctx, own); err != nil {
		return nil, fmt.Errorf("create referral code: %w", err)
	}

	var referrerId *uuid.UUID
	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		referral, err := refRepo.FindOne(ctx, specification.ByCode{Code: code})
		if err != nil {
			return nil, err
		}
		if referral == nil || referral.ReferrerId == user.Id {
			return nil, apperror.Validation("invalid referral code")
		}
		consumed, err := refRepo.Consume(ctx, code, user.Id)
		if err != nil {
			return nil, err
		}
		if !consumed {
			return nil, apperror.Validation("referral code has already been used")
		}
		if err := refRepo.Create(ctx, newReferral(referral.ReferrerId, now)); err != nil {
			return nil, fmt.Errorf("rotate referral code: %w", err)
		}
		referrerId = &referral.ReferrerId
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	box := outbox{}
	box.add(Outbound{
		UserId:  user.Id,
		Email:   user.Email,
		Type:    entity.NotificationInfo,
		Title:   "Welcome",
		Message: fmt.Sprintf("Welcome aboard, %s! Your referral code is %s.", user.Username, own.Code),
		Event:   events.UserRegistered,
	})
	box.flush(ctx, s.notifier)

	if referrerId != nil {
		if _, err := s.rewardService.CheckAndGrantReferralReward(ctx, *referrerId); err != nil {
			s.logger.Error("AUTH", "Referral reward check failed", map[string]interface{}{
				"referrer_id": referrerId.String(),
				"error":       err.Error(),
			})
		}
	}

	return &dto.RegisterResponse{
		Id:           user.Id,
		Email:        user.Email,
		Username:     user.Username,
		ReferralCode: own.Code,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.checkPassword(ctx, uow, req.Login, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"staff":   user.IsStaff,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	err = recordAudit(ctx, uow, s.clock, AuditEntry{
		UserId:     userRef(user.Id),
		Action:     entity.AuditUserLogin,
		ObjectType: "User",
		ObjectId:   user.Id.String(),
		IpAddress:  ipAddress,
	})
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		ExpiresAt:   expiresAt,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			Username: user.Username,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
	}, nil
}

// checkPassword accepts the username or the email as login.
func (s *authService) checkPassword(ctx context.Context, uow unitofwork.UnitOfWork, login, password string) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByLogin{Login: strings.TrimSpace(login)})
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return user, nil
}

// CreateApiKey returns the plaintext key once. Only its hash is stored.
func (s *authService) CreateApiKey(ctx context.Context, userId uuid.UUID, name string) (*dto.ApiKeyResponse, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	plain := apiKeyPrefix + hex.EncodeToString(raw)

	key := &entity.ApiKey{
		UserId:    userId,
		Name:      name,
		KeyHash:   hashApiKey(plain),
		Prefix:    plain[:len(apiKeyPrefix)+6],
		IsActive:  true,
		CreatedAt: s.clock(),
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().CreateApiKey(ctx, key); err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}

	return &dto.ApiKeyResponse{
		Id:        key.Id,
		Name:      key.Name,
		Prefix:    key.Prefix,
		Key:       plain,
		CreatedAt: key.CreatedAt,
	}, nil
}

// ResolveCredentials tries the API key first, then username and password.
func (s *authService) ResolveCredentials(ctx context.Context, apiKey, username, password string) (*entity.Principal, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if apiKey != "" {
		principal, err := s.resolveApiKey(ctx, uow, apiKey)
		if err != nil {
			return nil, err
		}
		if principal != nil {
			return principal, nil
		}
	}

	if username != "" && password != "" {
		user, err := s.checkPassword(ctx, uow, username, password)
		if err != nil {
			return nil, err
		}
		return user.Principal(), nil
	}
	return nil, errInvalidCredentials
}

func (s *authService) resolveApiKey(ctx context.Context, uow unitofwork.UnitOfWork, apiKey string) (*entity.Principal, error) {
	hash := hashApiKey(apiKey)
	if s.cache != nil {
		if principal, ok := s.cache.Get(hash); ok {
			return principal, nil
		}
	}

	userRepo := uow.UserRepository()
	key, err := userRepo.FindApiKey(ctx,
		specification.ByKeyHash{Hash: hash},
		specification.FilterBy{Field: "is_active", Value: true},
	)
	if err != nil || key == nil {
		return nil, err
	}
	user, err := userRepo.FindOne(ctx, specification.ByID{ID: key.UserId})
	if err != nil || user == nil || user.Status != entity.UserStatusActive {
		return nil, err
	}

	if err := userRepo.TouchApiKey(ctx, key.Id, s.clock()); err != nil {
		s.logger.Warn("AUTH", "Failed to stamp api key usage", map[string]interface{}{
			"key_id": key.Id.String(),
			"error":  err.Error(),
		})
	}

	principal := user.Principal()
	if s.cache != nil {
		s.cache.Save(hash, principal)
	}
	return principal, nil
}
