package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/infrastructure/config"
	"github.com/daywise/core/internal/infrastructure/logger"
	"github.com/daywise/core/internal/ports"
)

// Claims represents the JWT claims
type Claims struct {
	OwnerID   string `json:"owner_id"`
	Email     string `json:"email,omitempty"`
	Ephemeral bool   `json:"ephemeral"`
	jwt.RegisteredClaims
}

// AuthService issues identities for registered accounts and for anonymous
// guest sessions. Guest identities are ephemeral: their owner key is local
// and their tasks never reach the persistent store.
type AuthService struct {
	userRepo  ports.UserRepository
	jwtConfig config.JWTConfig
	logger    *logger.Logger

	subMu       sync.RWMutex
	subscribers []func(ports.IdentityEvent)
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

// Register creates a new user account and signs it in.
func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*ports.AuthResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("user with email %s already exists", req.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("User registered successfully", "user_id", user.ID, "email", user.Email)

	return s.respond(user)
}

// Login authenticates a user and returns a token.
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warnw("Login attempt with non-existent email", "email", req.Email)
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warnw("Login attempt with wrong password", "email", req.Email)
		return nil, fmt.Errorf("invalid credentials")
	}

	s.logger.Infow("User logged in", "user_id", user.ID)

	return s.respond(user)
}

// Anonymous issues a guest identity backed by nothing but a session id. The
// resulting owner key is local, so every task created under it stays in
// memory only.
func (s *AuthService) Anonymous(ctx context.Context) (*ports.AuthResponse, error) {
	owner := entities.LocalOwner(uuid.New())

	token, err := s.generateToken(Claims{
		OwnerID:   owner.ID.String(),
		Ephemeral: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate guest token: %w", err)
	}

	s.logger.Infow("Guest session issued", "session_id", owner.ID)

	s.publish(ports.IdentityEvent{
		Kind:     ports.IdentitySignedIn,
		Identity: ports.Identity{Owner: owner, Ephemeral: true},
	})

	return &ports.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtConfig.ExpiresIn.Seconds()),
		Ephemeral:   true,
	}, nil
}

// Logout announces a sign-out so dependent caches can drop the owner's state.
// Tokens are short-lived and not revoked server-side.
func (s *AuthService) Logout(ctx context.Context, identity ports.Identity) error {
	s.logger.Infow("Identity signed out", "owner", identity.Owner.String())

	s.publish(ports.IdentityEvent{
		Kind:     ports.IdentitySignedOut,
		Identity: identity,
	})

	return nil
}

// ValidateToken parses and validates a token, returning the identity it
// carries.
func (s *AuthService) ValidateToken(tokenString string) (*ports.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	ownerID, err := uuid.Parse(claims.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id in token: %w", err)
	}

	identity := &ports.Identity{
		Email:     claims.Email,
		Ephemeral: claims.Ephemeral,
	}
	if claims.Ephemeral {
		identity.Owner = entities.LocalOwner(ownerID)
	} else {
		identity.Owner = entities.RemoteOwner(ownerID)
	}

	return identity, nil
}

// Subscribe registers a callback for identity changes. Events are delivered
// asynchronously.
func (s *AuthService) Subscribe(fn func(ports.IdentityEvent)) {
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

func (s *AuthService) publish(event ports.IdentityEvent) {
	s.subMu.RLock()
	subs := make([]func(ports.IdentityEvent), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()

	for _, fn := range subs {
		go fn(event)
	}
}

func (s *AuthService) respond(user *entities.User) (*ports.AuthResponse, error) {
	token, err := s.generateToken(Claims{
		OwnerID: user.ID.String(),
		Email:   user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.publish(ports.IdentityEvent{
		Kind: ports.IdentitySignedIn,
		Identity: ports.Identity{
			Owner: entities.RemoteOwner(user.ID),
			Email: user.Email,
		},
	})

	// Never echo the password hash
	sanitized := *user
	sanitized.PasswordHash = ""

	return &ports.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtConfig.ExpiresIn.Seconds()),
		User:        &sanitized,
	}, nil
}

func (s *AuthService) generateToken(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.jwtConfig.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}
