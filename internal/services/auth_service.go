package services

import (
	"context"
	"encoding/json"
	"time"

	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers credential holders and issues opaque session tokens.
// A token is a uuid keyed in redis to its Identity; middleware resolves it
// once per request, so nothing downstream re-inspects credentials.
type AuthService struct {
	store       repository.Store
	redisClient *redis.Client
	sessionTTL  time.Duration
}

func NewAuthService(store repository.Store, redisClient *redis.Client, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		store:       store,
		redisClient: redisClient,
		sessionTTL:  sessionTTL,
	}
}

func (s *AuthService) RegisterUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueSession(ctx, domain.Identity{Kind: domain.IdentityUser, ID: user.ID})
}

type VendorRegistration struct {
	Username            string
	Email               string
	Password            string
	BusinessName        string
	BusinessDescription string
	ContactPhone        string
}

func (s *AuthService) RegisterVendor(ctx context.Context, in VendorRegistration) (*domain.Vendor, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	vendor := &domain.Vendor{
		Username:            in.Username,
		Email:               in.Email,
		PasswordHash:        string(hash),
		BusinessName:        in.BusinessName,
		BusinessDescription: in.BusinessDescription,
		ContactPhone:        in.ContactPhone,
	}
	if err := s.store.Vendors().Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *AuthService) LoginVendor(ctx context.Context, username, password string) (string, error) {
	vendor, err := s.store.Vendors().FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if vendor == nil || bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueSession(ctx, domain.Identity{Kind: domain.IdentityVendor, ID: vendor.ID})
}

// Authenticate resolves a bearer token into the Identity it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, ErrInvalidSession
	}
	data, err := s.redisClient.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return domain.Identity{}, ErrInvalidSession
	}
	if err != nil {
		return domain.Identity{}, err
	}
	var ident domain.Identity
	if err := json.Unmarshal([]byte(data), &ident); err != nil {
		return domain.Identity{}, ErrInvalidSession
	}
	return ident, nil
}

func (s *AuthService) issueSession(ctx context.Context, ident domain.Identity) (string, error) {
	token := uuid.New().String()
	data, err := json.Marshal(ident)
	if err != nil {
		return "", err
	}
	if err := s.redisClient.Set(ctx, sessionKey(token), data, s.sessionTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func sessionKey(token string) string {
	return "session:" + token
}
