package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	XUserCPFHeader  = "X-User-CPF"
	XUserRoleHeader = "X-User-Role"
)

type Config struct {
	Secret   string        `envconfig:"JWT_SECRET" default:"change-me-change-me-change-me-32b"`
	TokenTTL time.Duration `envconfig:"JWT_TTL" default:"12h"`
}

type Profile struct {
	CPF  string `json:"cpf"`
	Role string `json:"role"`
}

type Claims struct {
	Profile Profile `json:"profile"`
	jwt.RegisteredClaims
}

var (
	ErrNoAuthContext = errors.New("user is not authenticated")
	ErrInvalidToken  = errors.New("token is invalid")
)

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg Config) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

func (m *TokenManager) Issue(cpf, role string) (string, error) {
	now := m.now()
	claims := &Claims{
		Profile: Profile{CPF: cpf, Role: role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cpf,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return token, nil
}

func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type ctxKey int

const profileKey ctxKey = iota + 1

func SetAuthContext(ctx context.Context, cpf, role string) context.Context {
	return context.WithValue(ctx, profileKey, Profile{CPF: cpf, Role: role})
}

func GetProfile(ctx context.Context) (Profile, error) {
	p, ok := ctx.Value(profileKey).(Profile)
	if !ok || p.CPF == "" {
		return Profile{}, ErrNoAuthContext
	}
	return p, nil
}

func GetCPF(ctx context.Context) (string, error) {
	p, err := GetProfile(ctx)
	if err != nil {
		return "", err
	}
	return p.CPF, nil
}
