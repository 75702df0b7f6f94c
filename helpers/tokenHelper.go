package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

type SignedDetails struct {
	Email     string
	Name      string
	Uid       string
	User_role string
	jwt.StandardClaims
}

// TokenMaker signs and checks the HS256 tokens sent in the "token" header.
type TokenMaker struct {
	secret     []byte
	ttl        time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenMaker(secret string) *TokenMaker {
	return &TokenMaker{secret: []byte(secret), ttl: 24 * time.Hour, refreshTTL: 168 * time.Hour, now: time.Now}
}

// WithTTL changes the access token lifetime.
func (m *TokenMaker) WithTTL(ttl time.Duration) *TokenMaker {
	m.ttl = ttl
	return m
}

func (m *TokenMaker) GenerateAllTokens(email string, name string, uid string, userRole string) (signedToken string, refreshSignedToken string, err error) {
	now := m.now()
	claim := SignedDetails{
		Email:     email,
		Name:      name,
		Uid:       uid,
		User_role: userRole,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	}
	refreshClaim := SignedDetails{
		Uid: uid,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.refreshTTL).Unix(),
		},
	}
	signedToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString(m.secret)
	if err != nil {
		return "", "", err
	}
	refreshSignedToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaim).SignedString(m.secret)
	if err != nil {
		return "", "", err
	}
	return signedToken, refreshSignedToken, nil
}

var ErrInvalidToken = errors.New("the token is invalid")

func (m *TokenMaker) ValidateToken(signedToken string) (*SignedDetails, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		},
	)
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: token is expired", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid || claims.Uid == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
