package client

import (
	"fmt"

	"parcel-delivery-backend/internal/apperr"
	"parcel-delivery-backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier resolves a bearer token to the authenticated email.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type jwtVerifierImpl struct {
	secret []byte
}

func NewJWTVerifier(authCfg *config.Auth) TokenVerifier {
	return &jwtVerifierImpl{
		secret: []byte(authCfg.JWTSecret),
	}
}

func (v *jwtVerifierImpl) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", apperr.Wrap(apperr.Auth, "invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", apperr.New(apperr.Auth, "invalid token claims")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return "", apperr.New(apperr.Auth, "token missing email claim")
	}

	return email, nil
}
