package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JSONWebToken struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func NewJSONWebToken(privateKeyPEM, publicKeyPEM []byte) *JSONWebToken {
	j := &JSONWebToken{}

	if len(privateKeyPEM) > 0 {
		key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
		if err == nil {
			j.privateKey = key
		}
	}

	if len(publicKeyPEM) > 0 {
		key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
		if err == nil {
			j.publicKey = key
		}
	}

	return j
}

func (j *JSONWebToken) Sign(subject string, expiresIn time.Duration, claims map[string]interface{}) (string, error) {
	if j.privateKey == nil {
		return "", fmt.Errorf("jwt private key is not configured")
	}

	now := time.Now()

	mapClaims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(expiresIn).Unix(),
	}
	for k, v := range claims {
		mapClaims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, mapClaims)

	return token.SignedString(j.privateKey)
}

func (j *JSONWebToken) Parse(tokenString string) (jwt.MapClaims, error) {
	if j.publicKey == nil {
		return nil, fmt.Errorf("jwt public key is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
