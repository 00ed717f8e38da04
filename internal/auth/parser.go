package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Principal identifies an authenticated API caller.
type Principal struct {
	UserID string
	Name   string
	Role   string
}

// Parser validates HS256 access tokens.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(tokenString string) (Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Principal{}, fmt.Errorf("invalid token claims")
	}

	principal := Principal{}
	if sub, err := claims.GetSubject(); err == nil {
		principal.UserID = sub
	}
	if name, ok := claims["name"].(string); ok {
		principal.Name = name
	}
	if role, ok := claims["role"].(string); ok {
		principal.Role = role
	}
	if principal.UserID == "" {
		return Principal{}, fmt.Errorf("token has no subject")
	}
	return principal, nil
}
