package repository

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AnonKeyInfo is what InspectAnonKey could read out of the hosted catalog's
// anon key.
type AnonKeyInfo struct {
	Role      string
	Ref       string
	ExpiresAt time.Time
}

// Expired reports whether the key's expiry has passed.
func (i AnonKeyInfo) Expired() bool {
	return !i.ExpiresAt.IsZero() && time.Now().After(i.ExpiresAt)
}

// InspectAnonKey parses the Supabase anon key without verifying its signature
// (the signing secret belongs to the hosted service). The claims are only used
// to log the key's role and warn about expiry at startup; an unparseable key
// is an error because every catalog request would be rejected anyway.
func InspectAnonKey(key string) (AnonKeyInfo, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(key, claims); err != nil {
		return AnonKeyInfo{}, fmt.Errorf("failed to parse anon key: %w", err)
	}

	info := AnonKeyInfo{}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if ref, ok := claims["ref"].(string); ok {
		info.Ref = ref
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
