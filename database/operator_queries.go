package database

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"teamserver/models"
)

// tokenTTL is the fixed validity window of a session token.
const tokenTTL = 6 * time.Hour

// tokenBytes is the entropy of a freshly minted token. 64 bytes encodes to
// the 128 hex characters the wire format carries.
const tokenBytes = 64

// CreateOperator registers an operator row. Provisioning tooling and tests
// are the only callers; the server itself never creates operators.
func (s *Store) CreateOperator(op *models.Operator) error {
	return upstream(s.db.Create(op).Error)
}

// OperatorByUsername returns the operator with the given username, or nil if
// no such operator exists.
func (s *Store) OperatorByUsername(username string) (*models.Operator, error) {
	var op models.Operator
	result := s.db.Where("username = ?", username).First(&op)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, upstream(result.Error)
	}
	return &op, nil
}

// IssueOrReuseToken returns the operator's current token if it is still
// valid, otherwise mints a new one and persists it before returning.
// Re-authentication while a token is live is idempotent.
func (s *Store) IssueOrReuseToken(op *models.Operator) (string, error) {
	now := s.now()
	if op.TokenValid(now) {
		return *op.AuthToken, nil
	}

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	expiry := now.Add(tokenTTL)

	op.AuthToken = &token
	op.AuthTokenExpiry = &expiry
	if err := s.db.Model(&models.Operator{}).Where("username = ?", op.Username).Updates(map[string]any{
		"auth_token":        token,
		"auth_token_expiry": expiry,
	}).Error; err != nil {
		return "", upstream(err)
	}
	return token, nil
}

// OperatorByToken resolves a bearer token to its operator. Expired, revoked
// and unknown tokens all come back as nil; callers get no further detail.
func (s *Store) OperatorByToken(token string) (*models.Operator, error) {
	if token == "" {
		return nil, nil
	}
	var op models.Operator
	result := s.db.Where("auth_token = ?", token).First(&op)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, upstream(result.Error)
	}
	if !op.TokenValid(s.now()) {
		return nil, nil
	}
	return &op, nil
}

// RevokeToken clears the operator's token and expiry, invalidating any
// holder of the old value.
func (s *Store) RevokeToken(op *models.Operator) error {
	op.AuthToken = nil
	op.AuthTokenExpiry = nil
	return upstream(s.db.Model(&models.Operator{}).Where("username = ?", op.Username).Updates(map[string]any{
		"auth_token":        nil,
		"auth_token_expiry": nil,
	}).Error)
}

// ExpireTokenAt overwrites the operator's token expiry. Only tests use this
// to simulate the passage of time.
func (s *Store) ExpireTokenAt(username string, at time.Time) error {
	return upstream(s.db.Model(&models.Operator{}).Where("username = ?", username).
		Update("auth_token_expiry", at).Error)
}

// CountOperators returns the number of registered operators.
func (s *Store) CountOperators() (int64, error) {
	var n int64
	err := s.db.Model(&models.Operator{}).Count(&n).Error
	return n, upstream(err)
}
