package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

const (
	testSecret = "test-secret"
	testIssuer = "taskhub-idp"
)

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[tokenID], nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   testIssuer,
		"sub":   "sub-1",
		"email": "ada@example.com",
		"name":  "Ada Lovelace",
		"jti":   "jti-1",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerify_ValidToken(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer, &fakeRevocations{})
	raw := signToken(t, testSecret, validClaims())

	identity, err := v.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.Subject != "sub-1" {
		t.Errorf("subject = %q", identity.Subject)
	}
	if identity.Email != "ada@example.com" || identity.Name != "Ada Lovelace" {
		t.Errorf("claims not carried over: %+v", identity)
	}
	if identity.TokenID != "jti-1" {
		t.Errorf("token id = %q", identity.TokenID)
	}
	if identity.ExpiresAt.IsZero() || !identity.ExpiresAt.After(time.Now()) {
		t.Errorf("expiry = %v, want the token's exp claim", identity.ExpiresAt)
	}
}

func TestVerify_Expired(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer, &fakeRevocations{})
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	raw := signToken(t, testSecret, claims)

	_, err := v.Verify(context.Background(), raw)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer, &fakeRevocations{})
	raw := signToken(t, "other-secret", validClaims())

	_, err := v.Verify(context.Background(), raw)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer, &fakeRevocations{})

	_, err := v.Verify(context.Background(), "not-a-token")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer, &fakeRevocations{})
	claims := validClaims()
	claims["iss"] = "someone-else"
	raw := signToken(t, testSecret, claims)

	_, err := v.Verify(context.Background(), raw)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer, &fakeRevocations{})
	claims := validClaims()
	delete(claims, "sub")
	raw := signToken(t, testSecret, claims)

	_, err := v.Verify(context.Background(), raw)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_Revoked(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer, &fakeRevocations{revoked: map[string]bool{"jti-1": true}})
	raw := signToken(t, testSecret, validClaims())

	_, err := v.Verify(context.Background(), raw)
	if !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}
}

func TestVerify_RevocationStoreFailureFailsClosed(t *testing.T) {
	storeErr := errors.New("redis down")
	v := NewVerifier(testSecret, testIssuer, &fakeRevocations{err: storeErr})
	raw := signToken(t, testSecret, validClaims())

	_, err := v.Verify(context.Background(), raw)
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want the store failure, not an admitted token", err)
	}
}

func TestVerify_RejectsUnexpectedAlgorithm(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer, &fakeRevocations{})
	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := v.Verify(context.Background(), raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}
