package security

import (
	"strings"
	"testing"

	"github.com/kisanbazar/kisanbazar-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	// low-cost parameters to keep the test fast
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := VerifyPassword("hunter2hunter2", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("pw", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
