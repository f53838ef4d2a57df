package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	// low cost keeps the test fast
	hash, err := HashPassword("hunter22", 4)

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if hash == "hunter22" {
		t.Fatal("hash equals the plaintext")
	}

	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Fatalf("CheckPassword rejected the right password: %v", err)
	}

	if err := CheckPassword(hash, "hunter23"); err == nil {
		t.Fatal("CheckPassword accepted the wrong password")
	}
}

func TestHashPasswordClampsCost(t *testing.T) {
	// out-of-range costs should not error, they fall back to the default
	if _, err := HashPassword("pw", -1); err != nil {
		t.Fatalf("negative cost: %v", err)
	}

	if _, err := HashPassword("pw", 99); err != nil {
		t.Fatalf("oversized cost: %v", err)
	}
}
