package utils

import (
	"testing"
)

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate(42, "org-test", "field tech")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token should be valid")
	}

	claim, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatal("claims have wrong type")
	}
	if claim.ID != 42 || claim.OrgId != "org-test" || claim.UserName != "field tech" {
		t.Errorf("claims round trip mismatch: %+v", claim)
	}
}

func TestJwtValidate_RejectsGarbage(t *testing.T) {
	if _, err := JwtValidate("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
