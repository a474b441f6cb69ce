package helpers

import "testing"

func TestGenOTPCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenOTPCode()
		if err != nil {
			t.Fatalf("gen: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected digits only, got %q", code)
			}
		}
	}
}

func TestKeyPasswordResetOTPKeepsEmailCase(t *testing.T) {
	if got := KeyPasswordResetOTP("a@x.com"); got != "pwd:reset:otp:a@x.com" {
		t.Fatalf("unexpected key %q", got)
	}
	if KeyPasswordResetOTP("A@x.com") == KeyPasswordResetOTP("a@x.com") {
		t.Fatal("expected distinct keys for emails differing in case")
	}
}

func TestOTPEqual(t *testing.T) {
	if !OTPEqual("123456", "123456") {
		t.Fatal("expected equal codes to match")
	}
	if OTPEqual("123456", "123457") || OTPEqual("123456", "") {
		t.Fatal("expected different codes to mismatch")
	}
}
