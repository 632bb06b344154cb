package lastfm

import "testing"

func TestSign_KnownVector(t *testing.T) {
	params := map[string]string{
		"method":   "auth.getMobileSession",
		"username": "alice",
		"password": "pw1",
		"api_key":  "key123",
	}

	// MD5 of "api_keykey123methodauth.getMobileSessionpasswordpw1usernamealicesecret456"
	want := "5c860bc3120f970c100a6ed9fc1dda0f"
	if got := Sign(params, "secret456"); got != want {
		t.Errorf("Sign() = %q, want %q", got, want)
	}
}

func TestSign_SmallVector(t *testing.T) {
	params := map[string]string{
		"foo": "BAR",
		"baz": "QUX",
	}

	// Keys sort as baz, foo: MD5 of "bazQUXfooBARsek".
	want := "0d6787d29d46cc60ac948e1d0f954360"
	if got := Sign(params, "sek"); got != want {
		t.Errorf("Sign() = %q, want %q", got, want)
	}
}

func TestSign_Deterministic(t *testing.T) {
	params := map[string]string{
		"method":  "user.getInfo",
		"sk":      "SK1",
		"api_key": "key123",
	}

	first := Sign(params, "secret456")
	// Map iteration order varies between runs; the signature must not.
	for i := 0; i < 50; i++ {
		rebuilt := map[string]string{
			"api_key": "key123",
			"sk":      "SK1",
			"method":  "user.getInfo",
		}
		if got := Sign(rebuilt, "secret456"); got != first {
			t.Fatalf("Sign() not invariant under map construction order: %q != %q", got, first)
		}
	}
}

func TestSign_ChangesWithValue(t *testing.T) {
	base := map[string]string{
		"method":   "auth.getMobileSession",
		"username": "alice",
		"password": "pw1",
		"api_key":  "key123",
	}
	baseSig := Sign(base, "secret456")

	changed := map[string]string{
		"method":   "auth.getMobileSession",
		"username": "alice",
		"password": "pw2",
		"api_key":  "key123",
	}
	if got := Sign(changed, "secret456"); got == baseSig {
		t.Error("Sign() unchanged after modifying a parameter value")
	}

	if got := Sign(base, "othersecret"); got == baseSig {
		t.Error("Sign() unchanged after modifying the secret")
	}
}
