package newsletter

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret")
	id := uuid.New()

	raw, err := tokens.Issue(id)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	got, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got != id {
		t.Errorf("Parse() = %s, want %s", got, id)
	}
}

func TestTokenRejections(t *testing.T) {
	id := uuid.New()
	signer := NewTokens("secret")
	raw, _ := signer.Issue(id)

	expired := NewTokens("secret")
	expired.now = func() time.Time { return time.Now().Add(-2 * TokenTTL) }
	old, _ := expired.Issue(id)

	tests := []struct {
		name   string
		parser *Tokens
		token  string
	}{
		{"wrong secret", NewTokens("other"), raw},
		{"expired", signer, old},
		{"garbage", signer, "not-a-token"},
		{"empty", signer, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.parser.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
