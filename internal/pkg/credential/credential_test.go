package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIssuer(t *testing.T) {
	_, err := NewIssuer("")
	require.ErrorIs(t, err, ErrMissingSecret)

	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)
	require.NotNil(t, issuer)
}

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	token, err := issuer.Issue(42, 7)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "vp1."))

	claims, ok := issuer.Verify(token)
	require.True(t, ok)
	require.Equal(t, KindCheckIn, claims.Kind)
	require.Equal(t, uint(42), claims.ParticipantID)
	require.Equal(t, uint(7), claims.EventID)
	require.NotEmpty(t, claims.Nonce)
}

func TestIssueIsUniquePerCall(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	first, err := issuer.Issue(1, 1)
	require.NoError(t, err)
	second, err := issuer.Issue(1, 1)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestVerifyRejectsTampering(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	token, err := issuer.Issue(42, 7)
	require.NoError(t, err)

	// Flipping any single byte must invalidate the token.
	for i := 0; i < len(token); i++ {
		raw := []byte(token)
		raw[i] ^= 0x01

		_, ok := issuer.Verify(string(raw))
		require.Falsef(t, ok, "token accepted after flipping byte %v", i)
	}
}

func TestVerifyRejectsSignatureTrailingBitVariants(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	token, err := issuer.Issue(42, 7)
	require.NoError(t, err)

	// A 32-byte signature leaves two bits of its final base64 digit
	// unused, so the three characters sharing that digit's upper bits
	// decode to the same bytes. Each such variant is a byte-different
	// token and must still be rejected.
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	idx := strings.IndexByte(alphabet, token[len(token)-1])
	require.GreaterOrEqual(t, idx, 0)

	for _, variant := range []int{idx ^ 1, idx ^ 2, idx ^ 3} {
		tampered := token[:len(token)-1] + string(alphabet[variant])
		require.NotEqual(t, token, tampered)

		_, ok := issuer.Verify(tampered)
		require.Falsef(t, ok, "token accepted with final digit %q replaced by %q",
			token[len(token)-1], alphabet[variant])
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)
	other, err := NewIssuer("another-secret")
	require.NoError(t, err)

	token, err := issuer.Issue(42, 7)
	require.NoError(t, err)

	_, ok := other.Verify(token)
	require.False(t, ok)
}

func TestVerifyRejectsMalformedTokens(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-credential"},
		{name: "wrong prefix", token: "vp2.abc.def"},
		{name: "too few parts", token: "vp1.abc"},
		{name: "too many parts", token: "vp1.abc.def.ghi"},
		{name: "invalid base64 payload", token: "vp1.!!!.def"},
		{name: "invalid base64 signature", token: "vp1.abc.!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := issuer.Verify(tt.token)
			require.False(t, ok)
		})
	}
}
