package kashier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexHMAC(secret, msg string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignatureSortsKeysAndSkipsSignatureAndMode(t *testing.T) {
	fields := map[string]string{
		"status":          "SUCCESS",
		"amount":          "99",
		"merchantOrderId": "abc-123",
		"currency":        "EGP",
		"mode":            "test",
		"signature":       "deadbeef",
	}

	got := Signature(fields, "secret")
	want := hexHMAC("secret", "amount=99&currency=EGP&merchantOrderId=abc-123&status=SUCCESS")
	assert.Equal(t, want, got)
}

func TestSignatureQueryEscapesValues(t *testing.T) {
	fields := map[string]string{"method": "card & wallet"}
	got := Signature(fields, "s")
	want := hexHMAC("s", "method=card+%26+wallet")
	assert.Equal(t, want, got)
}

func TestVerifySignature(t *testing.T) {
	fields := map[string]string{
		"merchantOrderId": "o-1",
		"status":          "SUCCESS",
		"mode":            "test",
	}
	fields["signature"] = Signature(fields, "secret")

	assert.True(t, VerifySignature(fields, "secret"))
	assert.False(t, VerifySignature(fields, "wrong-secret"))

	fields["signature"] = "tampered"
	assert.False(t, VerifySignature(fields, "secret"))

	delete(fields, "signature")
	assert.False(t, VerifySignature(fields, "secret"))
}

func TestOrderHash(t *testing.T) {
	got := OrderHash("MID-111", "order-9", "99", "EGP", "api-key")
	want := hexHMAC("api-key", "/?payment=MID-111.order-9.99.EGP")
	assert.Equal(t, want, got)
}

func TestMapStatus(t *testing.T) {
	cases := map[string]string{
		"SUCCESS":   "paid",
		"success":   "paid",
		"CAPTURED":  "paid",
		"PENDING":   "pending",
		"INITIATED": "pending",
		"FAILURE":   "failed",
		"DECLINED":  "failed",
		"":          "failed",
	}
	for in, want := range cases {
		assert.Equal(t, want, MapStatus(in), "status %q", in)
	}
}

func TestFlattenWebhookDataKeepsNumberText(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"amount":99.50,"orderId":"o-1","recurring":false,"extra":{"k":"v"},"empty":null}`))
	dec.UseNumber()
	var data map[string]interface{}
	require.NoError(t, dec.Decode(&data))

	flat := FlattenWebhookData(data)
	assert.Equal(t, "99.50", flat["amount"])
	assert.Equal(t, "o-1", flat["orderId"])
	assert.Equal(t, "false", flat["recurring"])
	assert.Equal(t, `{"k":"v"}`, flat["extra"])
	assert.Equal(t, "", flat["empty"])
}
