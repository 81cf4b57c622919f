// Package kashier implements the pieces of the Kashier payment gateway
// contract the server depends on: the webhook/redirect signature scheme,
// the hosted-checkout order hash, and provider status mapping.
package kashier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

// Fields excluded from the signed query string.
const (
	fieldSignature = "signature"
	fieldMode      = "mode"
)

// Signature computes the hex HMAC-SHA256 of the payload's reconstructed
// query string: keys sorted ascending, signature and mode excluded, values
// query-escaped, pairs joined with '&'.
func Signature(fields map[string]string, secret string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == fieldSignature || k == fieldMode {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+url.QueryEscape(fields[k]))
	}
	qs := strings.Join(parts, "&")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(qs))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the payload's own signature field against the
// recomputed one. Comparison is constant time.
func VerifySignature(fields map[string]string, secret string) bool {
	got, ok := fields[fieldSignature]
	if !ok || got == "" {
		return false
	}
	want := Signature(fields, secret)
	return hmac.Equal([]byte(want), []byte(got))
}

// OrderHash builds the hash Kashier expects when opening hosted checkout:
// HMAC-SHA256 over "/?payment=<merchantId>.<orderId>.<amount>.<currency>"
// keyed by the merchant API key.
func OrderHash(merchantID, orderID, amount, currency, apiKey string) string {
	path := "/?payment=" + merchantID + "." + orderID + "." + amount + "." + currency
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(path))
	return hex.EncodeToString(mac.Sum(nil))
}

// MapStatus maps a provider payment status onto our transaction statuses.
// Anything not explicitly successful or pending is treated as failed.
func MapStatus(providerStatus string) string {
	switch strings.ToUpper(providerStatus) {
	case "SUCCESS", "CAPTURED", "PAID":
		return "paid"
	case "PENDING", "INITIATED":
		return "pending"
	default:
		return "failed"
	}
}

// FlattenWebhookData renders a webhook data object into the string form the
// signature is computed over. Numbers keep their wire text (the body must be
// decoded with UseNumber), booleans render as true/false, nested values as
// compact JSON.
func FlattenWebhookData(data map[string]interface{}) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		switch t := v.(type) {
		case string:
			out[k] = t
		case json.Number:
			out[k] = t.String()
		case bool:
			if t {
				out[k] = "true"
			} else {
				out[k] = "false"
			}
		case nil:
			out[k] = ""
		default:
			if b, err := json.Marshal(t); err == nil {
				out[k] = string(b)
			}
		}
	}
	return out
}
