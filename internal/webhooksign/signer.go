// Package webhooksign implements the outbound webhook wire protocol: a
// timestamped, constant-time-verified HMAC-SHA256 signature, secret
// generation, and SSRF-safe target URL validation.
package webhooksign

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SignaturePrefix is the scheme tag prepended to every signature header.
const SignaturePrefix = "sha256="

// MaxSignatureSkew is the maximum allowed difference between a signature's
// embedded timestamp and the verifier's clock before verification fails.
const MaxSignatureSkew = 5 * time.Minute

// Sign computes the outbound webhook signature for a payload: HMAC-SHA256
// over the canonical string "<timestampMs>.<payloadBytes>", hex-encoded and
// prefixed with the scheme tag. The result is always 71 characters long
// ("sha256=" plus 64 hex digits).
func Sign(payload []byte, secret string, timestampMs int64) string {
	return SignaturePrefix + hexHMAC(payload, secret, timestampMs)
}

// Verify recomputes the signature for payload/secret/timestampMs and
// compares it against header in constant time, rejecting stale signatures
// whose timestamp drifts from nowMs by more than MaxSignatureSkew.
func Verify(header string, payload []byte, secret string, timestampMs int64, nowMs int64) bool {
	if !strings.HasPrefix(header, SignaturePrefix) {
		return false
	}

	skew := nowMs - timestampMs
	if skew < 0 {
		skew = -skew
	}
	if skew > MaxSignatureSkew.Milliseconds() {
		return false
	}

	expected := hexHMAC(payload, secret, timestampMs)
	got := strings.TrimPrefix(header, SignaturePrefix)

	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

func hexHMAC(payload []byte, secret string, timestampMs int64) string {
	canonical := strconv.FormatInt(timestampMs, 10) + "." + string(payload)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateSecret returns a cryptographically strong, hex-encoded 32-byte
// secret (64 hex characters, 256 bits of entropy).
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// privateV4Blocks are the RFC1918 and link-local ranges a target URL's host
// must not resolve to.
var privateV4Blocks = []*net.IPNet{
	mustParseCIDR("10.0.0.0/8"),
	mustParseCIDR("172.16.0.0/12"),
	mustParseCIDR("192.168.0.0/16"),
	mustParseCIDR("127.0.0.0/8"),
	mustParseCIDR("169.254.0.0/16"),
}

func mustParseCIDR(s string) *net.IPNet {
	_, n, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return n
}

// ValidateTargetURL reports whether rawURL is safe to deliver to: scheme is
// HTTP or HTTPS, and the literal hostname is neither loopback, link-local,
// nor an RFC1918 private range. The check operates purely on the literal
// host in the URL; it does not resolve DNS, so rebinding attacks that swap
// the address after this check are a documented residual risk.
func ValidateTargetURL(rawURL string) bool {
	_, err := validateTargetURL(rawURL)
	return err == nil
}

// validateTargetURL is the same check as ValidateTargetURL but returns the
// rejection reason, used by callers that need to surface it (e.g. the admin
// surface's createWebhook/updateWebhook error messages).
func validateTargetURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("URL has no host")
	}

	if strings.EqualFold(host, "localhost") {
		return nil, fmt.Errorf("host is the loopback literal %q", host)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		// Not a literal IP — the DNS-resolved address is not checked here
		// (see the documented residual risk above).
		return u, nil
	}

	if ip.Equal(net.IPv4(0, 0, 0, 0)) || ip.Equal(net.IPv6unspecified) {
		return nil, fmt.Errorf("host %q is unspecified", host)
	}
	if ip.IsLoopback() {
		return nil, fmt.Errorf("host %q is a loopback address", host)
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return nil, fmt.Errorf("host %q is link-local", host)
	}

	for _, block := range privateV4Blocks {
		if block.Contains(ip) {
			return nil, fmt.Errorf("host %q is in private range %s", host, block)
		}
	}

	return u, nil
}

// ValidationError returns the human-readable reason rawURL was rejected, or
// an empty string if it is valid. Kept separate from ValidateTargetURL so
// callers that only need the bool (the hot delivery path) don't pay for the
// error string allocation.
func ValidationError(rawURL string) string {
	_, err := validateTargetURL(rawURL)
	if err == nil {
		return ""
	}
	return err.Error()
}
