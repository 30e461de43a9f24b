package gcs

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	signedURLHost    = "storage.googleapis.com"
	signingAlgorithm = "GOOG4-RSA-SHA256"
	unsignedPayload  = "UNSIGNED-PAYLOAD"
	maxSignedExpiry  = 7 * 24 * time.Hour
)

// SignedURL produces a V4 signed URL for the given method/object pair.
// Requires service-account credentials; the metadata token source cannot sign.
func (c *Client) SignedURL(bucket, object, method string, expiry time.Duration) (string, error) {
	if c == nil {
		return "", errors.New("gcs client not initialized")
	}
	if c.signerKey == nil || c.signerEmail == "" {
		return "", errors.New("gcs presigning requires service account credentials")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if object == "" {
		return "", errors.New("object name is required")
	}
	switch method {
	case "GET", "PUT", "DELETE", "HEAD":
	default:
		return "", fmt.Errorf("unsupported method %q", method)
	}
	if expiry <= 0 || expiry > maxSignedExpiry {
		return "", fmt.Errorf("expiry must be positive and at most %s", maxSignedExpiry)
	}

	now := time.Now().UTC()
	datestamp := now.Format("20060102")
	timestamp := now.Format("20060102T150405Z")
	scope := fmt.Sprintf("%s/auto/storage/goog4_request", datestamp)
	credential := fmt.Sprintf("%s/%s", c.signerEmail, scope)

	canonicalPath := "/" + bucket + "/" + escapePath(object)

	query := url.Values{}
	query.Set("X-Goog-Algorithm", signingAlgorithm)
	query.Set("X-Goog-Credential", credential)
	query.Set("X-Goog-Date", timestamp)
	query.Set("X-Goog-Expires", fmt.Sprintf("%d", int(expiry.Seconds())))
	query.Set("X-Goog-SignedHeaders", "host")

	canonicalQuery := canonicalQueryString(query)
	canonicalHeaders := "host:" + signedURLHost + "\n"

	canonicalRequest := strings.Join([]string{
		method,
		canonicalPath,
		canonicalQuery,
		canonicalHeaders,
		"host",
		unsignedPayload,
	}, "\n")

	requestHash := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{
		signingAlgorithm,
		timestamp,
		scope,
		hex.EncodeToString(requestHash[:]),
	}, "\n")

	digest := sha256.Sum256([]byte(stringToSign))
	signature, err := rsa.SignPKCS1v15(rand.Reader, c.signerKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("signing url: %w", err)
	}

	// canonicalPath is already escaped; assemble by hand so url.URL does not
	// re-escape it.
	return "https://" + signedURLHost + canonicalPath +
		"?" + canonicalQuery + "&X-Goog-Signature=" + hex.EncodeToString(signature), nil
}

// CanSign reports whether the client holds credentials able to presign URLs.
func (c *Client) CanSign() bool {
	return c != nil && c.signerKey != nil && c.signerEmail != ""
}

func parseSignerCredentials(jsonCreds string) (string, *rsa.PrivateKey, error) {
	var creds struct {
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
	}
	if err := json.Unmarshal([]byte(jsonCreds), &creds); err != nil {
		return "", nil, fmt.Errorf("parsing signer credentials: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return "", nil, errors.New("invalid signer credentials")
	}
	key, err := parsePrivateKey(creds.PrivateKey)
	if err != nil {
		return "", nil, err
	}
	return creds.ClientEmail, key, nil
}

func escapePath(object string) string {
	parts := strings.Split(object, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func canonicalQueryString(query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(query.Get(k)))
	}
	return strings.Join(pairs, "&")
}
