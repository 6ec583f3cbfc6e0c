// Package share encodes an itinerary into a self-contained link and back.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/theirongolddev/tripvault/internal/model"
)

// Param is the query parameter carrying the encoded plan.
const Param = "plan"

// ErrNoToken is returned when a URL carries no plan parameter.
var ErrNoToken = errors.New("share: no plan token")

// Encode returns the base64 JSON token for it.
func Encode(it model.Itinerary) (string, error) {
	data, err := json.Marshal(it)
	if err != nil {
		return "", fmt.Errorf("share: encoding plan: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode parses a token produced by Encode. Standard and URL-safe
// alphabets are accepted, padded or not, and the decoded plan must pass
// model validation.
func Decode(token string) (model.Itinerary, error) {
	return DecodeOnto(token, model.Itinerary{})
}

// DecodeOnto applies the plan carried by token on top of base, keeping
// whatever the token leaves out (see model.Itinerary.Overlay).
func DecodeOnto(token string, base model.Itinerary) (model.Itinerary, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Itinerary{}, ErrNoToken
	}
	data, err := decodeBase64(token)
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("share: decoding token: %w", err)
	}
	it, err := base.Overlay(data)
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("share: parsing plan: %w", err)
	}
	if err := it.Validate(); err != nil {
		return model.Itinerary{}, fmt.Errorf("share: %w", err)
	}
	return it, nil
}

func decodeBase64(token string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	}
	var firstErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(token)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// Link returns base with the plan token set as its query parameter.
func Link(base string, it model.Itinerary) (string, error) {
	token, err := Encode(it)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("share: parsing base url: %w", err)
	}
	q := u.Query()
	q.Set(Param, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// TokenFromURL extracts the plan token from a full link or a bare query.
func TokenFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("share: parsing url: %w", err)
	}
	token := u.Query().Get(Param)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// FromURL decodes the plan carried by a share link.
func FromURL(raw string) (model.Itinerary, error) {
	token, err := TokenFromURL(raw)
	if err != nil {
		return model.Itinerary{}, err
	}
	return Decode(token)
}
