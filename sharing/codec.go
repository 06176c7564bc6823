// Package sharing converts a session's results to and from the shareable
// token carried in the "reactions" query parameter of an address.
package sharing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kcz17/reactiontime/histogram"
)

// QueryParam is the address query parameter holding the token.
const QueryParam = "reactions"

// MaxReactionMs is the largest reaction a token may carry.
const MaxReactionMs = histogram.MaxReactionMs

// ErrInvalidShareToken is returned when a token is present but cannot be
// parsed. An absent token is not an error.
var ErrInvalidShareToken = errors.New("invalid share token")

// SharedState is the serialisable projection of a session.
type SharedState struct {
	Reactions  []float64
	ErrorCount int
}

// wireState is the JSON shape of a token. Pointers distinguish missing
// fields from zero values.
type wireState struct {
	Reactions      *[]float64 `json:"reactions"`
	ReactionErrors *int       `json:"reactionErrors"`
}

// EncodeToken serialises state and percent-encodes the result.
func EncodeToken(state SharedState) (string, error) {
	reactions := state.Reactions
	if reactions == nil {
		reactions = []float64{}
	}
	errorCount := state.ErrorCount

	b, err := json.Marshal(&wireState{
		Reactions:      &reactions,
		ReactionErrors: &errorCount,
	})
	if err != nil {
		return "", fmt.Errorf("could not marshal shared state: err = %w", err)
	}
	return url.QueryEscape(string(b)), nil
}

// Encode returns baseURL's origin and path with the token for state as its
// only query parameter.
func Encode(baseURL string, state SharedState) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("could not parse base url %q: err = %w", baseURL, err)
	}

	token, err := EncodeToken(state)
	if err != nil {
		return "", err
	}
	u.RawQuery = QueryParam + "=" + token
	u.Fragment = ""
	return u.String(), nil
}

// DecodeToken percent-decodes and parses token.
func DecodeToken(token string) (*SharedState, error) {
	raw, err := url.QueryUnescape(token)
	if err != nil {
		return nil, fmt.Errorf("%w: could not percent-decode: %v", ErrInvalidShareToken, err)
	}

	var wire wireState
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("%w: could not parse: %v", ErrInvalidShareToken, err)
	}
	if wire.Reactions == nil {
		return nil, fmt.Errorf("%w: missing reactions", ErrInvalidShareToken)
	}
	if wire.ReactionErrors == nil {
		return nil, fmt.Errorf("%w: missing reactionErrors", ErrInvalidShareToken)
	}
	if *wire.ReactionErrors < 0 {
		return nil, fmt.Errorf("%w: expected reactionErrors >= 0; got %d", ErrInvalidShareToken, *wire.ReactionErrors)
	}
	for i, reaction := range *wire.Reactions {
		if reaction < 0 || reaction > MaxReactionMs {
			return nil, fmt.Errorf("%w: expected 0 <= reactions[%d] <= %d; got %v", ErrInvalidShareToken, i, MaxReactionMs, reaction)
		}
	}

	reactions := *wire.Reactions
	if reactions == nil {
		reactions = []float64{}
	}
	return &SharedState{
		Reactions:  reactions,
		ErrorCount: *wire.ReactionErrors,
	}, nil
}

// Decode extracts the token from address. It returns nil and no error if
// the address carries no token.
func Decode(address string) (*SharedState, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("could not parse address %q: err = %w", address, err)
	}

	token, ok := lookupRawQueryValue(u.RawQuery, QueryParam)
	if !ok {
		return nil, nil
	}
	return DecodeToken(token)
}

// lookupRawQueryValue returns the still-escaped value of key. url.Values
// drops pairs it cannot unescape, which would make a corrupt token look
// absent.
func lookupRawQueryValue(rawQuery string, key string) (string, bool) {
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v := pair, ""
		if i := strings.Index(pair, "="); i >= 0 {
			k, v = pair[:i], pair[i+1:]
		}
		if unescaped, err := url.QueryUnescape(k); err == nil && unescaped == key {
			return v, true
		}
	}
	return "", false
}
