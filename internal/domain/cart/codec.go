package cart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shop/storefront/internal/domain/shared"
)

// Serialized cart layouts:
//
//	v1: bare JSON array of items, as written by the first storefront release
//	v2: {"version":2,"items":[...]}
const (
	VersionLegacyArray = 1
	CurrentVersion     = 2
)

// ErrUnsupportedVersion is returned for payloads written by a newer release
var ErrUnsupportedVersion = shared.NewDomainError("UNSUPPORTED_CART_VERSION", "Cart payload version is not supported")

type envelope struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// Encode serializes the cart in the current layout
func Encode(c Cart) ([]byte, error) {
	return json.Marshal(envelope{Version: CurrentVersion, Items: c.Items()})
}

// Decode reads any known layout and migrates it to the current model.
// Empty input decodes to an empty cart.
func Decode(data []byte) (Cart, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Cart{}, nil
	}

	switch data[0] {
	case '[':
		var items []Item
		if err := json.Unmarshal(data, &items); err != nil {
			return Cart{}, fmt.Errorf("decode v%d cart: %w", VersionLegacyArray, err)
		}
		return New(items...), nil
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Cart{}, fmt.Errorf("decode cart envelope: %w", err)
		}
		if env.Version < VersionLegacyArray || env.Version > CurrentVersion {
			return Cart{}, fmt.Errorf("cart version %d: %w", env.Version, ErrUnsupportedVersion)
		}
		return New(env.Items...), nil
	}
	return Cart{}, fmt.Errorf("decode cart: unexpected leading byte %q", data[0])
}
