package vk

import (
	"encoding/json"
	"strconv"
	"strings"
)

// photoVariantPrefix prefixes the per-resolution URL fields of old API versions, e.g. "photo_604".
const photoVariantPrefix = "photo_"

// UnmarshalJSON decodes a photo from either API format.
// Old versions list variants as "photo_<N>" fields, newer ones use the "sizes" array.
// Both end up in Variants, the "photo_<N>" value wins for equal tags.
func (p *Photo) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      int64        `json:"id"`
		OwnerID int64        `json:"owner_id"`
		AlbumID int64        `json:"album_id"`
		Date    int64        `json:"date"`
		Text    string       `json:"text"`
		Sizes   []*PhotoSize `json:"sizes"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	variants := make(map[int]string)

	for key, value := range fields {
		quality, ok := parseVariantKey(key)
		if !ok {
			continue
		}

		var variantURL string
		if err := json.Unmarshal(value, &variantURL); err != nil || variantURL == "" {
			continue
		}

		variants[quality] = variantURL
	}

	for _, size := range raw.Sizes {
		if size == nil {
			continue
		}

		quality, variantURL := size.Quality(), size.ImageURL()
		if quality <= 0 || variantURL == "" {
			continue
		}

		if _, exists := variants[quality]; !exists {
			variants[quality] = variantURL
		}
	}

	*p = Photo{
		ID:       raw.ID,
		OwnerID:  raw.OwnerID,
		AlbumID:  raw.AlbumID,
		Date:     raw.Date,
		Text:     raw.Text,
		Variants: variants,
	}

	return nil
}

// Quality returns the quality tag of the size: its longest side,
// or the historical dimension of its type when the API omits dimensions.
func (s *PhotoSize) Quality() int {
	if longest := max(s.Width, s.Height); longest > 0 {
		return longest
	}

	return sizeTypeQualities[s.Type]
}

// ImageURL returns the URL of the size, "src" is used by some API versions.
func (s *PhotoSize) ImageURL() string {
	if s.URL != "" {
		return s.URL
	}

	return s.Src
}

func parseVariantKey(key string) (int, bool) {
	value, found := strings.CutPrefix(key, photoVariantPrefix)
	if !found {
		return 0, false
	}

	quality, err := strconv.Atoi(value)
	if err != nil || quality <= 0 {
		return 0, false
	}

	return quality, true
}
