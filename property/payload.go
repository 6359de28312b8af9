package property

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPayload signals a nested form field that is not valid JSON.
var ErrMalformedPayload = errors.New("property: invalid data format")

// RawPayload is a listing as it arrives in a multipart form: scalar fields
// as strings, nested structures as JSON-encoded strings.
type RawPayload struct {
	Title           string
	Description     string
	PropertyType    string
	TransactionType string
	Price           string
	Currency        string
	Address         string
	Details         string
	Features        string
	Amenities       string
	ImageMetadata   string
}

// ImageMeta is per-file metadata submitted alongside the upload, matched to
// files by position.
type ImageMeta struct {
	Caption   string `json:"caption"`
	IsPrimary *bool  `json:"is_primary"`
}

// Parse decodes the nested JSON fields and numeric scalars. Image metadata
// parse failures are tolerated (the upload still proceeds with defaults);
// everything else fails with ErrMalformedPayload.
func (p RawPayload) Parse() (CreateParams, []ImageMeta, error) {
	params := CreateParams{
		Title:           strings.TrimSpace(p.Title),
		Description:     p.Description,
		PropertyType:    PropertyType(p.PropertyType),
		TransactionType: TransactionType(p.TransactionType),
		Currency:        p.Currency,
	}

	if p.Price != "" {
		price, err := strconv.ParseInt(p.Price, 10, 64)
		if err != nil {
			return CreateParams{}, nil, fmt.Errorf("%w: price", ErrMalformedPayload)
		}
		params.Price = price
	}

	if p.Address != "" {
		if err := json.Unmarshal([]byte(p.Address), &params.Address); err != nil {
			return CreateParams{}, nil, fmt.Errorf("%w: address", ErrMalformedPayload)
		}
	}
	if p.Details != "" {
		if err := json.Unmarshal([]byte(p.Details), &params.Details); err != nil {
			return CreateParams{}, nil, fmt.Errorf("%w: details", ErrMalformedPayload)
		}
	}
	if p.Features != "" {
		if err := json.Unmarshal([]byte(p.Features), &params.Features); err != nil {
			return CreateParams{}, nil, fmt.Errorf("%w: features", ErrMalformedPayload)
		}
	}
	if p.Amenities != "" {
		if err := json.Unmarshal([]byte(p.Amenities), &params.Amenities); err != nil {
			return CreateParams{}, nil, fmt.Errorf("%w: amenities", ErrMalformedPayload)
		}
	}

	var metadata []ImageMeta
	if p.ImageMetadata != "" {
		// Best effort: bad metadata falls back to defaults per image.
		_ = json.Unmarshal([]byte(p.ImageMetadata), &metadata)
	}

	return params, metadata, nil
}

// BuildImages assembles the image documents for uploaded files in
// submission order. The first image is primary unless metadata overrides.
func BuildImages(urls []string, metadata []ImageMeta) []Image {
	images := make([]Image, 0, len(urls))
	explicitPrimary := false
	for _, meta := range metadata {
		if meta.IsPrimary != nil && *meta.IsPrimary {
			explicitPrimary = true
		}
	}

	for i, url := range urls {
		img := Image{
			URL:     url,
			Caption: "Property Image",
			Order:   i,
		}
		if i < len(metadata) {
			if metadata[i].Caption != "" {
				img.Caption = metadata[i].Caption
			}
			if metadata[i].IsPrimary != nil {
				img.IsPrimary = *metadata[i].IsPrimary
			}
		}
		if !explicitPrimary && i == 0 {
			img.IsPrimary = true
		}
		images = append(images, img)
	}
	return images
}
