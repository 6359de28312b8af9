package property

import (
	"errors"
	"testing"
)

func TestRawPayload_Parse(t *testing.T) {
	raw := RawPayload{
		Title:           " Lakeside villa ",
		PropertyType:    "villa",
		TransactionType: "sale",
		Price:           "420000",
		Address:         `{"street":"12 Shore Dr","city":"Madison","state":"WI","zip_code":"53703"}`,
		Details:         `{"bedrooms":4,"bathrooms":2.5,"area_sqft":2800,"has_garage":true}`,
		Features:        `["lake view","dock"]`,
		Amenities:       `["pool"]`,
	}

	params, _, err := raw.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params.Title != "Lakeside villa" {
		t.Errorf("expected trimmed title, got %q", params.Title)
	}
	if params.Price != 420000 {
		t.Errorf("expected price 420000, got %d", params.Price)
	}
	if params.Address.City != "Madison" {
		t.Errorf("expected city Madison, got %q", params.Address.City)
	}
	if params.Details.Bedrooms != 4 || !params.Details.HasGarage {
		t.Errorf("unexpected details: %+v", params.Details)
	}
	if len(params.Features) != 2 || len(params.Amenities) != 1 {
		t.Errorf("unexpected lists: %v %v", params.Features, params.Amenities)
	}
}

func TestRawPayload_MalformedNestedJSON(t *testing.T) {
	cases := []RawPayload{
		{Address: `{not json`},
		{Details: `[broken`},
		{Features: `"not a list`},
		{Amenities: `{`},
		{Price: "a lot"},
	}
	for i, raw := range cases {
		if _, _, err := raw.Parse(); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("case %d: expected ErrMalformedPayload, got %v", i, err)
		}
	}
}

func TestRawPayload_BadImageMetadataTolerated(t *testing.T) {
	raw := RawPayload{ImageMetadata: `{broken`}
	if _, meta, err := raw.Parse(); err != nil {
		t.Fatalf("parse: %v", err)
	} else if meta != nil {
		t.Fatalf("expected nil metadata, got %v", meta)
	}
}

func TestBuildImages_FirstIsPrimaryByDefault(t *testing.T) {
	images := BuildImages([]string{"/uploads/a.jpg", "/uploads/b.jpg"}, nil)
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if !images[0].IsPrimary || images[1].IsPrimary {
		t.Errorf("expected only first image primary: %+v", images)
	}
	if images[0].Order != 0 || images[1].Order != 1 {
		t.Errorf("expected submission order preserved: %+v", images)
	}
	if images[0].Caption != "Property Image" {
		t.Errorf("expected default caption, got %q", images[0].Caption)
	}
}

func TestBuildImages_MetadataOverrides(t *testing.T) {
	primary := true
	images := BuildImages(
		[]string{"/uploads/a.jpg", "/uploads/b.jpg"},
		[]ImageMeta{{Caption: "Front"}, {Caption: "Garden", IsPrimary: &primary}},
	)
	if images[0].IsPrimary {
		t.Error("explicit primary metadata must win over first-image default")
	}
	if !images[1].IsPrimary {
		t.Error("expected second image primary")
	}
	if images[0].Caption != "Front" || images[1].Caption != "Garden" {
		t.Errorf("captions not applied: %+v", images)
	}
}
