package dto

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/topoatlas/demcache/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func validBoxQuery() BoundingBoxQuery {
	return BoundingBoxQuery{
		MinLat: ptr(48.5),
		MaxLat: ptr(48.9),
		MinLon: ptr(24.1),
		MaxLon: ptr(24.5),
	}
}

func TestBoundingBoxQueryValidation(t *testing.T) {
	validate := validator.New()

	t.Run("valid", func(t *testing.T) {
		if err := validate.Struct(validBoxQuery()); err != nil {
			t.Errorf("valid query rejected: %v", err)
		}
	})

	t.Run("zero coordinate passes required", func(t *testing.T) {
		q := BoundingBoxQuery{
			MinLat: ptr(0),
			MaxLat: ptr(0.5),
			MinLon: ptr(0),
			MaxLon: ptr(0.5),
		}
		if err := validate.Struct(q); err != nil {
			t.Errorf("equator/meridian box rejected: %v", err)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		q := validBoxQuery()
		q.MaxLon = nil
		if err := validate.Struct(q); err == nil {
			t.Error("missing max_lon accepted")
		}
	})

	t.Run("latitude out of range", func(t *testing.T) {
		q := validBoxQuery()
		q.MaxLat = ptr(91)
		if err := validate.Struct(q); err == nil {
			t.Error("latitude 91 accepted")
		}
	})

	t.Run("unknown resolution", func(t *testing.T) {
		q := validBoxQuery()
		q.Resolution = "GLO-10"
		if err := validate.Struct(q); err == nil {
			t.Error("unknown resolution accepted")
		}
	})

	t.Run("negative buffer", func(t *testing.T) {
		q := validBoxQuery()
		q.BufferKM = -1
		if err := validate.Struct(q); err == nil {
			t.Error("negative buffer accepted")
		}
	})
}

func TestCheckGeometry(t *testing.T) {
	q := validBoxQuery()
	if err := q.CheckGeometry(); err != nil {
		t.Errorf("valid geometry rejected: %v", err)
	}

	q.MaxLat, q.MinLat = q.MinLat, q.MaxLat
	if err := q.CheckGeometry(); err == nil {
		t.Error("inverted latitude bounds accepted")
	}

	q = validBoxQuery()
	q.MaxLon = q.MinLon
	if err := q.CheckGeometry(); err == nil {
		t.Error("zero-width box accepted")
	}
}

func TestCheckSize(t *testing.T) {
	if err := validBoxQuery().CheckSize(); err != nil {
		t.Errorf("small box rejected: %v", err)
	}

	// ~2° of latitude is well over the 100 km cap.
	q := validBoxQuery()
	q.MaxLat = ptr(50.5)
	err := q.CheckSize()
	if err == nil {
		t.Fatal("oversized box accepted")
	}
	if !strings.Contains(err.Error(), "north-south") {
		t.Errorf("error %q should name the offending axis", err)
	}
}

func TestResolutionOrDefault(t *testing.T) {
	q := validBoxQuery()
	if got := q.ResolutionOrDefault(); got != domain.ResolutionGLO30 {
		t.Errorf("default resolution = %s", got)
	}

	q.Resolution = "GLO-90"
	if got := q.ResolutionOrDefault(); got != domain.ResolutionGLO90 {
		t.Errorf("resolution = %s, want GLO-90", got)
	}
}
