package grid

import (
	"fmt"
	"math"
	"testing"

	"github.com/topoatlas/demcache/internal/domain"
)

func TestSplitReconstructsBox(t *testing.T) {
	box := domain.BoundingBox{MinLat: 48.0, MaxLat: 52.0, MinLon: 23.0, MaxLon: 27.0}

	squares := Split(box, 100)

	if len(squares) == 0 {
		t.Fatal("expected at least one square")
	}

	// Rows partition [MinLat, MaxLat]; columns partition [MinLon, MaxLon].
	// Walk the grid and confirm there are no gaps or overlaps.
	byCell := make(map[[2]int]Square, len(squares))
	maxRow, maxCol := 0, 0
	for _, s := range squares {
		byCell[[2]int{s.Row, s.Col}] = s
		if s.Row > maxRow {
			maxRow = s.Row
		}
		if s.Col > maxCol {
			maxCol = s.Col
		}
	}

	if len(byCell) != (maxRow+1)*(maxCol+1) {
		t.Fatalf("grid is not rectangular: %d cells for %dx%d", len(byCell), maxRow+1, maxCol+1)
	}

	for row := 0; row <= maxRow; row++ {
		for col := 0; col <= maxCol; col++ {
			s := byCell[[2]int{row, col}]

			if col == 0 && s.Box.MinLon != box.MinLon {
				t.Errorf("row %d starts at %v, want %v", row, s.Box.MinLon, box.MinLon)
			}
			if col == maxCol && s.Box.MaxLon != box.MaxLon {
				t.Errorf("row %d ends at %v, want %v", row, s.Box.MaxLon, box.MaxLon)
			}
			if col < maxCol {
				next := byCell[[2]int{row, col + 1}]
				if s.Box.MaxLon != next.Box.MinLon {
					t.Errorf("gap/overlap between (%d,%d) and (%d,%d): %v vs %v",
						row, col, row, col+1, s.Box.MaxLon, next.Box.MinLon)
				}
			}

			if row == 0 && s.Box.MinLat != box.MinLat {
				t.Errorf("col %d starts at %v, want %v", col, s.Box.MinLat, box.MinLat)
			}
			if row == maxRow && s.Box.MaxLat != box.MaxLat {
				t.Errorf("col %d ends at %v, want %v", col, s.Box.MaxLat, box.MaxLat)
			}
			if row < maxRow {
				above := byCell[[2]int{row + 1, col}]
				if s.Box.MaxLat != above.Box.MinLat {
					t.Errorf("gap/overlap between rows at (%d,%d): %v vs %v",
						row, col, s.Box.MaxLat, above.Box.MinLat)
				}
			}
		}
	}
}

func TestSplitSquareCountMatchesDimensions(t *testing.T) {
	box := domain.BoundingBox{MinLat: 48.0, MaxLat: 52.0, MinLon: 23.0, MaxLon: 27.0}

	squares := Split(box, 100)

	nsKM, ewKM := TotalDimensions(box)
	wantRows := int(math.Ceil(nsKM / 100))
	wantCols := int(math.Ceil(ewKM / 100))

	// The split uses the flat 111 km/degree approximation while
	// TotalDimensions is geodesic, so allow one row/column of slack.
	rows := squares[len(squares)-1].Row + 1
	cols := squares[len(squares)-1].Col + 1

	if diff := rows - wantRows; diff < -1 || diff > 1 {
		t.Errorf("rows = %d, expected about %d (ns %.1f km)", rows, wantRows, nsKM)
	}
	if diff := cols - wantCols; diff < -1 || diff > 1 {
		t.Errorf("cols = %d, expected about %d (ew %.1f km)", cols, wantCols, ewKM)
	}
}

func TestSplitIDsAndOrder(t *testing.T) {
	box := domain.BoundingBox{MinLat: 48.0, MaxLat: 50.0, MinLon: 23.0, MaxLon: 25.0}

	squares := Split(box, 100)

	for i, s := range squares {
		want := fmt.Sprintf("square_%d_%d", s.Row, s.Col)
		if s.ID != want {
			t.Errorf("square[%d].ID = %s, want %s", i, s.ID, want)
		}
		if i > 0 {
			prev := squares[i-1]
			if s.Row < prev.Row || (s.Row == prev.Row && s.Col != prev.Col+1) {
				t.Errorf("squares not in row-major order at index %d: %+v after %+v", i, s, prev)
			}
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	box := domain.BoundingBox{MinLat: 59.0, MaxLat: 63.0, MinLon: 9.0, MaxLon: 15.0}

	a := Split(box, 100)
	b := Split(box, 100)

	if len(a) != len(b) {
		t.Fatalf("non-deterministic square count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("square[%d] differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSplitSmallBoxSingleSquare(t *testing.T) {
	box := domain.BoundingBox{MinLat: 48.0, MaxLat: 48.5, MinLon: 23.0, MaxLon: 23.5}

	squares := Split(box, 100)

	if len(squares) != 1 {
		t.Fatalf("got %d squares, want 1", len(squares))
	}
	if squares[0].Box != box {
		t.Errorf("single square should cover the whole box: %+v", squares[0].Box)
	}
	if squares[0].ID != "square_0_0" {
		t.Errorf("ID = %s, want square_0_0", squares[0].ID)
	}
}

func TestTotalDimensions(t *testing.T) {
	// 2 degrees of latitude is about 222 km regardless of longitude.
	box := domain.BoundingBox{MinLat: 48.0, MaxLat: 50.0, MinLon: 23.0, MaxLon: 25.0}

	nsKM, ewKM := TotalDimensions(box)

	if nsKM < 220 || nsKM > 224 {
		t.Errorf("north-south = %.1f km, want ~222", nsKM)
	}
	// East-west shrinks with cos(49 degrees): ~146 km per 2 degrees.
	if ewKM < 140 || ewKM > 152 {
		t.Errorf("east-west = %.1f km, want ~146", ewKM)
	}
}
