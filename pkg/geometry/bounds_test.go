package geometry

import "testing"

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.Empty() {
		t.Fatal("new bounding box should be empty")
	}

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	if bbox.Min != NewVector3(-1, 0, 2) {
		t.Errorf("Min failed: got %v", bbox.Min)
	}
	if bbox.Max != NewVector3(4, 5, 6) {
		t.Errorf("Max failed: got %v", bbox.Max)
	}
}

func TestBoundingBoxSizeAndCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	if size := bbox.Size(); size != NewVector3(10, 20, 30) {
		t.Errorf("Size failed: got %v", size)
	}
	if center := bbox.Center(); center != NewVector3(5, 10, 15) {
		t.Errorf("Center failed: got %v", center)
	}
}

func TestBoundingBoxEmptyHasZeroSize(t *testing.T) {
	bbox := NewBoundingBox()
	if size := bbox.Size(); size != (Vector3{}) {
		t.Errorf("Size of empty box failed: got %v", size)
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	a := NewBoundingBox()
	a.Extend(NewVector3(0, 0, 0))
	b := NewBoundingBox()
	b.Extend(NewVector3(2, 2, 2))

	a.Union(b)
	a.Union(NewBoundingBox())

	if a.Max != NewVector3(2, 2, 2) || a.Min != NewVector3(0, 0, 0) {
		t.Errorf("Union failed: got %v..%v", a.Min, a.Max)
	}
}

func TestBoundingBoxIntersectsRay(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(-1, -1, -1))
	bbox.Extend(NewVector3(1, 1, 1))

	tests := []struct {
		name string
		ray  Ray
		want bool
	}{
		{"through center", NewRay(NewVector3(0, 0, 10), NewVector3(0, 0, -1)), true},
		{"pointing away", NewRay(NewVector3(0, 0, 10), NewVector3(0, 0, 1)), false},
		{"passes beside", NewRay(NewVector3(5, 0, 10), NewVector3(0, 0, -1)), false},
		{"origin inside", NewRay(NewVector3(0, 0, 0), NewVector3(1, 0, 0)), true},
		{"axis parallel outside slab", NewRay(NewVector3(0, 3, 10), NewVector3(0, 0, -1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bbox.IntersectsRay(tt.ray); got != tt.want {
				t.Errorf("IntersectsRay: expected %v, got %v", tt.want, got)
			}
		})
	}
}
