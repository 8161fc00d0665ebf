package maze

import "testing"

func TestDiffFindsOnlyChangedCells(t *testing.T) {
	var prev, next View
	prev[0] = [ViewWidth]byte{'*', ' ', '*'}
	next[0] = [ViewWidth]byte{'*', 'A', '*'}
	prev[1] = [ViewWidth]byte{'*', ' ', '*'}
	next[1] = [ViewWidth]byte{'*', ' ', '*'}

	changes := Diff(prev, next, 2)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	if changes[0] != (CellChange{Depth: 0, Column: Corridor, Value: 'A'}) {
		t.Errorf("change = %+v, want depth 0 corridor 'A'", changes[0])
	}
}

func TestDiffIgnoresRowsBeyondDepth(t *testing.T) {
	var prev, next View
	next[5] = [ViewWidth]byte{'*', 'Z', '*'}
	if changes := Diff(prev, next, 1); len(changes) != 0 {
		t.Errorf("expected no changes within depth 1, got %v", changes)
	}
}

func TestAllEmitsEveryCellInOrder(t *testing.T) {
	var v View
	v[0] = [ViewWidth]byte{'*', ' ', '*'}
	v[1] = [ViewWidth]byte{' ', 'A', '*'}

	changes := All(v, 2)
	if len(changes) != 2*ViewWidth {
		t.Fatalf("got %d changes, want %d", len(changes), 2*ViewWidth)
	}
	first := changes[0]
	if first.Depth != 0 || first.Column != LeftWall {
		t.Errorf("first change = %+v, want depth 0 column LeftWall", first)
	}
	last := changes[len(changes)-1]
	if last.Depth != 1 || last.Column != RightWall || last.Value != '*' {
		t.Errorf("last change = %+v, want depth 1 column RightWall value '*'", last)
	}
}

func TestViewStringRendersRequestedDepth(t *testing.T) {
	var v View
	v[0] = [ViewWidth]byte{'*', ' ', '*'}
	s := v.String(1)
	want := "*   *\n"
	if s != want {
		t.Errorf("String(1) = %q, want %q", s, want)
	}
}
