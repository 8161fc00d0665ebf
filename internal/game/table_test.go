package game

import "testing"

func TestTryInstallRejectsDuplicateAvatar(t *testing.T) {
	table := newAvatarTable()
	a := newPlayer('A', "alice", nil)
	b := newPlayer('A', "bob", nil)

	if !table.tryInstall(a) {
		t.Fatal("expected first install to succeed")
	}
	if table.tryInstall(b) {
		t.Error("expected second install of the same avatar to fail")
	}
}

func TestClearIfCurrentGuardsAgainstStaleLogout(t *testing.T) {
	table := newAvatarTable()
	a := newPlayer('A', "alice", nil)
	table.tryInstall(a)

	table.clearIfCurrent(newPlayer('A', "impostor", nil)) // different record, same avatar slot
	if table.get('A') == nil {
		t.Error("clearIfCurrent should not have removed a different record than the one installed")
	}

	table.clearIfCurrent(a)
	if p := table.slots['A']; p != nil {
		t.Error("expected slot to be cleared after clearIfCurrent with the installed record")
	}
}

func TestGetIncrementsRefcount(t *testing.T) {
	table := newAvatarTable()
	a := newPlayer('A', "alice", nil)
	table.tryInstall(a)

	got := table.get('A')
	if got != a {
		t.Fatal("expected get to return the installed record")
	}
	if a.refcount.Load() != 2 {
		t.Errorf("refcount = %d, want 2 (login ref + get ref)", a.refcount.Load())
	}
}

func TestForEachVisitsOnlyLiveSlots(t *testing.T) {
	table := newAvatarTable()
	a := newPlayer('A', "alice", nil)
	b := newPlayer('B', "bob", nil)
	table.tryInstall(a)
	table.tryInstall(b)

	var seen []byte
	table.forEach(func(p *Player) { seen = append(seen, p.Avatar) })
	if len(seen) != 2 {
		t.Fatalf("forEach visited %d players, want 2", len(seen))
	}
}
