package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", 1) || !m.Enabled("c", 1) || !m.Enabled("e", 1) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", 1) || m.Enabled("d", 1) || m.Enabled("f", 1) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	if !m.Enabled("always", 1) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", 1) {
		t.Fatal("0% rollout should always be disabled")
	}

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", 42); got != first {
			t.Fatal("rollout evaluation must be deterministic per author")
		}
	}

	if m.Enabled("canary", 0) {
		t.Fatal("percentage rollout requires a non-zero author")
	}
}

func TestFollowNotifications_DefaultOff(t *testing.T) {
	if NewManager("").Enabled(FollowNotifications, 7) {
		t.Fatal("follow notifications must default to off")
	}
	if !NewManager(" Follow_Notifications = ON ").Enabled(FollowNotifications, 7) {
		t.Fatal("configured value should override the default")
	}
}

func TestSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	snap := m.Snapshot(123)
	// three parsed flags plus the follow_notifications default
	if len(snap) != 4 {
		t.Fatalf("expected snapshot size 4, got %d", len(snap))
	}
	if !snap["x"] || snap["z"] || snap[FollowNotifications] {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
}

func TestNilManager(t *testing.T) {
	var m *Manager
	if m.Enabled(FollowNotifications, 1) {
		t.Fatal("nil manager must report every flag disabled")
	}
}
