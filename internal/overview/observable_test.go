package overview

import "testing"

func TestObservable_NotifiesInOrderWithoutReplay(t *testing.T) {
	o := NewObservable(0)
	o.Set(1)

	var got []string
	o.Subscribe(func(v int) { got = append(got, "a") })
	o.Subscribe(func(v int) { got = append(got, "b") })
	o.Set(2)

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("notifications = %v, want [a b]", got)
	}
	if o.Get() != 2 {
		t.Fatalf("Get() = %d, want 2", o.Get())
	}
}

func TestObservable_Unsubscribe(t *testing.T) {
	o := NewObservable("")
	calls := 0
	unsub := o.Subscribe(func(string) { calls++ })

	o.Set("x")
	unsub()
	unsub()
	o.Set("y")

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestObservable_CloseFreezesValue(t *testing.T) {
	o := NewObservable(1)
	calls := 0
	o.Subscribe(func(int) { calls++ })

	o.Close()
	o.Set(5)
	o.Subscribe(func(int) { calls++ })
	o.Set(6)

	if calls != 0 {
		t.Fatalf("calls after Close = %d, want 0", calls)
	}
	if o.Get() != 1 {
		t.Fatalf("Get() after Close = %d, want 1", o.Get())
	}
}

func TestObservable_SubscriberMayUnsubscribeDuringNotify(t *testing.T) {
	o := NewObservable(0)
	var unsub func()
	calls := 0
	unsub = o.Subscribe(func(int) {
		calls++
		unsub()
	})

	o.Set(1)
	o.Set(2)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestObservable_CloseDuringNotifySkipsRemainingSubscribers(t *testing.T) {
	o := NewObservable(0)
	var got []string
	o.Subscribe(func(int) {
		got = append(got, "a")
		o.Close()
	})
	o.Subscribe(func(int) { got = append(got, "b") })

	o.Set(1)

	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("notifications = %v, want [a]", got)
	}
}
