package event

import "testing"

func TestPublishInOrder(t *testing.T) {
	var s Stream[int]
	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })
	s.Subscribe(func(v int) { got = append(got, v*10) })

	s.Publish(1)
	s.Publish(2)

	want := []int{1, 10, 2, 20}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCancel(t *testing.T) {
	var s Stream[string]
	n := 0
	cancel := s.Subscribe(func(string) { n++ })
	s.Publish("a")
	cancel()
	cancel() // idempotent
	s.Publish("b")
	if n != 1 {
		t.Fatalf("delivered %d, want 1", n)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	var s Stream[struct{}]
	s.Publish(struct{}{})
}
