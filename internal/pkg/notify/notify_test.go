package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChanDropsWhenFull(t *testing.T) {
	c := NewChan(1)

	c.Notify(Notification{Level: LevelInfo, Message: "first"})
	c.Notify(Notification{Level: LevelInfo, Message: "second"}) // dropped, never blocks

	n := <-c.C
	assert.Equal(t, "first", n.Message)

	select {
	case n := <-c.C:
		t.Fatalf("unexpected notification %q", n.Message)
	default:
	}
}

func TestMultiFansOut(t *testing.T) {
	var a, b []Notification
	m := Multi{
		Func(func(n Notification) { a = append(a, n) }),
		Func(func(n Notification) { b = append(b, n) }),
	}

	m.Notify(Notification{Level: LevelSuccess, Message: "done"})

	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
	assert.Equal(t, "done", a[0].Message)
}
