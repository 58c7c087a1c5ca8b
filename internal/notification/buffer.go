package notification

import (
	"sync"

	"github.com/repvision/repvision-api/internal/push"
)

type item struct {
	notification push.Notification
	prev         *item
}

type buffer struct {
	lock sync.Mutex
	head *item
	tail *item
	size int
}

func newBuffer() *buffer {
	return &buffer{}
}

func (b *buffer) PushBack(it *item) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.head == nil {
		b.head = it
		b.tail = it
	} else {
		b.tail.prev = it
		b.tail = it
	}
	b.size++
}

func (b *buffer) Pop() *item {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.head == nil {
		return nil
	}
	tmp := b.head
	if b.head.prev != nil {
		b.head = b.head.prev
	} else {
		// removing the last one
		b.head = nil
		b.tail = nil
	}
	b.size--
	return tmp
}

func (b *buffer) Size() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.size
}
