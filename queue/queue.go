/*
   queue - fixed capacity circular task queue.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package queue implements the per-warrior task queue: a fixed capacity
// FIFO of program counters, one per live task.
package queue

// Queue is a fixed-capacity circular FIFO of program counters.
type Queue struct {
	buf        []int
	head, tail int
	count      int
}

// New returns a queue able to hold up to capacity entries.
func New(capacity int) *Queue {
	return &Queue{buf: make([]int, capacity)}
}

// Push enqueues pc at the tail. The scheduler guarantees count never
// reaches capacity, so overflow behavior is intentionally unspecified.
func (q *Queue) Push(pc int) {
	if len(q.buf) == 0 {
		return
	}
	q.buf[q.tail] = pc
	q.tail = (q.tail + 1) % len(q.buf)
	q.count++
}

// Pop removes and returns the PC at the head of the queue.
func (q *Queue) Pop() (int, bool) {
	if q.count == 0 {
		return 0, false
	}
	pc := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return pc, true
}

// Peek returns the head PC without removing it.
func (q *Queue) Peek() (int, bool) {
	if q.count == 0 {
		return 0, false
	}
	return q.buf[q.head], true
}

// Size returns the number of live entries.
func (q *Queue) Size() int {
	return q.count
}

// Empty reports whether the queue holds no tasks.
func (q *Queue) Empty() bool {
	return q.count == 0
}

// Clear empties the queue without releasing its backing storage.
func (q *Queue) Clear() {
	q.head, q.tail, q.count = 0, 0, 0
}

// Snapshot returns the queue's PCs in FIFO order without mutating it.
func (q *Queue) Snapshot() []int {
	out := make([]int, 0, q.count)
	for i := 0; i < q.count; i++ {
		out = append(out, q.buf[(q.head+i)%len(q.buf)])
	}
	return out
}
