/*
   event - simulator observation surface.

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

// Package event defines the simulator's observation callbacks: core
// accesses, per-warrior task counts, and round completion. A listener is a
// plain struct of optional callbacks, mirroring the host's own Callback
// typedef idiom for its timed-event scheduler rather than an interface with
// empty default methods.
package event

// AccessType classifies a CoreAccessEvent.
type AccessType int

const (
	Read AccessType = iota
	Write
	Execute
)

func (a AccessType) String() string {
	switch a {
	case Read:
		return "READ"
	case Write:
		return "WRITE"
	case Execute:
		return "EXECUTE"
	default:
		return "?"
	}
}

// CoreAccessEvent reports one read, write, or execute touch of a core cell.
type CoreAccessEvent struct {
	WarriorID  int
	Address    int
	AccessType AccessType
}

// TaskCountEvent reports a warrior's live task count after a cycle.
type TaskCountEvent struct {
	WarriorID int
	TaskCount int
}

// RoundEndEvent reports the outcome of a finished round. WinnerID is nil
// on a tie.
type RoundEndEvent struct {
	WinnerID *int
}

// Listener holds the optional callbacks a host may register with a
// Simulator. A nil callback is simply not invoked.
type Listener struct {
	OnCoreAccess func(CoreAccessEvent)
	OnTaskCount  func(TaskCountEvent)
	OnRoundEnd   func(RoundEndEvent)
}

// FireCoreAccess invokes OnCoreAccess if set. l may be nil.
func (l *Listener) FireCoreAccess(e CoreAccessEvent) {
	if l != nil && l.OnCoreAccess != nil {
		l.OnCoreAccess(e)
	}
}

// FireTaskCount invokes OnTaskCount if set. l may be nil.
func (l *Listener) FireTaskCount(e TaskCountEvent) {
	if l != nil && l.OnTaskCount != nil {
		l.OnTaskCount(e)
	}
}

// FireRoundEnd invokes OnRoundEnd if set. l may be nil.
func (l *Listener) FireRoundEnd(e RoundEndEvent) {
	if l != nil && l.OnRoundEnd != nil {
		l.OnRoundEnd(e)
	}
}
