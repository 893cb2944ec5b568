/*
   event - observation surface test cases.

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

package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFireCoreAccessInvokesCallback(t *testing.T) {
	var got CoreAccessEvent
	called := false
	l := &Listener{OnCoreAccess: func(e CoreAccessEvent) {
		called = true
		got = e
	}}

	l.FireCoreAccess(CoreAccessEvent{WarriorID: 1, Address: 42, AccessType: Write})
	require.True(t, called)
	require.Equal(t, CoreAccessEvent{WarriorID: 1, Address: 42, AccessType: Write}, got)
}

func TestFireTaskCountInvokesCallback(t *testing.T) {
	var got TaskCountEvent
	l := &Listener{OnTaskCount: func(e TaskCountEvent) { got = e }}

	l.FireTaskCount(TaskCountEvent{WarriorID: 0, TaskCount: 3})
	require.Equal(t, TaskCountEvent{WarriorID: 0, TaskCount: 3}, got)
}

func TestFireRoundEndInvokesCallback(t *testing.T) {
	winner := 1
	var got RoundEndEvent
	l := &Listener{OnRoundEnd: func(e RoundEndEvent) { got = e }}

	l.FireRoundEnd(RoundEndEvent{WinnerID: &winner})
	require.NotNil(t, got.WinnerID)
	require.Equal(t, 1, *got.WinnerID)
}

// A nil Listener, and a Listener with unset callbacks, must not panic -
// the simulator fires events unconditionally regardless of whether a
// host installed a listener.
func TestFireOnNilOrEmptyListenerIsNoop(t *testing.T) {
	var nilListener *Listener
	require.NotPanics(t, func() {
		nilListener.FireCoreAccess(CoreAccessEvent{})
		nilListener.FireTaskCount(TaskCountEvent{})
		nilListener.FireRoundEnd(RoundEndEvent{})
	})

	empty := &Listener{}
	require.NotPanics(t, func() {
		empty.FireCoreAccess(CoreAccessEvent{})
		empty.FireTaskCount(TaskCountEvent{})
		empty.FireRoundEnd(RoundEndEvent{})
	})
}

func TestAccessTypeString(t *testing.T) {
	require.Equal(t, "READ", Read.String())
	require.Equal(t, "WRITE", Write.String())
	require.Equal(t, "EXECUTE", Execute.String())
}
