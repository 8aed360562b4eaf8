package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLeaveGuardShouldLeave(t *testing.T) {
	tests := []struct {
		name       string
		inFlight   bool
		answer     bool
		want       bool
		wantPrompt bool
	}{
		{name: "idle leaves without asking", inFlight: false, want: true},
		{name: "in flight and confirmed", inFlight: true, answer: true, want: true, wantPrompt: true},
		{name: "in flight and declined", inFlight: true, answer: false, want: false, wantPrompt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompts int32
			guard := &leaveGuard{
				inFlight: func() bool { return tt.inFlight },
				confirm: func() bool {
					atomic.AddInt32(&prompts, 1)
					return tt.answer
				},
			}

			assert.Equal(t, tt.want, guard.shouldLeave())
			assert.Equal(t, tt.wantPrompt, atomic.LoadInt32(&prompts) == 1)
		})
	}
}

func TestLeaveGuardSettleWaitsForOpenPrompt(t *testing.T) {
	opened := make(chan struct{})
	answer := make(chan bool)
	guard := &leaveGuard{
		inFlight: func() bool { return true },
		confirm: func() bool {
			close(opened)
			return <-answer
		},
	}

	left := make(chan bool, 1)
	go func() { left <- guard.shouldLeave() }()
	<-opened

	settled := make(chan struct{})
	go func() {
		guard.settle()
		close(settled)
	}()

	select {
	case <-settled:
		t.Fatal("settle returned while the leave prompt was open")
	case <-time.After(50 * time.Millisecond):
	}

	answer <- false

	select {
	case <-settled:
	case <-time.After(time.Second):
		t.Fatal("settle did not return after the prompt was answered")
	}
	assert.False(t, <-left)
}

func TestLeaveGuardSettleWithoutPrompt(t *testing.T) {
	guard := &leaveGuard{
		inFlight: func() bool { return false },
		confirm:  func() bool { return false },
	}

	done := make(chan struct{})
	go func() {
		guard.settle()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("settle blocked with no prompt open")
	}
}
