package types

import "testing"

func TestFlowStateNext(t *testing.T) {
  cases := []struct {
    from FlowState
    want FlowState
    ok   bool
  }{
    {FlowSafeFraming, FlowStorytelling, true},
    {FlowStorytelling, FlowStoryTold, true},
    {FlowStoryTold, FlowValidateEmotion, true},
    {FlowValidateEmotion, FlowNarrative, true},
    {FlowNarrative, FlowCompleted, true},
    {FlowCompleted, "", false},
    {FlowState("BOGUS"), "", false},
  }
  for _, tc := range cases {
    got, ok := tc.from.Next()
    if ok != tc.ok || got != tc.want {
      t.Errorf("Next(%s) = (%s, %v), want (%s, %v)", tc.from, got, ok, tc.want, tc.ok)
    }
  }
}

func TestCanTransition(t *testing.T) {
  if !CanTransition(FlowStorytelling, FlowStoryTold) {
    t.Error("expected STORYTELLING -> STORY_TOLD to be allowed")
  }
  // No skipping ahead
  if CanTransition(FlowStorytelling, FlowValidateEmotion) {
    t.Error("expected STORYTELLING -> VALIDATE_EMOTION to be rejected")
  }
  // No going back
  if CanTransition(FlowStoryTold, FlowStorytelling) {
    t.Error("expected STORY_TOLD -> STORYTELLING to be rejected")
  }
  if CanTransition(FlowCompleted, FlowSafeFraming) {
    t.Error("expected transitions out of COMPLETED to be rejected")
  }
}

func TestFlowStateTerminalAndValid(t *testing.T) {
  for _, f := range []FlowState{FlowSafeFraming, FlowStorytelling, FlowStoryTold, FlowValidateEmotion, FlowNarrative} {
    if f.Terminal() {
      t.Errorf("%s should not be terminal", f)
    }
    if !f.Valid() {
      t.Errorf("%s should be valid", f)
    }
  }
  if !FlowCompleted.Terminal() {
    t.Error("COMPLETED should be terminal")
  }
  if !FlowCompleted.Valid() {
    t.Error("COMPLETED should be valid")
  }
  if FlowState("BOGUS").Valid() {
    t.Error("unknown state should be invalid")
  }
}
