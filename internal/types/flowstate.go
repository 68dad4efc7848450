package types

// FlowState is the session's position in the fixed conversation sequence.
// The flow is linear: no branching, no skipping, no going back.
type FlowState string

const (
  FlowSafeFraming     FlowState = "SAFE_FRAMING"
  FlowStorytelling    FlowState = "STORYTELLING"
  FlowStoryTold       FlowState = "STORY_TOLD"
  FlowValidateEmotion FlowState = "VALIDATE_EMOTION"
  FlowNarrative       FlowState = "NARRATIVE"
  FlowCompleted       FlowState = "COMPLETED"
)

var flowSuccessor = map[FlowState]FlowState{
  FlowSafeFraming:     FlowStorytelling,
  FlowStorytelling:    FlowStoryTold,
  FlowStoryTold:       FlowValidateEmotion,
  FlowValidateEmotion: FlowNarrative,
  FlowNarrative:       FlowCompleted,
}

// Next returns the successor state, or false from the terminal state.
func (f FlowState) Next() (FlowState, bool) {
  next, ok := flowSuccessor[f]
  return next, ok
}

// CanTransition reports whether to directly follows from.
func CanTransition(from, to FlowState) bool {
  next, ok := from.Next()
  return ok && next == to
}

func (f FlowState) Terminal() bool {
  return f == FlowCompleted
}

func (f FlowState) Valid() bool {
  if f == FlowCompleted {
    return true
  }
  _, ok := flowSuccessor[f]
  return ok
}
