// Package events defines the typed event contract of the coaching client.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - capture.*
//   - turn_state.*
//   - transcript.*
//   - lesson.*
//   - drill.*
//
// Semantics used across the package:
//
//   - Frame: binary audio chunk as delivered by the input device.
//   - Started/Completed/Failed: lifecycle boundaries of a single operation.
//   - Changed: point-in-time state snapshot.
//
// capture events
//
//   - CaptureStarted (capture.started): the device was acquired and
//     recording began.
//   - CaptureFrame (capture.frame): one raw audio chunk, in arrival order.
//   - CapturePayloadReady (capture.payload_ready): terminal, the recording
//     was assembled into a payload.
//   - CaptureFailed (capture.failed): terminal, the recording produced no
//     payload. Exactly one of CapturePayloadReady or CaptureFailed is emitted
//     per recording.
//
// turn_state events
//
//   - TurnStarted (turn_state.started): a user turn was accepted and sent.
//   - TurnCompleted (turn_state.completed): the assistant reply arrived.
//   - TurnFailed (turn_state.failed): the exchange failed and a fallback
//     reply was recorded.
//   - StatusChanged (turn_state.status_changed): controller status moved
//     between idle, recording and thinking.
//
// transcript events
//
//   - TurnAppended (transcript.turn_appended): a turn was added to the
//     transcript.
//
// lesson events
//
//   - LessonStepAdvanced (lesson.step_advanced): the lesson moved one step.
//   - LessonCompleted (lesson.completed): the last step was reached.
//
// drill events
//
//   - DrillTargetSelected (drill.target_selected): drill state was reset for
//     a target.
//   - DrillAttemptScored (drill.attempt_scored): a result was recorded for
//     the current word.
//   - DrillWordCompleted (drill.word_completed): the current word passed.
//   - DrillWordAdvanced (drill.word_advanced): the drill moved to the next
//     word.
//   - DrillCompleted (drill.completed): every example word passed.
package events
