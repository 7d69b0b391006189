package orchestration

import (
	"fmt"

	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/lessons"
)

const liveGreeting = "Hi! I'm Macca, your English speaking coach. Let's have a natural conversation. What would you like to talk about today?"

// lessonWelcome opens the lesson on the step the learner is at.
func lessonWelcome(lesson *lessons.Tracker) string {
	info := lesson.Lesson()
	step, title := lesson.CurrentStep(), lesson.StepTitle()

	welcome := fmt.Sprintf("Welcome to today's lesson: \"%s\".", info.Title)
	if info.Subtitle != "" {
		welcome += " " + info.Subtitle
	}
	if step == 1 {
		return welcome + fmt.Sprintf(" Let's start with Step 1: %s. Tell me a bit about yourself!", title)
	}
	return welcome + fmt.Sprintf(" Let's pick up where you left off with Step %d: %s.", step, title)
}

// greeting returns the assistant turn a session opens with, if any.
func greeting(mode coaching.Mode, lesson *lessons.Tracker) (coaching.Turn, bool) {
	switch {
	case mode == coaching.ModeLive:
		return coaching.Turn{Role: coaching.RoleAssistant, Text: liveGreeting}, true
	case mode == coaching.ModeGuided && lesson != nil:
		return coaching.Turn{Role: coaching.RoleAssistant, Text: lessonWelcome(lesson)}, true
	}
	return coaching.Turn{}, false
}
